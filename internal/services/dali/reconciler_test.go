package dali

import (
	"context"
	"reflect"
	"testing"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/testutil"
	"github.com/meokisama/toolkit-engine-sub005/pkg/rcuframe"
)

// fakeClient overrides the calls a test cares about; anything else panics.
type fakeClient struct {
	controller.Client
	sentMappings  [][]int
	sentFrames    [][]byte
	deletedAddrs  []int
	sentGroupCfgs []controller.GroupSceneConfig
}

func (f *fakeClient) SendAddressMapping(ctx context.Context, unit controller.Unit, mapping []int) error {
	copied := make([]int, len(mapping))
	copy(copied, mapping)
	f.sentMappings = append(f.sentMappings, copied)
	return nil
}

func (f *fakeClient) SendMappingRCU(ctx context.Context, unit controller.Unit, frame []byte) error {
	f.sentFrames = append(f.sentFrames, append([]byte(nil), frame...))
	return nil
}

func (f *fakeClient) SendDeleteAddress(ctx context.Context, unit controller.Unit, address int) error {
	f.deletedAddrs = append(f.deletedAddrs, address)
	return nil
}

func (f *fakeClient) SendGroupSceneConfig(ctx context.Context, unit controller.Unit, cfg controller.GroupSceneConfig) error {
	f.sentGroupCfgs = append(f.sentGroupCfgs, cfg)
	return nil
}

func intPtr(v int) *int { return &v }

func assertBijection(t *testing.T, mapping []int) {
	t.Helper()
	if len(mapping) != rcuframe.AddressMappingSize {
		t.Fatalf("Expected %d slots, got %d", rcuframe.AddressMappingSize, len(mapping))
	}
	var seen [rcuframe.AddressMappingSize]bool
	for slot, address := range mapping {
		if address < 0 || address >= rcuframe.AddressMappingSize {
			t.Fatalf("Slot %d: address %d out of range", slot, address)
		}
		if seen[address] {
			t.Fatalf("Address %d assigned twice", address)
		}
		seen[address] = true
	}
}

func TestComputeAddressMapping_EmptyInputs(t *testing.T) {
	mapping := ComputeAddressMapping(nil, nil)
	assertBijection(t, mapping)
	for i, address := range mapping {
		if address != i {
			t.Errorf("Slot %d: expected identity fill %d, got %d", i, i, address)
		}
	}
}

func TestComputeAddressMapping_ScanOnly(t *testing.T) {
	scanned := []ScanEntry{
		{Index: 0, Address: 5},
		{Index: 1, Address: 3},
	}
	mapping := ComputeAddressMapping(scanned, nil)
	assertBijection(t, mapping)

	if mapping[0] != 5 || mapping[1] != 3 {
		t.Errorf("Scanned slots not preserved: got %d, %d", mapping[0], mapping[1])
	}
	// Unscanned slots fill with the lowest unused identities.
	if mapping[2] != 0 || mapping[3] != 1 || mapping[4] != 2 || mapping[5] != 4 {
		t.Errorf("Filler sequence wrong: %v", mapping[2:6])
	}
}

func TestComputeAddressMapping_SwapMovesIdentityToTarget(t *testing.T) {
	scanned := []ScanEntry{{Index: 0, Address: 5}}
	rows := []models.DaliDevice{
		{MappedDeviceIndex: intPtr(10), MappedDeviceAddress: intPtr(5)},
	}
	mapping := ComputeAddressMapping(scanned, rows)
	assertBijection(t, mapping)

	if mapping[10] != 5 {
		t.Errorf("Identity 5 should occupy slot 10, got %d", mapping[10])
	}
	// The filler previously at slot 10 moved to identity 5's original slot.
	if mapping[0] == 5 {
		t.Error("Identity 5 still occupies its original slot")
	}
}

func TestComputeAddressMapping_ChainedSwaps(t *testing.T) {
	// Row A moves identity 0 onto slot 1, displacing identity 1 to slot 0.
	// Row B then asks identity 1 to slot 2; it must be found at its
	// post-swap position, not its original one.
	rows := []models.DaliDevice{
		{MappedDeviceIndex: intPtr(1), MappedDeviceAddress: intPtr(0)},
		{MappedDeviceIndex: intPtr(2), MappedDeviceAddress: intPtr(1)},
	}
	mapping := ComputeAddressMapping(nil, rows)
	assertBijection(t, mapping)

	if mapping[1] != 0 {
		t.Errorf("Slot 1: expected identity 0, got %d", mapping[1])
	}
	if mapping[2] != 1 {
		t.Errorf("Slot 2: expected identity 1, got %d", mapping[2])
	}
	if mapping[0] != 2 {
		t.Errorf("Slot 0: expected displaced identity 2, got %d", mapping[0])
	}
}

func TestComputeAddressMapping_IgnoresInvalidRows(t *testing.T) {
	rows := []models.DaliDevice{
		{MappedDeviceIndex: intPtr(99), MappedDeviceAddress: intPtr(1)},
		{MappedDeviceIndex: nil, MappedDeviceAddress: intPtr(2)},
		{MappedDeviceIndex: intPtr(3), MappedDeviceAddress: nil},
	}
	mapping := ComputeAddressMapping(nil, rows)
	assertBijection(t, mapping)
	for i, address := range mapping {
		if address != i {
			t.Errorf("Slot %d: expected untouched identity fill, got %d", i, address)
		}
	}
}

func TestParseAddressList(t *testing.T) {
	addresses, err := ParseAddressList("5,10,15-20")
	if err != nil {
		t.Fatalf("ParseAddressList() error: %v", err)
	}
	expected := []int{5, 10, 15, 16, 17, 18, 19, 20}
	if !reflect.DeepEqual(addresses, expected) {
		t.Errorf("Expected %v, got %v", expected, addresses)
	}
}

func TestParseAddressList_Deduplicates(t *testing.T) {
	addresses, err := ParseAddressList("3,3,1-3")
	if err != nil {
		t.Fatalf("ParseAddressList() error: %v", err)
	}
	if !reflect.DeepEqual(addresses, []int{1, 2, 3}) {
		t.Errorf("Expected [1 2 3], got %v", addresses)
	}
}

func TestParseAddressList_Invalid(t *testing.T) {
	for _, input := range []string{"", "64", "-1", "abc", "20-15"} {
		if _, err := ParseAddressList(input); err == nil {
			t.Errorf("Expected error for input %q", input)
		}
	}
}

func TestDeleteAddresses_All(t *testing.T) {
	client := &fakeClient{}
	service := NewService(client, nil, NewMemoryScanCache(), 0)

	if err := service.DeleteAddresses(context.Background(), controller.Unit{IP: "10.0.0.1"}, "all", ""); err != nil {
		t.Fatalf("DeleteAddresses() error: %v", err)
	}
	if len(client.deletedAddrs) != 1 || client.deletedAddrs[0] != rcuframe.DeleteAllSentinel {
		t.Errorf("Expected single delete-all call, got %v", client.deletedAddrs)
	}
}

func TestDeleteAddresses_List(t *testing.T) {
	client := &fakeClient{}
	service := NewService(client, nil, NewMemoryScanCache(), 0)

	if err := service.DeleteAddresses(context.Background(), controller.Unit{IP: "10.0.0.1"}, "list", "5,10,15-20"); err != nil {
		t.Fatalf("DeleteAddresses() error: %v", err)
	}
	expected := []int{5, 10, 15, 16, 17, 18, 19, 20}
	if !reflect.DeepEqual(client.deletedAddrs, expected) {
		t.Errorf("Expected %v, got %v", expected, client.deletedAddrs)
	}
}

func TestDeleteAddresses_InvalidList(t *testing.T) {
	client := &fakeClient{}
	service := NewService(client, nil, NewMemoryScanCache(), 0)

	if err := service.DeleteAddresses(context.Background(), controller.Unit{IP: "10.0.0.1"}, "list", "70"); err == nil {
		t.Error("Expected error for out-of-range address")
	}
	if len(client.deletedAddrs) != 0 {
		t.Errorf("No call should be sent on invalid input, got %v", client.deletedAddrs)
	}
}

func TestReconcileAddressMapping(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	project := testutil.CreateTestProject(t, tdb)

	client := &fakeClient{}
	cache := NewMemoryScanCache()
	if err := cache.Save(project.ID, []ScanEntry{
		{Index: 0, Address: 7, Name: "Device 7"},
	}); err != nil {
		t.Fatalf("Failed to seed scan cache: %v", err)
	}

	service := NewService(client, tdb.DaliRepo, cache, 0)

	// Topology initializes on first use; declare a target after that.
	if err := tdb.DaliRepo.EnsureTopology(ctx, project.ID); err != nil {
		t.Fatalf("EnsureTopology() error: %v", err)
	}
	devices, err := tdb.DaliRepo.GetDevices(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetDevices() error: %v", err)
	}
	// Row for slot 0 wants identity 7 moved to slot 12.
	devices[0].MappedDeviceIndex = intPtr(12)
	devices[0].MappedDeviceAddress = intPtr(7)
	if err := tdb.DaliRepo.UpdateDevice(ctx, &devices[0]); err != nil {
		t.Fatalf("UpdateDevice() error: %v", err)
	}

	mapping, err := service.ReconcileAddressMapping(ctx, controller.Unit{IP: "10.0.0.1"}, project.ID)
	if err != nil {
		t.Fatalf("ReconcileAddressMapping() error: %v", err)
	}
	assertBijection(t, mapping)
	if mapping[12] != 7 {
		t.Errorf("Identity 7 should occupy slot 12, got %d", mapping[12])
	}
	if len(client.sentMappings) != 1 {
		t.Fatalf("Expected one SendAddressMapping call, got %d", len(client.sentMappings))
	}

	// The database row mapping slot 12 reflects the new address.
	devices, err = tdb.DaliRepo.GetDevices(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetDevices() error: %v", err)
	}
	var reflected bool
	for _, device := range devices {
		if device.MappedDeviceIndex != nil && *device.MappedDeviceIndex == 12 {
			reflected = true
			if device.MappedDeviceAddress == nil || *device.MappedDeviceAddress != 7 {
				t.Errorf("Expected mapped address 7, got %v", device.MappedDeviceAddress)
			}
			if device.MappedDeviceName != "Device 7" {
				t.Errorf("Expected name 'Device 7', got %q", device.MappedDeviceName)
			}
		}
	}
	if !reflected {
		t.Error("No database row reflects slot 12")
	}

	// The scan cache mirrors the renaming.
	entries, err := cache.Load(project.ID)
	if err != nil {
		t.Fatalf("cache.Load() error: %v", err)
	}
	if entries[0].Address != mapping[0] {
		t.Errorf("Cache entry address %d does not mirror mapping %d", entries[0].Address, mapping[0])
	}
}

func TestBuildRCUMapping_GroupDefaults(t *testing.T) {
	frame, err := BuildRCUMapping(nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildRCUMapping() error: %v", err)
	}
	for i := 0; i < rcuframe.GroupCount; i++ {
		if int(frame[rcuframe.AddressMappingSize+i]) != 100+i {
			t.Errorf("Group %d: expected default %d, got %d", i, 100+i, frame[rcuframe.AddressMappingSize+i])
		}
	}
}

func TestBuildRCUMapping_DatabaseOverridesScan(t *testing.T) {
	scanned := []ScanEntry{{Index: 4, LightingGroupAddress: 33}}
	rows := []models.DaliDevice{
		{MappedDeviceIndex: intPtr(4), LightingGroupAddress: 44},
	}
	groups := []models.DaliGroup{
		{GroupID: 2, LightingGroupAddress: intPtr(9)},
	}

	frame, err := BuildRCUMapping(scanned, rows, groups)
	if err != nil {
		t.Fatalf("BuildRCUMapping() error: %v", err)
	}
	if frame[4] != 44 {
		t.Errorf("Slot 4: database value should override scan, got %d", frame[4])
	}
	if frame[rcuframe.AddressMappingSize+2] != 9 {
		t.Errorf("Group 2: expected 9, got %d", frame[rcuframe.AddressMappingSize+2])
	}
}
