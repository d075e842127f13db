package transfer

import (
	"context"
	"testing"
)

func TestResolveNetworkItem_Idempotent(t *testing.T) {
	service, tdb, projectID, cleanup := newTestService(t, &fakeClient{})
	defer cleanup()
	ctx := context.Background()

	itemType, firstID := service.ResolveNetworkItem(ctx, 1, "12", projectID)
	if itemType != ItemTypeLighting || firstID == nil {
		t.Fatalf("First resolution failed: type=%q id=%v", itemType, firstID)
	}

	itemType, secondID := service.ResolveNetworkItem(ctx, 1, "12", projectID)
	if itemType != ItemTypeLighting || secondID == nil {
		t.Fatalf("Second resolution failed: type=%q id=%v", itemType, secondID)
	}
	if *firstID != *secondID {
		t.Errorf("Expected same row on second call, got %s and %s", *firstID, *secondID)
	}

	items, err := tdb.LightingRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		t.Fatalf("FindByProjectID() error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 lighting row, got %d", len(items))
	}
}

func TestResolveNetworkItem_Categories(t *testing.T) {
	service, tdb, projectID, cleanup := newTestService(t, &fakeClient{})
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		objectValue int
		wantType    string
		wantTag     string
	}{
		{1, ItemTypeLighting, "lighting"},
		{2, ItemTypeCurtain, "curtain"},
		{3, ItemTypeAircon, "ac_power"},
		{4, ItemTypeAircon, "ac_mode"},
		{5, ItemTypeAircon, "ac_fan_speed"},
		{6, ItemTypeAircon, "ac_temperature"},
		{7, ItemTypeAircon, "ac_swing"},
	}

	for i, tt := range tests {
		address := string(rune('a' + i)) // unique address per case
		itemType, itemID := service.ResolveNetworkItem(ctx, tt.objectValue, address, projectID)
		if itemType != tt.wantType {
			t.Errorf("objectValue %d: expected type %q, got %q", tt.objectValue, tt.wantType, itemType)
		}
		if itemID == nil {
			t.Errorf("objectValue %d: expected non-nil id", tt.objectValue)
		}
	}

	// Aircon rows carry the object tag of the value that created them.
	aircon, err := tdb.AirconRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		t.Fatalf("FindByProjectID() error: %v", err)
	}
	if len(aircon) != 5 {
		t.Fatalf("Expected 5 aircon rows, got %d", len(aircon))
	}
	tags := make(map[string]bool)
	for _, item := range aircon {
		tags[item.ObjectType] = true
	}
	for _, want := range []string{"ac_power", "ac_mode", "ac_fan_speed", "ac_temperature", "ac_swing"} {
		if !tags[want] {
			t.Errorf("Missing aircon tag %q", want)
		}
	}
}

func TestResolveNetworkItem_UnknownObjectValue(t *testing.T) {
	service, _, projectID, cleanup := newTestService(t, &fakeClient{})
	defer cleanup()

	itemType, itemID := service.ResolveNetworkItem(context.Background(), 99, "5", projectID)
	if itemType != "" || itemID != nil {
		t.Errorf("Expected empty resolution for unknown object value, got %q, %v", itemType, itemID)
	}
}

func TestFindOrCreateLightingByAddress(t *testing.T) {
	service, tdb, projectID, cleanup := newTestService(t, &fakeClient{})
	defer cleanup()
	ctx := context.Background()

	// Address 0 is reserved and resolves to nil without creating anything.
	if id := service.FindOrCreateLightingByAddress(ctx, 0, projectID); id != nil {
		t.Errorf("Expected nil for address 0, got %v", id)
	}

	first := service.FindOrCreateLightingByAddress(ctx, 7, projectID)
	if first == nil {
		t.Fatal("Expected created lighting row for address 7")
	}
	second := service.FindOrCreateLightingByAddress(ctx, 7, projectID)
	if second == nil || *second != *first {
		t.Errorf("Expected lookup hit on second call, got %v", second)
	}

	items, err := tdb.LightingRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		t.Fatalf("FindByProjectID() error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 lighting row, got %d", len(items))
	}
	if items[0].Description == nil || *items[0].Description != autoCreatedDescription {
		t.Errorf("Expected auto-created description, got %v", items[0].Description)
	}
}
