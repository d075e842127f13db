package transfer

import (
	"context"
	"testing"

	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

func TestReadCurtainConfigurations_SkipsUnconfigured(t *testing.T) {
	client := &fakeClient{
		curtains: []controller.CurtainInfo{
			{Index: 0, CurtainType: 0},
			{Index: 1, Address: 5, CurtainType: 3, CurtainValue: 1, OpenGroup: 10, CloseGroup: 11, StopGroup: 0},
		},
	}
	service, tdb, projectID, cleanup := newTestService(t, client)
	defer cleanup()
	ctx := context.Background()

	created, err := service.ReadCurtainConfigurations(ctx, controller.Unit{IP: "10.0.0.1"}, projectID, nil)
	if err != nil {
		t.Fatalf("ReadCurtainConfigurations() error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Expected 1 curtain, got %d", len(created))
	}

	curtain := created[0]
	if curtain.Address != "5" {
		t.Errorf("Expected address 5, got %s", curtain.Address)
	}
	if curtain.CurtainType != "PULSE_1G_3P" {
		t.Errorf("Expected PULSE_1G_3P, got %s", curtain.CurtainType)
	}
	if curtain.StopGroupID != nil {
		t.Errorf("stopGroup 0 should map to null, got %v", curtain.StopGroupID)
	}
	if curtain.OpenGroupID == nil || curtain.CloseGroupID == nil {
		t.Fatal("Open and close groups should resolve")
	}

	// The group references were auto-created as lighting rows.
	open, err := tdb.LightingRepo.FindByID(ctx, *curtain.OpenGroupID)
	if err != nil || open == nil {
		t.Fatalf("Open group row missing: %v", err)
	}
	if open.Address != "10" {
		t.Errorf("Expected open group address 10, got %s", open.Address)
	}
}

func TestReadCurtainConfigurations_BulkFetchFailure(t *testing.T) {
	client := &fakeClient{curtainsErr: context.DeadlineExceeded}
	service, _, projectID, cleanup := newTestService(t, client)
	defer cleanup()

	created, err := service.ReadCurtainConfigurations(context.Background(), controller.Unit{IP: "10.0.0.1"}, projectID, nil)
	if err != nil {
		t.Fatalf("Bulk fetch failure should not propagate, got %v", err)
	}
	if len(created) != 0 {
		t.Errorf("Expected empty result, got %d", len(created))
	}
}

func TestCurtainTypeRoundTrip(t *testing.T) {
	for value := 1; value <= 6; value++ {
		name := CurtainTypeName(value)
		if name == "" {
			t.Errorf("Type %d has no name", value)
		}
		if got := CurtainTypeValue(name); got != value {
			t.Errorf("Round trip for %q: expected %d, got %d", name, value, got)
		}
	}
	if CurtainTypeName(0) != "" {
		t.Error("Type 0 should have no name")
	}
	if CurtainTypeValue("UNKNOWN") != 0 {
		t.Error("Unknown name should map to 0")
	}
}
