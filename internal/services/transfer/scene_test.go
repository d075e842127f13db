package transfer

import (
	"context"
	"testing"

	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

func TestReadSceneConfigurations(t *testing.T) {
	client := &fakeClient{
		scenes: []controller.SceneInfo{
			{Index: 0, Address: 5, Name: "Evening", ItemCount: 3},
		},
		sceneDetail: map[int]*controller.SceneDetail{
			0: {
				Index: 0, Address: 5, Name: "Evening",
				Items: []controller.SceneItemInfo{
					{ObjectValue: 1, ItemAddress: 12, ItemValue: 255},
					{ObjectValue: 27, ItemAddress: 3, ItemValue: 1},
					{ObjectValue: 99, ItemAddress: 4, ItemValue: 1},
				},
			},
		},
	}
	service, tdb, projectID, cleanup := newTestService(t, client)
	defer cleanup()
	ctx := context.Background()

	created, addressMap, err := service.ReadSceneConfigurations(ctx, controller.Unit{IP: "10.0.0.1"}, projectID, nil)
	if err != nil {
		t.Fatalf("ReadSceneConfigurations() error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Expected 1 scene, got %d", len(created))
	}
	if addressMap["5"] != created[0].ID {
		t.Errorf("Address map should point at the created scene, got %v", addressMap)
	}

	items, err := tdb.SceneRepo.GetItems(ctx, created[0].ID)
	if err != nil {
		t.Fatalf("GetItems() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items (unknown object value dropped), got %d", len(items))
	}

	byType := make(map[string]int)
	for _, item := range items {
		byType[item.ItemType]++
	}
	if byType[ItemTypeLighting] != 1 || byType[ItemTypeSpi] != 1 {
		t.Errorf("Unexpected item type distribution: %v", byType)
	}

	for _, item := range items {
		switch item.ItemType {
		case ItemTypeLighting:
			// Raw unit values are stored unconverted.
			if item.ItemValue != 255 {
				t.Errorf("Expected raw value 255, got %d", item.ItemValue)
			}
			if item.ItemID == nil {
				t.Error("Lighting item should carry a row reference")
			}
		case ItemTypeSpi:
			if item.ItemID != nil {
				t.Error("spi item should not carry a row reference")
			}
			if item.Command == nil || *item.Command != "2" {
				t.Errorf("Expected effect index 2 in command, got %v", item.Command)
			}
		}
	}
}

func TestReadSceneConfigurations_DetailFailure(t *testing.T) {
	client := &fakeClient{
		scenes: []controller.SceneInfo{
			{Index: 0, Address: 5, Name: "Broken"},
			{Index: 1, Address: 6, Name: "Good"},
		},
		sceneDetail: map[int]*controller.SceneDetail{
			1: {Index: 1, Address: 6, Name: "Good"},
		},
	}
	service, _, projectID, cleanup := newTestService(t, client)
	defer cleanup()

	created, addressMap, err := service.ReadSceneConfigurations(context.Background(), controller.Unit{IP: "10.0.0.1"}, projectID, nil)
	if err != nil {
		t.Fatalf("ReadSceneConfigurations() error: %v", err)
	}
	if len(created) != 1 || created[0].Name != "Good" {
		t.Fatalf("Expected only the readable scene, got %v", created)
	}
	if _, ok := addressMap["5"]; ok {
		t.Error("Failed scene should not appear in the address map")
	}
}
