package transfer

import (
	"context"
	"log"
	"strconv"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

// ReadSceneConfigurations pulls every scene and its items from a unit and
// persists them, returning the address map the schedule and multi-scene
// readers depend on. Scene items route through the identity resolver;
// spi items (object value >= 25) carry no database row of their own and are
// stored address-keyed with the effect index encoded in the command field.
func (s *Service) ReadSceneConfigurations(ctx context.Context, unit controller.Unit, projectID string, unitID *string) ([]models.Scene, SceneAddressMap, error) {
	created := []models.Scene{}
	addressMap := SceneAddressMap{}

	scenes, err := s.client.GetAllScenesInformation(ctx, unit)
	if err != nil {
		log.Printf("Warning: failed to read scenes from %s: %v", unit.IP, err)
		return created, addressMap, nil
	}

	for _, info := range scenes {
		detail, err := s.client.GetSceneInformation(ctx, unit, info.Index)
		if err != nil {
			log.Printf("Warning: failed to read scene %d detail: %v", info.Index, err)
			continue
		}

		var items []models.SceneItem
		for _, networkItem := range detail.Items {
			item, ok := s.buildSceneItem(ctx, networkItem, projectID)
			if !ok {
				continue
			}
			items = append(items, item)
		}

		scene := models.Scene{
			ProjectID:  projectID,
			Name:       info.Name,
			Address:    strconv.Itoa(info.Address),
			SourceUnit: unitID,
		}
		if err := s.sceneRepo.CreateWithItems(ctx, &scene, items); err != nil {
			log.Printf("Warning: failed to persist scene %q: %v", info.Name, err)
			continue
		}
		created = append(created, scene)
		addressMap[scene.Address] = scene.ID

		if err := s.pace(ctx); err != nil {
			return created, addressMap, err
		}
	}

	return created, addressMap, nil
}

// buildSceneItem converts one network scene item into its database form.
// Returns ok=false when the item class is unknown or resolution failed.
func (s *Service) buildSceneItem(ctx context.Context, networkItem controller.SceneItemInfo, projectID string) (models.SceneItem, bool) {
	address := strconv.Itoa(networkItem.ItemAddress)

	// spi effects have no database entity: address-keyed, effect index in
	// the command field.
	if networkItem.ObjectValue >= spiObjectBase {
		command := strconv.Itoa(networkItem.ObjectValue - spiObjectBase)
		return models.SceneItem{
			ItemType:    ItemTypeSpi,
			ItemID:      nil,
			ItemAddress: address,
			ItemValue:   networkItem.ItemValue,
			Command:     &command,
			ObjectType:  "spi",
		}, true
	}

	itemType, itemID := s.ResolveNetworkItem(ctx, networkItem.ObjectValue, address, projectID)
	if itemType == "" || itemID == nil {
		log.Printf("Warning: skipping scene item with object value %d at %s", networkItem.ObjectValue, address)
		return models.SceneItem{}, false
	}

	// Lighting values arrive 0-255 from the unit and are stored as-is.
	return models.SceneItem{
		ItemType:    itemType,
		ItemID:      itemID,
		ItemAddress: address,
		ItemValue:   networkItem.ItemValue,
		ObjectType:  objectTypeTag(networkItem.ObjectValue),
	}, true
}
