package transfer

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
)

// Item categories used to bridge network object classes and database rows.
const (
	ItemTypeLighting = "lighting"
	ItemTypeCurtain  = "curtain"
	ItemTypeAircon   = "aircon"
	ItemTypeSpi      = "spi"
)

// spiObjectBase is the first object value of the spi (pixel-strip effect)
// range; the effect index is objectValue - spiObjectBase.
const spiObjectBase = 25

const autoCreatedDescription = "Auto-created from scene transfer"

// itemCategory maps a network object value to a database category.
// Unknown values resolve to "", which callers treat as skip.
func itemCategory(objectValue int) string {
	switch {
	case objectValue == 1:
		return ItemTypeLighting
	case objectValue == 2:
		return ItemTypeCurtain
	case objectValue >= 3 && objectValue <= 7:
		return ItemTypeAircon
	default:
		return ""
	}
}

// objectTypeTag returns the object-type tag stored on created rows.
func objectTypeTag(objectValue int) string {
	switch objectValue {
	case 1:
		return "lighting"
	case 2:
		return "curtain"
	case 3:
		return "ac_power"
	case 4:
		return "ac_mode"
	case 5:
		return "ac_fan_speed"
	case 6:
		return "ac_temperature"
	case 7:
		return "ac_swing"
	default:
		return ""
	}
}

// ResolveNetworkItem finds or creates the database row matching a
// network-reported item descriptor. It returns the resolved category and row
// ID, or ("", nil) for unknown object values. Store errors degrade to
// ("", nil) so callers skip the item and continue with its siblings.
func (s *Service) ResolveNetworkItem(ctx context.Context, objectValue int, address, projectID string) (string, *string) {
	category := itemCategory(objectValue)
	if category == "" {
		return "", nil
	}

	switch category {
	case ItemTypeLighting:
		existing, err := s.lightingRepo.FindByAddress(ctx, projectID, address)
		if err != nil {
			log.Printf("Warning: lighting lookup failed for address %s: %v", address, err)
			return "", nil
		}
		if existing != nil {
			return category, &existing.ID
		}
		desc := autoCreatedDescription
		item := &models.Lighting{
			ProjectID:   projectID,
			Name:        fmt.Sprintf("Lighting %s", address),
			Address:     address,
			Description: &desc,
			ObjectType:  objectTypeTag(objectValue),
		}
		if err := s.lightingRepo.Create(ctx, item); err != nil {
			log.Printf("Warning: failed to auto-create lighting %s: %v", address, err)
			return "", nil
		}
		return category, &item.ID

	case ItemTypeCurtain:
		existing, err := s.curtainRepo.FindByAddress(ctx, projectID, address)
		if err != nil {
			log.Printf("Warning: curtain lookup failed for address %s: %v", address, err)
			return "", nil
		}
		if existing != nil {
			return category, &existing.ID
		}
		desc := autoCreatedDescription
		curtain := &models.Curtain{
			ProjectID:   projectID,
			Name:        fmt.Sprintf("Curtain %s", address),
			Address:     address,
			Description: &desc,
			ObjectType:  objectTypeTag(objectValue),
			CurtainType: "",
		}
		if err := s.curtainRepo.Create(ctx, curtain); err != nil {
			log.Printf("Warning: failed to auto-create curtain %s: %v", address, err)
			return "", nil
		}
		return category, &curtain.ID

	case ItemTypeAircon:
		existing, err := s.airconRepo.FindByAddress(ctx, projectID, address)
		if err != nil {
			log.Printf("Warning: aircon lookup failed for address %s: %v", address, err)
			return "", nil
		}
		if existing != nil {
			return category, &existing.ID
		}
		desc := autoCreatedDescription
		item := &models.Aircon{
			ProjectID:   projectID,
			Name:        fmt.Sprintf("Aircon %s", address),
			Address:     address,
			Description: &desc,
			ObjectType:  objectTypeTag(objectValue),
		}
		if err := s.airconRepo.Create(ctx, item); err != nil {
			log.Printf("Warning: failed to auto-create aircon %s: %v", address, err)
			return "", nil
		}
		return category, &item.ID
	}

	return "", nil
}

// FindOrCreateLightingByAddress resolves an RCU group address to a lighting
// row, creating one when absent. Address 0 is reserved ("none") and resolves
// to nil. Store errors degrade to nil.
func (s *Service) FindOrCreateLightingByAddress(ctx context.Context, address int, projectID string) *string {
	if address == 0 {
		return nil
	}

	addr := strconv.Itoa(address)
	existing, err := s.lightingRepo.FindByAddress(ctx, projectID, addr)
	if err != nil {
		log.Printf("Warning: lighting lookup failed for address %s: %v", addr, err)
		return nil
	}
	if existing != nil {
		return &existing.ID
	}

	desc := autoCreatedDescription
	item := &models.Lighting{
		ProjectID:   projectID,
		Name:        fmt.Sprintf("Lighting %s", addr),
		Address:     addr,
		Description: &desc,
		ObjectType:  "lighting",
	}
	if err := s.lightingRepo.Create(ctx, item); err != nil {
		log.Printf("Warning: failed to auto-create lighting %s: %v", addr, err)
		return nil
	}
	return &item.ID
}
