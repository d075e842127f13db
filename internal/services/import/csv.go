package importservice

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/database/repositories"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/export"
)

var scenePartSuffix = regexp.MustCompile(`^(.*) \(Part \d+\)$`)

// partBaseName strips a "(Part N)" continuation suffix from a scene name.
func partBaseName(name string) (string, bool) {
	if m := scenePartSuffix.FindStringSubmatch(name); m != nil {
		return m[1], true
	}
	return name, false
}

// ImportScenesCSV imports scenes from the flattened item format. Rows with
// an empty scene name belong to the preceding scene; "(Part N)" blocks merge
// back into the scene they continue.
func (s *Service) ImportScenesCSV(ctx context.Context, projectID string, r io.Reader) (*ImportStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if !strings.EqualFold(header[0], "SCENE NAME") {
		return nil, fmt.Errorf("unexpected csv header %q", header[0])
	}

	stats := &ImportStats{}
	sceneRepo := repositories.NewSceneRepository(s.db)

	var currentName string
	var currentItems []models.SceneItem

	flush := func() error {
		if currentName == "" {
			return nil
		}
		scene := &models.Scene{
			ProjectID: projectID,
			Name:      currentName,
		}
		if err := sceneRepo.CreateWithItems(ctx, scene, currentItems); err != nil {
			return fmt.Errorf("failed to create scene %q: %w", currentName, err)
		}
		stats.ScenesCreated++
		stats.SceneItemsCreated += len(currentItems)
		currentName = ""
		currentItems = nil
		return nil
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		sceneName := strings.TrimSpace(record[0])
		itemName := strings.TrimSpace(record[1])
		objectType := strings.TrimSpace(record[2])
		address := strings.TrimSpace(record[3])
		rawValue := strings.TrimSpace(record[4])

		if sceneName != "" {
			base, isPart := partBaseName(sceneName)
			if !isPart || base != currentName {
				if err := flush(); err != nil {
					return nil, err
				}
				currentName = base
			}
		}
		if currentName == "" {
			return nil, fmt.Errorf("line %d: item row before any scene name", line)
		}

		value, err := export.DecodeItemValue(objectType, rawValue)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		item := models.SceneItem{
			ItemType:    itemTypeForObjectType(objectType),
			ItemAddress: address,
			ItemValue:   value,
			ObjectType:  objectType,
		}
		if id := s.resolveItemID(ctx, projectID, item.ItemType, address); id != nil {
			item.ItemID = id
		} else if itemName != "" {
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("line %d: no %s item at address %s for %q", line, item.ItemType, address, itemName))
		}
		currentItems = append(currentItems, item)
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return stats, nil
}

// itemTypeForObjectType maps an object type tag back to its item category.
func itemTypeForObjectType(objectType string) string {
	switch objectType {
	case "lighting", "curtain", "spi":
		return objectType
	default:
		return "aircon"
	}
}

// resolveItemID finds the project item a CSV row refers to by address.
// Address-only types and unknown addresses resolve to nil.
func (s *Service) resolveItemID(ctx context.Context, projectID, itemType, address string) *string {
	switch itemType {
	case "lighting":
		if item, err := repositories.NewLightingRepository(s.db).FindByAddress(ctx, projectID, address); err == nil && item != nil {
			return &item.ID
		}
	case "aircon":
		if item, err := repositories.NewAirconRepository(s.db).FindByAddress(ctx, projectID, address); err == nil && item != nil {
			return &item.ID
		}
	case "curtain":
		if item, err := repositories.NewCurtainRepository(s.db).FindByAddress(ctx, projectID, address); err == nil && item != nil {
			return &item.ID
		}
	}
	return nil
}
