package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// SceneCSVItemLimit is the maximum item rows per scene block before the
// scene continues in a "(Part N)" block.
const SceneCSVItemLimit = 60

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteUnitsCSV writes the unit rows of a project as CSV.
func (s *Service) WriteUnitsCSV(ctx context.Context, w io.Writer, projectID string) error {
	units, err := s.unitRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "serial_no", "ip_address", "id_can", "mode", "firmware_version", "description"}); err != nil {
		return err
	}
	for _, unit := range units {
		record := []string{
			unit.Type,
			unit.SerialNo,
			unit.IPAddress,
			strconv.Itoa(unit.IDCan),
			unit.Mode,
			unit.FirmwareVersion,
			derefString(unit.Description),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteItemsCSV writes lighting, aircon or dmx rows as CSV. The aircon-cards
// variant drops the object_type column.
func (s *Service) WriteItemsCSV(ctx context.Context, w io.Writer, projectID, category string) error {
	type row struct {
		name, address, description, objectType string
	}
	var rows []row
	withObjectType := true

	switch category {
	case "lighting":
		items, err := s.lightingRepo.FindByProjectID(ctx, projectID)
		if err != nil {
			return err
		}
		for _, item := range items {
			rows = append(rows, row{item.Name, item.Address, derefString(item.Description), item.ObjectType})
		}
	case "aircon":
		items, err := s.airconRepo.FindByProjectID(ctx, projectID)
		if err != nil {
			return err
		}
		for _, item := range items {
			rows = append(rows, row{item.Name, item.Address, derefString(item.Description), item.ObjectType})
		}
	case "aircon_cards":
		items, err := s.airconRepo.FindByProjectID(ctx, projectID)
		if err != nil {
			return err
		}
		for _, item := range items {
			rows = append(rows, row{item.Name, item.Address, derefString(item.Description), ""})
		}
		withObjectType = false
	case "dmx":
		items, err := s.dmxRepo.FindByProjectID(ctx, projectID)
		if err != nil {
			return err
		}
		for _, item := range items {
			rows = append(rows, row{item.Name, item.Address, derefString(item.Description), item.ObjectType})
		}
	default:
		return fmt.Errorf("unknown item category %q", category)
	}

	cw := csv.NewWriter(w)
	header := []string{"name", "address", "description", "object_type"}
	if !withObjectType {
		header = header[:3]
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.name, r.address, r.description, r.objectType}
		if !withObjectType {
			record = record[:3]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCurtainsCSV writes curtain rows as CSV. The three group columns carry
// the addresses of the referenced lighting rows; dangling references render
// empty.
func (s *Service) WriteCurtainsCSV(ctx context.Context, w io.Writer, projectID string) error {
	curtains, err := s.curtainRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return err
	}

	groupAddress := func(id *string) string {
		if id == nil {
			return ""
		}
		item, err := s.lightingRepo.FindByID(ctx, *id)
		if err != nil || item == nil {
			return ""
		}
		return item.Address
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "address", "description", "object_type", "curtain_type", "open_group", "close_group", "stop_group"}); err != nil {
		return err
	}
	for _, curtain := range curtains {
		record := []string{
			curtain.Name,
			curtain.Address,
			derefString(curtain.Description),
			curtain.ObjectType,
			curtain.CurtainType,
			groupAddress(curtain.OpenGroupID),
			groupAddress(curtain.CloseGroupID),
			groupAddress(curtain.StopGroupID),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteScenesCSV writes every scene of a project in the flattened item
// format. Only the first row of each scene's block carries the scene name;
// blocks longer than SceneCSVItemLimit continue under "(Part N)" names.
func (s *Service) WriteScenesCSV(ctx context.Context, w io.Writer, projectID string) error {
	scenes, err := s.sceneRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return err
	}

	itemName := func(itemType string, itemID *string) string {
		if itemID == nil {
			return ""
		}
		switch itemType {
		case "lighting":
			if item, err := s.lightingRepo.FindByID(ctx, *itemID); err == nil && item != nil {
				return item.Name
			}
		case "aircon":
			if item, err := s.airconRepo.FindByID(ctx, *itemID); err == nil && item != nil {
				return item.Name
			}
		case "curtain":
			if item, err := s.curtainRepo.FindByID(ctx, *itemID); err == nil && item != nil {
				return item.Name
			}
		}
		return ""
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"SCENE NAME", "ITEM NAME", "TYPE", "ADDRESS", "VALUE"}); err != nil {
		return err
	}

	for _, scene := range scenes {
		items, err := s.sceneRepo.GetItems(ctx, scene.ID)
		if err != nil {
			return err
		}

		for i, item := range items {
			name := ""
			switch {
			case i == 0:
				name = scene.Name
			case i%SceneCSVItemLimit == 0:
				name = fmt.Sprintf("%s (Part %d)", scene.Name, i/SceneCSVItemLimit+1)
			}
			record := []string{
				name,
				itemName(item.ItemType, item.ItemID),
				item.ObjectType,
				item.ItemAddress,
				EncodeItemValue(item.ObjectType, item.ItemValue),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
