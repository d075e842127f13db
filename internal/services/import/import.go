// Package importservice provides project import functionality.
package importservice

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/database/repositories"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/export"
)

// ImportStats contains statistics about an import.
type ImportStats struct {
	UnitsCreated       int
	LightingCreated    int
	AirconCreated      int
	DmxCreated         int
	CurtainsCreated    int
	KnxConfigsCreated  int
	ScenesCreated      int
	SceneItemsCreated  int
	SchedulesCreated   int
	MultiScenesCreated int
	SequencesCreated   int
	Warnings           []string
}

// Service handles project import operations.
type Service struct {
	db *gorm.DB
}

// NewService creates a new import service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ImportProject creates a new project from an export inside one transaction:
// a failed category rolls back everything. Every entity gets a fresh ID;
// foreign keys are rewritten through ref-ID maps built as each category is
// created, so categories import in dependency order.
func (s *Service) ImportProject(ctx context.Context, exported *export.ExportedProject) (string, *ImportStats, error) {
	if exported.Project == nil || exported.Project.Name == "" {
		return "", nil, fmt.Errorf("import is missing project.name")
	}

	stats := &ImportStats{}
	var projectID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := importProject(ctx, tx, exported, stats)
		projectID = id
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return projectID, stats, nil
}

func importProject(ctx context.Context, tx *gorm.DB, exported *export.ExportedProject, stats *ImportStats) (string, error) {
	projectRepo := repositories.NewProjectRepository(tx)
	unitRepo := repositories.NewUnitRepository(tx)
	lightingRepo := repositories.NewLightingRepository(tx)
	airconRepo := repositories.NewAirconRepository(tx)
	dmxRepo := repositories.NewDmxRepository(tx)
	curtainRepo := repositories.NewCurtainRepository(tx)
	knxRepo := repositories.NewKnxRepository(tx)
	sceneRepo := repositories.NewSceneRepository(tx)
	scheduleRepo := repositories.NewScheduleRepository(tx)
	multiSceneRepo := repositories.NewMultiSceneRepository(tx)
	sequenceRepo := repositories.NewSequenceRepository(tx)

	project := &models.Project{
		Name:        exported.Project.Name,
		Description: exported.Project.Description,
	}
	if err := projectRepo.Create(ctx, project); err != nil {
		return "", fmt.Errorf("failed to create project: %w", err)
	}

	for _, unit := range exported.Items.Units {
		row := &models.Unit{
			ProjectID:       project.ID,
			Type:            unit.Type,
			SerialNo:        unit.SerialNo,
			IPAddress:       unit.IPAddress,
			IDCan:           unit.IDCan,
			Mode:            unit.Mode,
			FirmwareVersion: unit.FirmwareVersion,
			Description:     unit.Description,
		}
		if err := unitRepo.Create(ctx, row); err != nil {
			return "", fmt.Errorf("failed to create unit: %w", err)
		}
		stats.UnitsCreated++
	}

	lightingIDs := make(map[string]string)
	for _, item := range exported.Items.Lighting {
		row := &models.Lighting{
			ProjectID:   project.ID,
			Name:        item.Name,
			Address:     item.Address,
			Description: item.Description,
			ObjectType:  item.ObjectType,
		}
		if err := lightingRepo.Create(ctx, row); err != nil {
			return "", fmt.Errorf("failed to create lighting item: %w", err)
		}
		lightingIDs[item.RefID] = row.ID
		stats.LightingCreated++
	}

	airconIDs := make(map[string]string)
	for _, item := range exported.Items.Aircon {
		row := &models.Aircon{
			ProjectID:   project.ID,
			Name:        item.Name,
			Address:     item.Address,
			Description: item.Description,
			ObjectType:  item.ObjectType,
		}
		if err := airconRepo.Create(ctx, row); err != nil {
			return "", fmt.Errorf("failed to create aircon item: %w", err)
		}
		airconIDs[item.RefID] = row.ID
		stats.AirconCreated++
	}

	for _, item := range exported.Items.Dmx {
		row := &models.Dmx{
			ProjectID:   project.ID,
			Name:        item.Name,
			Address:     item.Address,
			Description: item.Description,
			ObjectType:  item.ObjectType,
		}
		if err := dmxRepo.Create(ctx, row); err != nil {
			return "", fmt.Errorf("failed to create dmx item: %w", err)
		}
		stats.DmxCreated++
	}

	// remapLighting resolves a lighting ref from the export; a dangling ref
	// degrades to null with a warning, never an error.
	remapLighting := func(refID *string, owner string) *string {
		if refID == nil {
			return nil
		}
		if newID, ok := lightingIDs[*refID]; ok {
			return &newID
		}
		stats.Warnings = append(stats.Warnings, fmt.Sprintf("%s references unknown lighting item %q", owner, *refID))
		return nil
	}

	curtainIDs := make(map[string]string)
	for _, curtain := range exported.Items.Curtains {
		row := &models.Curtain{
			ProjectID:        project.ID,
			Name:             curtain.Name,
			Address:          curtain.Address,
			Description:      curtain.Description,
			ObjectType:       curtain.ObjectType,
			CurtainType:      curtain.CurtainType,
			CurtainValue:     curtain.CurtainValue,
			OpenGroupID:      remapLighting(curtain.OpenGroupRefID, "curtain "+curtain.Name),
			CloseGroupID:     remapLighting(curtain.CloseGroupRefID, "curtain "+curtain.Name),
			StopGroupID:      remapLighting(curtain.StopGroupRefID, "curtain "+curtain.Name),
			PausePeriod:      curtain.PausePeriod,
			TransitionPeriod: curtain.TransitionPeriod,
		}
		if err := curtainRepo.Create(ctx, row); err != nil {
			return "", fmt.Errorf("failed to create curtain: %w", err)
		}
		curtainIDs[curtain.RefID] = row.ID
		stats.CurtainsCreated++
	}

	for _, config := range exported.Items.KnxConfigs {
		row := &models.KnxConfig{
			ProjectID:       project.ID,
			Name:            config.Name,
			Address:         config.Address,
			Type:            config.Type,
			Factor:          config.Factor,
			Feedback:        config.Feedback,
			RcuGroupID:      remapLighting(config.RcuGroupRefID, "knx "+config.Name),
			KnxSwitchGroup:  config.KnxSwitchGroup,
			KnxDimmingGroup: config.KnxDimmingGroup,
			KnxValueGroup:   config.KnxValueGroup,
			KnxStatusGroup:  config.KnxStatusGroup,
		}
		if err := knxRepo.Create(ctx, row); err != nil {
			return "", fmt.Errorf("failed to create knx config: %w", err)
		}
		stats.KnxConfigsCreated++
	}

	sceneIDs := make(map[string]string)
	for _, scene := range exported.Items.Scenes {
		items := make([]models.SceneItem, 0, len(scene.Items))
		for _, item := range scene.Items {
			var itemID *string
			if item.ItemRefID != nil {
				var newID string
				var ok bool
				switch item.ItemType {
				case "lighting":
					newID, ok = lightingIDs[*item.ItemRefID]
				case "aircon":
					newID, ok = airconIDs[*item.ItemRefID]
				case "curtain":
					newID, ok = curtainIDs[*item.ItemRefID]
				}
				if ok {
					itemID = &newID
				} else {
					stats.Warnings = append(stats.Warnings, fmt.Sprintf("scene %q item references unknown %s item %q", scene.Name, item.ItemType, *item.ItemRefID))
				}
			}
			items = append(items, models.SceneItem{
				ItemType:    item.ItemType,
				ItemID:      itemID,
				ItemAddress: item.ItemAddress,
				ItemValue:   item.ItemValue,
				Command:     item.Command,
				ObjectType:  item.ObjectType,
			})
			stats.SceneItemsCreated++
		}

		row := &models.Scene{
			ProjectID:   project.ID,
			Name:        scene.Name,
			Address:     scene.Address,
			Description: scene.Description,
		}
		if err := sceneRepo.CreateWithItems(ctx, row, items); err != nil {
			return "", fmt.Errorf("failed to create scene: %w", err)
		}
		sceneIDs[scene.RefID] = row.ID
		stats.ScenesCreated++
	}

	for _, schedule := range exported.Items.Schedules {
		days, err := json.Marshal(schedule.Days)
		if err != nil {
			return "", fmt.Errorf("failed to encode schedule days: %w", err)
		}

		var linkedScenes []string
		for _, refID := range schedule.SceneRefIDs {
			if newID, ok := sceneIDs[refID]; ok {
				linkedScenes = append(linkedScenes, newID)
			} else {
				stats.Warnings = append(stats.Warnings, fmt.Sprintf("schedule %q references unknown scene %q", schedule.Name, refID))
			}
		}

		row := &models.Schedule{
			ProjectID:   project.ID,
			Name:        schedule.Name,
			Description: schedule.Description,
			Time:        schedule.Time,
			Days:        string(days),
			Enabled:     schedule.Enabled,
		}
		if err := scheduleRepo.CreateWithScenes(ctx, row, linkedScenes); err != nil {
			return "", fmt.Errorf("failed to create schedule: %w", err)
		}
		stats.SchedulesCreated++
	}

	multiSceneIDs := make(map[string]string)
	for _, multiScene := range exported.Items.MultiScenes {
		var linkedScenes []string
		for _, refID := range multiScene.SceneRefIDs {
			if newID, ok := sceneIDs[refID]; ok {
				linkedScenes = append(linkedScenes, newID)
			} else {
				stats.Warnings = append(stats.Warnings, fmt.Sprintf("multi-scene %q references unknown scene %q", multiScene.Name, refID))
			}
		}

		row := &models.MultiScene{
			ProjectID: project.ID,
			Name:      multiScene.Name,
			Address:   multiScene.Address,
			Type:      multiScene.Type,
		}
		if err := multiSceneRepo.CreateWithScenes(ctx, row, linkedScenes); err != nil {
			return "", fmt.Errorf("failed to create multi-scene: %w", err)
		}
		multiSceneIDs[multiScene.RefID] = row.ID
		stats.MultiScenesCreated++
	}

	for _, sequence := range exported.Items.Sequences {
		var linkedMultiScenes []string
		for _, refID := range sequence.MultiSceneRefIDs {
			if newID, ok := multiSceneIDs[refID]; ok {
				linkedMultiScenes = append(linkedMultiScenes, newID)
			} else {
				stats.Warnings = append(stats.Warnings, fmt.Sprintf("sequence %q references unknown multi-scene %q", sequence.Name, refID))
			}
		}

		row := &models.Sequence{
			ProjectID: project.ID,
			Name:      sequence.Name,
			Address:   sequence.Address,
		}
		if err := sequenceRepo.CreateWithMultiScenes(ctx, row, linkedMultiScenes); err != nil {
			return "", fmt.Errorf("failed to create sequence: %w", err)
		}
		stats.SequencesCreated++
	}

	return project.ID, nil
}
