// Package export provides project export functionality.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/repositories"
)

// ExportedProject represents a full project export.
type ExportedProject struct {
	Version    string             `json:"version"`
	ExportedAt string             `json:"exportedAt"`
	Project    *ExportProjectInfo `json:"project,omitempty"`
	Items      ExportedItems      `json:"items"`
}

// ExportProjectInfo contains project information.
type ExportProjectInfo struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ExportedItems groups the exported rows by category. Category keys match
// the import side; missing categories import as empty.
type ExportedItems struct {
	Units       []ExportedUnit       `json:"unit,omitempty"`
	Lighting    []ExportedItem       `json:"lighting,omitempty"`
	Aircon      []ExportedItem       `json:"aircon,omitempty"`
	Dmx         []ExportedItem       `json:"dmx,omitempty"`
	Curtains    []ExportedCurtain    `json:"curtain,omitempty"`
	KnxConfigs  []ExportedKnx        `json:"knx,omitempty"`
	Scenes      []ExportedScene      `json:"scene,omitempty"`
	Schedules   []ExportedSchedule   `json:"schedule,omitempty"`
	MultiScenes []ExportedMultiScene `json:"multi_scenes,omitempty"`
	Sequences   []ExportedSequence   `json:"sequences,omitempty"`
}

// ExportedUnit represents an exported network unit.
type ExportedUnit struct {
	Type            string  `json:"type"`
	SerialNo        string  `json:"serialNo"`
	IPAddress       string  `json:"ipAddress"`
	IDCan           int     `json:"idCan"`
	Mode            string  `json:"mode"`
	FirmwareVersion string  `json:"firmwareVersion"`
	Description     *string `json:"description,omitempty"`
}

// ExportedItem represents an exported lighting/aircon/dmx item. RefID is the
// source row's ID; the importer maps it to a fresh ID and rewrites references.
type ExportedItem struct {
	RefID       string  `json:"refId"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Description *string `json:"description,omitempty"`
	ObjectType  string  `json:"objectType"`
}

// ExportedCurtain represents an exported curtain configuration.
type ExportedCurtain struct {
	RefID            string  `json:"refId"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Description      *string `json:"description,omitempty"`
	ObjectType       string  `json:"objectType"`
	CurtainType      string  `json:"curtainType"`
	CurtainValue     int     `json:"curtainValue"`
	OpenGroupRefID   *string `json:"openGroupRefId,omitempty"`
	CloseGroupRefID  *string `json:"closeGroupRefId,omitempty"`
	StopGroupRefID   *string `json:"stopGroupRefId,omitempty"`
	PausePeriod      int     `json:"pausePeriod"`
	TransitionPeriod int     `json:"transitionPeriod"`
}

// ExportedKnx represents an exported KNX bridge slot.
type ExportedKnx struct {
	Name            string  `json:"name"`
	Address         int     `json:"address"`
	Type            int     `json:"type"`
	Factor          int     `json:"factor"`
	Feedback        int     `json:"feedback"`
	RcuGroupRefID   *string `json:"rcuGroupRefId,omitempty"`
	KnxSwitchGroup  string  `json:"knxSwitchGroup,omitempty"`
	KnxDimmingGroup string  `json:"knxDimmingGroup,omitempty"`
	KnxValueGroup   string  `json:"knxValueGroup,omitempty"`
	KnxStatusGroup  string  `json:"knxStatusGroup,omitempty"`
}

// ExportedScene represents an exported scene with its ordered items.
type ExportedScene struct {
	RefID       string              `json:"refId"`
	Name        string              `json:"name"`
	Address     string              `json:"address"`
	Description *string             `json:"description,omitempty"`
	Items       []ExportedSceneItem `json:"items"`
}

// ExportedSceneItem represents one scene member. ItemRefID is null for
// address-only item types.
type ExportedSceneItem struct {
	ItemType    string  `json:"itemType"`
	ItemRefID   *string `json:"itemRefId,omitempty"`
	ItemAddress string  `json:"itemAddress"`
	ItemValue   int     `json:"itemValue"`
	Command     *string `json:"command,omitempty"`
	ObjectType  string  `json:"objectType"`
}

// ExportedSchedule represents an exported schedule.
type ExportedSchedule struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Time        string   `json:"time"`
	Days        []string `json:"days"`
	Enabled     bool     `json:"enabled"`
	SceneRefIDs []string `json:"sceneRefIds"`
}

// ExportedMultiScene represents an exported multi-scene.
type ExportedMultiScene struct {
	RefID       string   `json:"refId"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Type        int      `json:"type"`
	SceneRefIDs []string `json:"sceneRefIds"`
}

// ExportedSequence represents an exported sequence.
type ExportedSequence struct {
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	MultiSceneRefIDs []string `json:"multiSceneRefIds"`
}

// ExportStats contains statistics about an export.
type ExportStats struct {
	Units       int
	Lighting    int
	Aircon      int
	Dmx         int
	Curtains    int
	KnxConfigs  int
	Scenes      int
	SceneItems  int
	Schedules   int
	MultiScenes int
	Sequences   int
}

// Service handles project export operations.
type Service struct {
	projectRepo    *repositories.ProjectRepository
	unitRepo       *repositories.UnitRepository
	lightingRepo   *repositories.LightingRepository
	airconRepo     *repositories.AirconRepository
	dmxRepo        *repositories.DmxRepository
	curtainRepo    *repositories.CurtainRepository
	knxRepo        *repositories.KnxRepository
	sceneRepo      *repositories.SceneRepository
	scheduleRepo   *repositories.ScheduleRepository
	multiSceneRepo *repositories.MultiSceneRepository
	sequenceRepo   *repositories.SequenceRepository
}

// NewService creates a new export service.
func NewService(
	projectRepo *repositories.ProjectRepository,
	unitRepo *repositories.UnitRepository,
	lightingRepo *repositories.LightingRepository,
	airconRepo *repositories.AirconRepository,
	dmxRepo *repositories.DmxRepository,
	curtainRepo *repositories.CurtainRepository,
	knxRepo *repositories.KnxRepository,
	sceneRepo *repositories.SceneRepository,
	scheduleRepo *repositories.ScheduleRepository,
	multiSceneRepo *repositories.MultiSceneRepository,
	sequenceRepo *repositories.SequenceRepository,
) *Service {
	return &Service{
		projectRepo:    projectRepo,
		unitRepo:       unitRepo,
		lightingRepo:   lightingRepo,
		airconRepo:     airconRepo,
		dmxRepo:        dmxRepo,
		curtainRepo:    curtainRepo,
		knxRepo:        knxRepo,
		sceneRepo:      sceneRepo,
		scheduleRepo:   scheduleRepo,
		multiSceneRepo: multiSceneRepo,
		sequenceRepo:   sequenceRepo,
	}
}

// ExportProject exports a full project to the JSON exchange structure.
// Returns (nil, nil, nil) when the project does not exist.
func (s *Service) ExportProject(ctx context.Context, projectID string) (*ExportedProject, *ExportStats, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, nil
	}

	exported := &ExportedProject{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Project: &ExportProjectInfo{
			Name:        project.Name,
			Description: project.Description,
		},
	}
	stats := &ExportStats{}

	units, err := s.unitRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, unit := range units {
		exported.Items.Units = append(exported.Items.Units, ExportedUnit{
			Type:            unit.Type,
			SerialNo:        unit.SerialNo,
			IPAddress:       unit.IPAddress,
			IDCan:           unit.IDCan,
			Mode:            unit.Mode,
			FirmwareVersion: unit.FirmwareVersion,
			Description:     unit.Description,
		})
		stats.Units++
	}

	lighting, err := s.lightingRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, item := range lighting {
		exported.Items.Lighting = append(exported.Items.Lighting, ExportedItem{
			RefID:       item.ID,
			Name:        item.Name,
			Address:     item.Address,
			Description: item.Description,
			ObjectType:  item.ObjectType,
		})
		stats.Lighting++
	}

	aircon, err := s.airconRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, item := range aircon {
		exported.Items.Aircon = append(exported.Items.Aircon, ExportedItem{
			RefID:       item.ID,
			Name:        item.Name,
			Address:     item.Address,
			Description: item.Description,
			ObjectType:  item.ObjectType,
		})
		stats.Aircon++
	}

	dmx, err := s.dmxRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, item := range dmx {
		exported.Items.Dmx = append(exported.Items.Dmx, ExportedItem{
			RefID:       item.ID,
			Name:        item.Name,
			Address:     item.Address,
			Description: item.Description,
			ObjectType:  item.ObjectType,
		})
		stats.Dmx++
	}

	curtains, err := s.curtainRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, curtain := range curtains {
		exported.Items.Curtains = append(exported.Items.Curtains, ExportedCurtain{
			RefID:            curtain.ID,
			Name:             curtain.Name,
			Address:          curtain.Address,
			Description:      curtain.Description,
			ObjectType:       curtain.ObjectType,
			CurtainType:      curtain.CurtainType,
			CurtainValue:     curtain.CurtainValue,
			OpenGroupRefID:   curtain.OpenGroupID,
			CloseGroupRefID:  curtain.CloseGroupID,
			StopGroupRefID:   curtain.StopGroupID,
			PausePeriod:      curtain.PausePeriod,
			TransitionPeriod: curtain.TransitionPeriod,
		})
		stats.Curtains++
	}

	knxConfigs, err := s.knxRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, config := range knxConfigs {
		exported.Items.KnxConfigs = append(exported.Items.KnxConfigs, ExportedKnx{
			Name:            config.Name,
			Address:         config.Address,
			Type:            config.Type,
			Factor:          config.Factor,
			Feedback:        config.Feedback,
			RcuGroupRefID:   config.RcuGroupID,
			KnxSwitchGroup:  config.KnxSwitchGroup,
			KnxDimmingGroup: config.KnxDimmingGroup,
			KnxValueGroup:   config.KnxValueGroup,
			KnxStatusGroup:  config.KnxStatusGroup,
		})
		stats.KnxConfigs++
	}

	scenes, err := s.sceneRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, scene := range scenes {
		items, err := s.sceneRepo.GetItems(ctx, scene.ID)
		if err != nil {
			return nil, nil, err
		}

		exportedScene := ExportedScene{
			RefID:       scene.ID,
			Name:        scene.Name,
			Address:     scene.Address,
			Description: scene.Description,
		}
		for _, item := range items {
			exportedScene.Items = append(exportedScene.Items, ExportedSceneItem{
				ItemType:    item.ItemType,
				ItemRefID:   item.ItemID,
				ItemAddress: item.ItemAddress,
				ItemValue:   item.ItemValue,
				Command:     item.Command,
				ObjectType:  item.ObjectType,
			})
			stats.SceneItems++
		}
		exported.Items.Scenes = append(exported.Items.Scenes, exportedScene)
		stats.Scenes++
	}

	schedules, err := s.scheduleRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, schedule := range schedules {
		var days []string
		if err := json.Unmarshal([]byte(schedule.Days), &days); err != nil {
			log.Printf("Warning: failed to unmarshal days for schedule %s: %v", schedule.ID, err)
			days = []string{}
		}

		links, err := s.scheduleRepo.GetScenes(ctx, schedule.ID)
		if err != nil {
			return nil, nil, err
		}
		sceneRefIDs := make([]string, 0, len(links))
		for _, link := range links {
			sceneRefIDs = append(sceneRefIDs, link.SceneID)
		}

		exported.Items.Schedules = append(exported.Items.Schedules, ExportedSchedule{
			Name:        schedule.Name,
			Description: schedule.Description,
			Time:        schedule.Time,
			Days:        days,
			Enabled:     schedule.Enabled,
			SceneRefIDs: sceneRefIDs,
		})
		stats.Schedules++
	}

	multiScenes, err := s.multiSceneRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, multiScene := range multiScenes {
		links, err := s.multiSceneRepo.GetScenes(ctx, multiScene.ID)
		if err != nil {
			return nil, nil, err
		}
		sceneRefIDs := make([]string, 0, len(links))
		for _, link := range links {
			sceneRefIDs = append(sceneRefIDs, link.SceneID)
		}

		exported.Items.MultiScenes = append(exported.Items.MultiScenes, ExportedMultiScene{
			RefID:       multiScene.ID,
			Name:        multiScene.Name,
			Address:     multiScene.Address,
			Type:        multiScene.Type,
			SceneRefIDs: sceneRefIDs,
		})
		stats.MultiScenes++
	}

	sequences, err := s.sequenceRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, sequence := range sequences {
		links, err := s.sequenceRepo.GetMultiScenes(ctx, sequence.ID)
		if err != nil {
			return nil, nil, err
		}
		multiSceneRefIDs := make([]string, 0, len(links))
		for _, link := range links {
			multiSceneRefIDs = append(multiSceneRefIDs, link.MultiSceneID)
		}

		exported.Items.Sequences = append(exported.Items.Sequences, ExportedSequence{
			Name:             sequence.Name,
			Address:          sequence.Address,
			MultiSceneRefIDs: multiSceneRefIDs,
		})
		stats.Sequences++
	}

	return exported, stats, nil
}

// ToJSON converts an exported project to a JSON string.
func (e *ExportedProject) ToJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseExportedProject parses JSON into an ExportedProject. The project name
// is required; categories are optional and default to empty.
func ParseExportedProject(jsonContent string) (*ExportedProject, error) {
	var exported ExportedProject
	if err := json.Unmarshal([]byte(jsonContent), &exported); err != nil {
		return nil, err
	}
	if exported.Project == nil || exported.Project.Name == "" {
		return nil, fmt.Errorf("export is missing project.name")
	}
	return &exported, nil
}
