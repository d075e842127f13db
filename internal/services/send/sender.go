// Package send implements the reverse configuration path: pushing
// database-resident configurations out to selected network units.
package send

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/database/repositories"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/transfer"
)

// ConfigType selects a configuration category for bulk sending.
type ConfigType string

// The sendable configuration categories.
const (
	ConfigScene      ConfigType = "scene"
	ConfigSchedule   ConfigType = "schedule"
	ConfigCurtain    ConfigType = "curtain"
	ConfigKnx        ConfigType = "knx"
	ConfigMultiScene ConfigType = "multi_scene"
	ConfigSequence   ConfigType = "sequence"
)

// Result records the outcome of pushing one category to one unit.
type Result struct {
	Unit       controller.Unit `json:"unit"`
	ConfigType ConfigType      `json:"configType"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Count      int             `json:"count"`
}

// ProgressFunc receives completed/total operation counts for UI consumption.
type ProgressFunc func(completed, total int)

// Service pushes project configurations to units.
type Service struct {
	client controller.Client

	lightingRepo   *repositories.LightingRepository
	curtainRepo    *repositories.CurtainRepository
	knxRepo        *repositories.KnxRepository
	sceneRepo      *repositories.SceneRepository
	scheduleRepo   *repositories.ScheduleRepository
	multiSceneRepo *repositories.MultiSceneRepository
	sequenceRepo   *repositories.SequenceRepository
}

// NewService creates a new bulk sender.
func NewService(
	client controller.Client,
	lightingRepo *repositories.LightingRepository,
	curtainRepo *repositories.CurtainRepository,
	knxRepo *repositories.KnxRepository,
	sceneRepo *repositories.SceneRepository,
	scheduleRepo *repositories.ScheduleRepository,
	multiSceneRepo *repositories.MultiSceneRepository,
	sequenceRepo *repositories.SequenceRepository,
) *Service {
	return &Service{
		client:         client,
		lightingRepo:   lightingRepo,
		curtainRepo:    curtainRepo,
		knxRepo:        knxRepo,
		sceneRepo:      sceneRepo,
		scheduleRepo:   scheduleRepo,
		multiSceneRepo: multiSceneRepo,
		sequenceRepo:   sequenceRepo,
	}
}

// SendConfigurations pushes every row of the selected categories to every
// selected unit. One result is recorded per (unit, category) pair; a failed
// pair never aborts the remaining pairs.
func (s *Service) SendConfigurations(ctx context.Context, projectID string, units []controller.Unit, types []ConfigType, progress ProgressFunc) []Result {
	results := make([]Result, 0, len(units)*len(types))
	total := len(units) * len(types)
	completed := 0

	for _, unit := range units {
		for _, configType := range types {
			count, err := s.sendCategory(ctx, projectID, unit, configType)
			result := Result{
				Unit:       unit,
				ConfigType: configType,
				Success:    err == nil,
				Count:      count,
			}
			if err != nil {
				result.Message = err.Error()
				log.Printf("Warning: send %s to %s failed: %v", configType, unit.IP, err)
			} else {
				result.Message = fmt.Sprintf("Sent %d %s configurations", count, configType)
			}
			results = append(results, result)

			completed++
			if progress != nil {
				progress(completed, total)
			}
		}
	}

	return results
}

func (s *Service) sendCategory(ctx context.Context, projectID string, unit controller.Unit, configType ConfigType) (int, error) {
	switch configType {
	case ConfigScene:
		return s.sendScenes(ctx, projectID, unit)
	case ConfigSchedule:
		return s.sendSchedules(ctx, projectID, unit)
	case ConfigCurtain:
		return s.sendCurtains(ctx, projectID, unit)
	case ConfigKnx:
		return s.sendKnxConfigs(ctx, projectID, unit)
	case ConfigMultiScene:
		return s.sendMultiScenes(ctx, projectID, unit)
	case ConfigSequence:
		return s.sendSequences(ctx, projectID, unit)
	default:
		return 0, fmt.Errorf("unknown config type %q", configType)
	}
}

// objectValueForItem reverses the object-type tagging applied on transfer.
func objectValueForItem(item models.SceneItem) (int, bool) {
	switch item.ObjectType {
	case "lighting":
		return 1, true
	case "curtain":
		return 2, true
	case "ac_power":
		return 3, true
	case "ac_mode":
		return 4, true
	case "ac_fan_speed":
		return 5, true
	case "ac_temperature":
		return 6, true
	case "spi":
		if item.Command == nil {
			return 0, false
		}
		effect, err := strconv.Atoi(*item.Command)
		if err != nil {
			return 0, false
		}
		return 25 + effect, true
	case "ac_swing":
		return 7, true
	default:
		return 0, false
	}
}

func (s *Service) sendScenes(ctx context.Context, projectID string, unit controller.Unit) (int, error) {
	scenes, err := s.sceneRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, scene := range scenes {
		address, err := strconv.Atoi(scene.Address)
		if err != nil {
			log.Printf("Warning: scene %q has non-numeric address %q, skipped", scene.Name, scene.Address)
			continue
		}

		items, err := s.sceneRepo.GetItems(ctx, scene.ID)
		if err != nil {
			return sent, err
		}

		payload := controller.ScenePayload{Address: address, Name: scene.Name}
		for _, item := range items {
			objectValue, ok := objectValueForItem(item)
			if !ok {
				continue
			}
			itemAddress, err := strconv.Atoi(item.ItemAddress)
			if err != nil {
				continue
			}
			payload.Items = append(payload.Items, controller.SceneItemPayload{
				ObjectValue: objectValue,
				ItemAddress: itemAddress,
				ItemValue:   item.ItemValue,
			})
		}

		if err := s.client.SetupScene(ctx, unit, payload); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *Service) sendSchedules(ctx context.Context, projectID string, unit controller.Unit) (int, error) {
	schedules, err := s.scheduleRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i, schedule := range schedules {
		var days []string
		if err := json.Unmarshal([]byte(schedule.Days), &days); err != nil {
			log.Printf("Warning: schedule %q has malformed days, skipped", schedule.Name)
			continue
		}

		var hour, minute int
		if _, err := fmt.Sscanf(schedule.Time, "%d:%d", &hour, &minute); err != nil {
			log.Printf("Warning: schedule %q has malformed time %q, skipped", schedule.Name, schedule.Time)
			continue
		}

		links, err := s.scheduleRepo.GetScenes(ctx, schedule.ID)
		if err != nil {
			return sent, err
		}
		var sceneAddresses []int
		for _, link := range links {
			scene, err := s.sceneRepo.FindByID(ctx, link.SceneID)
			if err != nil || scene == nil {
				continue
			}
			if address, err := strconv.Atoi(scene.Address); err == nil {
				sceneAddresses = append(sceneAddresses, address)
			}
		}

		payload := controller.SchedulePayload{
			Index:          i,
			Name:           schedule.Name,
			Enabled:        schedule.Enabled,
			Hour:           hour,
			Minute:         minute,
			WeekDays:       transfer.NamesToWeekDays(days),
			SceneAddresses: sceneAddresses,
		}
		if err := s.client.SendSchedule(ctx, unit, payload); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// lightingAddress resolves a lighting row reference to its numeric address.
// Dangling references resolve to 0 ("none").
func (s *Service) lightingAddress(ctx context.Context, id *string) int {
	if id == nil {
		return 0
	}
	item, err := s.lightingRepo.FindByID(ctx, *id)
	if err != nil || item == nil {
		return 0
	}
	address, err := strconv.Atoi(item.Address)
	if err != nil {
		return 0
	}
	return address
}

func (s *Service) sendCurtains(ctx context.Context, projectID string, unit controller.Unit) (int, error) {
	curtains, err := s.curtainRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, curtain := range curtains {
		address, err := strconv.Atoi(curtain.Address)
		if err != nil {
			continue
		}

		openGroup := s.lightingAddress(ctx, curtain.OpenGroupID)
		closeGroup := s.lightingAddress(ctx, curtain.CloseGroupID)
		if openGroup == 0 || closeGroup == 0 {
			log.Printf("Warning: curtain %q open/close group unresolved, skipped", curtain.Name)
			continue
		}

		payload := controller.CurtainPayload{
			Address:          address,
			CurtainType:      transfer.CurtainTypeValue(curtain.CurtainType),
			CurtainValue:     curtain.CurtainValue,
			OpenGroup:        openGroup,
			CloseGroup:       closeGroup,
			StopGroup:        s.lightingAddress(ctx, curtain.StopGroupID),
			PausePeriod:      curtain.PausePeriod,
			TransitionPeriod: curtain.TransitionPeriod,
		}
		if err := s.client.SetupCurtain(ctx, unit, payload); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *Service) sendKnxConfigs(ctx context.Context, projectID string, unit controller.Unit) (int, error) {
	configs, err := s.knxRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, config := range configs {
		payload := controller.KnxPayload{
			Address:         config.Address,
			Type:            config.Type,
			Factor:          config.Factor,
			Feedback:        config.Feedback,
			RcuGroup:        s.lightingAddress(ctx, config.RcuGroupID),
			KnxSwitchGroup:  config.KnxSwitchGroup,
			KnxDimmingGroup: config.KnxDimmingGroup,
			KnxValueGroup:   config.KnxValueGroup,
			KnxStatusGroup:  config.KnxStatusGroup,
		}
		if err := s.client.SetupKnx(ctx, unit, payload); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *Service) sendMultiScenes(ctx context.Context, projectID string, unit controller.Unit) (int, error) {
	multiScenes, err := s.multiSceneRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, multiScene := range multiScenes {
		address, err := strconv.Atoi(multiScene.Address)
		if err != nil {
			continue
		}

		links, err := s.multiSceneRepo.GetScenes(ctx, multiScene.ID)
		if err != nil {
			return sent, err
		}
		var sceneAddresses []int
		for _, link := range links {
			scene, err := s.sceneRepo.FindByID(ctx, link.SceneID)
			if err != nil || scene == nil {
				continue
			}
			if sceneAddress, err := strconv.Atoi(scene.Address); err == nil {
				sceneAddresses = append(sceneAddresses, sceneAddress)
			}
		}

		payload := controller.MultiScenePayload{
			Address:        address,
			Name:           multiScene.Name,
			Type:           multiScene.Type,
			SceneAddresses: sceneAddresses,
		}
		if err := s.client.SetupMultiScene(ctx, unit, payload); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *Service) sendSequences(ctx context.Context, projectID string, unit controller.Unit) (int, error) {
	sequences, err := s.sequenceRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, sequence := range sequences {
		address, err := strconv.Atoi(sequence.Address)
		if err != nil {
			continue
		}

		links, err := s.sequenceRepo.GetMultiScenes(ctx, sequence.ID)
		if err != nil {
			return sent, err
		}
		var multiSceneAddresses []int
		for _, link := range links {
			multiScene, err := s.multiSceneRepo.FindByID(ctx, link.MultiSceneID)
			if err != nil || multiScene == nil {
				continue
			}
			if multiSceneAddress, err := strconv.Atoi(multiScene.Address); err == nil {
				multiSceneAddresses = append(multiSceneAddresses, multiSceneAddress)
			}
		}

		payload := controller.SequencePayload{
			Address:             address,
			Name:                sequence.Name,
			MultiSceneAddresses: multiSceneAddresses,
		}
		if err := s.client.SetupSequence(ctx, unit, payload); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// GenerateScenesFromLighting creates one single-item scene per lighting
// item in the project. Each create is independent, so the calls are
// dispatched concurrently and their outcomes tallied individually.
func (s *Service) GenerateScenesFromLighting(ctx context.Context, projectID string) (created, failed int, err error) {
	items, err := s.lightingRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return 0, 0, err
	}

	var wg sync.WaitGroup
	outcomes := make(chan error, len(items))

	for _, item := range items {
		wg.Add(1)
		go func(item models.Lighting) {
			defer wg.Done()
			scene := &models.Scene{
				ProjectID: projectID,
				Name:      "Scene " + item.Name,
				Address:   item.Address,
			}
			sceneItem := models.SceneItem{
				ItemType:    "lighting",
				ItemID:      &item.ID,
				ItemAddress: item.Address,
				ItemValue:   255,
				ObjectType:  "lighting",
			}
			outcomes <- s.sceneRepo.CreateWithItems(ctx, scene, []models.SceneItem{sceneItem})
		}(item)
	}

	wg.Wait()
	close(outcomes)

	for outcome := range outcomes {
		if outcome != nil {
			failed++
		} else {
			created++
		}
	}
	return created, failed, nil
}
