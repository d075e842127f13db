package transfer

import (
	"context"
	"log"

	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

// TransferSummary aggregates the per-category row counts of one transfer.
type TransferSummary struct {
	Curtains    int `json:"curtains"`
	Scenes      int `json:"scenes"`
	Schedules   int `json:"schedules"`
	KnxConfigs  int `json:"knxConfigs"`
	MultiScenes int `json:"multiScenes"`
	Sequences   int `json:"sequences"`
	Total       int `json:"total"`
}

// TransferAdvancedConfigurations reads all advanced configuration classes
// from one unit and reconciles them into the project database.
//
// The stage order is load-bearing: curtains run before scenes so that
// scene-item resolution finds existing curtain rows instead of auto-creating
// duplicates; scenes run before schedules and multi-scenes, which both
// consume the scene address map; multi-scenes run before sequences for the
// same reason.
//
// Per-item and per-category failures are swallowed by the readers; an error
// returned here indicates a systemic problem (context cancellation) and
// leaves the transfer partially applied, which a re-run recovers from.
func (s *Service) TransferAdvancedConfigurations(ctx context.Context, unit controller.Unit, projectID string, unitID *string) (*TransferSummary, error) {
	summary := &TransferSummary{}

	curtains, err := s.ReadCurtainConfigurations(ctx, unit, projectID, unitID)
	summary.Curtains = len(curtains)
	if err != nil {
		return summary, err
	}

	scenes, sceneMap, err := s.ReadSceneConfigurations(ctx, unit, projectID, unitID)
	summary.Scenes = len(scenes)
	if err != nil {
		return summary, err
	}

	schedules, err := s.ReadScheduleConfigurations(ctx, unit, projectID, sceneMap, unitID)
	summary.Schedules = len(schedules)
	if err != nil {
		return summary, err
	}

	knxConfigs, err := s.ReadKnxConfigurations(ctx, unit, projectID, unitID)
	summary.KnxConfigs = len(knxConfigs)
	if err != nil {
		return summary, err
	}

	multiScenes, multiSceneMap, err := s.ReadMultiSceneConfigurations(ctx, unit, projectID, sceneMap, unitID)
	summary.MultiScenes = len(multiScenes)
	if err != nil {
		return summary, err
	}

	sequences, err := s.ReadSequenceConfigurations(ctx, unit, projectID, multiSceneMap, unitID)
	summary.Sequences = len(sequences)
	if err != nil {
		return summary, err
	}

	summary.Total = summary.Curtains + summary.Scenes + summary.Schedules +
		summary.KnxConfigs + summary.MultiScenes + summary.Sequences

	log.Printf("Transfer from %s complete: %d configurations", unit.IP, summary.Total)
	return summary, nil
}
