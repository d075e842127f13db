// Package transfer implements the network-to-database configuration
// transfer path: per-entity readers that pull configuration from a live
// unit and persist it, and the orchestrator that sequences them.
package transfer

import (
	"context"
	"time"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/repositories"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

// SceneAddressMap maps a network scene address to the database scene row it
// was persisted as. Produced by the scene reader, consumed by the schedule
// and multi-scene readers.
type SceneAddressMap map[string]string

// MultiSceneAddressMap maps a network multi-scene address to its database
// row. Produced by the multi-scene reader, consumed by the sequence reader.
type MultiSceneAddressMap map[string]string

// Service runs configuration transfers from network units into the project
// database.
type Service struct {
	client controller.Client

	lightingRepo   *repositories.LightingRepository
	airconRepo     *repositories.AirconRepository
	curtainRepo    *repositories.CurtainRepository
	knxRepo        *repositories.KnxRepository
	sceneRepo      *repositories.SceneRepository
	scheduleRepo   *repositories.ScheduleRepository
	multiSceneRepo *repositories.MultiSceneRepository
	sequenceRepo   *repositories.SequenceRepository

	// pacing is the minimum spacing between successive per-item controller
	// calls. Flow control for the unit's protocol stack.
	pacing time.Duration
}

// NewService creates a new transfer service.
func NewService(
	client controller.Client,
	lightingRepo *repositories.LightingRepository,
	airconRepo *repositories.AirconRepository,
	curtainRepo *repositories.CurtainRepository,
	knxRepo *repositories.KnxRepository,
	sceneRepo *repositories.SceneRepository,
	scheduleRepo *repositories.ScheduleRepository,
	multiSceneRepo *repositories.MultiSceneRepository,
	sequenceRepo *repositories.SequenceRepository,
	pacing time.Duration,
) *Service {
	return &Service{
		client:         client,
		lightingRepo:   lightingRepo,
		airconRepo:     airconRepo,
		curtainRepo:    curtainRepo,
		knxRepo:        knxRepo,
		sceneRepo:      sceneRepo,
		scheduleRepo:   scheduleRepo,
		multiSceneRepo: multiSceneRepo,
		sequenceRepo:   sequenceRepo,
		pacing:         pacing,
	}
}

// pace waits the configured inter-call spacing, or returns early when the
// context is canceled.
func (s *Service) pace(ctx context.Context) error {
	if s.pacing <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.pacing):
		return nil
	}
}
