package transfer

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

// curtainTypeNames maps the unit's numeric curtain type to its symbolic
// name. Type 0 marks an unconfigured slot and is filtered out upstream.
var curtainTypeNames = map[int]string{
	1: "PULSE_1G_2P",
	2: "PULSE_2G_2P",
	3: "PULSE_1G_3P",
	4: "PULSE_2G_3P",
	5: "HOLD_1G",
	6: "HOLD",
}

// CurtainTypeName returns the symbolic name for a numeric curtain type, or
// the empty string for unknown values.
func CurtainTypeName(curtainType int) string {
	return curtainTypeNames[curtainType]
}

// CurtainTypeValue is the reverse of CurtainTypeName; unknown names map to 0.
func CurtainTypeValue(name string) int {
	for value, n := range curtainTypeNames {
		if n == name {
			return value
		}
	}
	return 0
}

// ReadCurtainConfigurations pulls every configured curtain slot from a unit
// and persists it. Slots with curtainType 0 are unconfigured and skipped.
// Per-item failures are logged and skipped; a failure of the bulk fetch
// itself returns the (empty) accumulated result so the orchestrator can
// continue with the remaining categories.
func (s *Service) ReadCurtainConfigurations(ctx context.Context, unit controller.Unit, projectID string, unitID *string) ([]models.Curtain, error) {
	var created []models.Curtain

	curtains, err := s.client.GetCurtainConfig(ctx, unit, nil)
	if err != nil {
		log.Printf("Warning: failed to read curtain config from %s: %v", unit.IP, err)
		return created, nil
	}

	for _, info := range curtains {
		if info.CurtainType == 0 {
			continue
		}

		openGroup := s.FindOrCreateLightingByAddress(ctx, info.OpenGroup, projectID)
		closeGroup := s.FindOrCreateLightingByAddress(ctx, info.CloseGroup, projectID)
		if openGroup == nil || closeGroup == nil {
			log.Printf("Warning: skipping curtain %d: open/close group unresolved", info.Address)
			continue
		}
		var stopGroup *string
		if info.StopGroup > 0 {
			stopGroup = s.FindOrCreateLightingByAddress(ctx, info.StopGroup, projectID)
		}

		curtain := models.Curtain{
			ProjectID:        projectID,
			Name:             fmt.Sprintf("Curtain %d", info.Address),
			Address:          strconv.Itoa(info.Address),
			ObjectType:       "curtain",
			CurtainType:      CurtainTypeName(info.CurtainType),
			CurtainValue:     info.CurtainValue,
			OpenGroupID:      openGroup,
			CloseGroupID:     closeGroup,
			StopGroupID:      stopGroup,
			PausePeriod:      info.PausePeriod,
			TransitionPeriod: info.TransitionPeriod,
			SourceUnit:       unitID,
		}
		if err := s.curtainRepo.Create(ctx, &curtain); err != nil {
			log.Printf("Warning: failed to persist curtain %d: %v", info.Address, err)
			continue
		}
		created = append(created, curtain)

		if err := s.pace(ctx); err != nil {
			return created, err
		}
	}

	return created, nil
}
