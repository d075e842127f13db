package transfer

import (
	"context"
	"fmt"
	"log"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

// KnxAddressCount is the size of the KNX bridge address space.
const KnxAddressCount = 512

// ValidateKnxAddress rejects out-of-range KNX addresses before any
// controller call is made with them.
func ValidateKnxAddress(address int) error {
	if address < 0 || address >= KnxAddressCount {
		return fmt.Errorf("knx address %d out of range 0-%d", address, KnxAddressCount-1)
	}
	return nil
}

// ReadKnxConfigurations pulls all 512 KNX slots from a unit and persists
// the configured ones (type 0 means disabled). The RCU group reference
// resolves through the lighting find-or-create path and may end up null.
func (s *Service) ReadKnxConfigurations(ctx context.Context, unit controller.Unit, projectID string, unitID *string) ([]models.KnxConfig, error) {
	var created []models.KnxConfig

	configs, err := s.client.GetKnxConfig(ctx, unit, nil)
	if err != nil {
		log.Printf("Warning: failed to read KNX config from %s: %v", unit.IP, err)
		return created, nil
	}

	for _, info := range configs {
		if info.Type == 0 {
			continue
		}

		factor := info.Factor
		if factor < 1 {
			factor = 1
		}

		config := models.KnxConfig{
			ProjectID:       projectID,
			Name:            fmt.Sprintf("KNX %d", info.Address),
			Address:         info.Address,
			Type:            info.Type,
			Factor:          factor,
			Feedback:        info.Feedback,
			RcuGroupID:      s.FindOrCreateLightingByAddress(ctx, info.RcuGroup, projectID),
			KnxSwitchGroup:  info.KnxSwitchGroup,
			KnxDimmingGroup: info.KnxDimmingGroup,
			KnxValueGroup:   info.KnxValueGroup,
			KnxStatusGroup:  info.KnxStatusGroup,
			SourceUnit:      unitID,
		}
		if err := s.knxRepo.Create(ctx, &config); err != nil {
			log.Printf("Warning: failed to persist KNX slot %d: %v", info.Address, err)
			continue
		}
		created = append(created, config)

		if err := s.pace(ctx); err != nil {
			return created, err
		}
	}

	return created, nil
}
