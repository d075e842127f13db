package transfer

import (
	"context"
	"log"
	"strconv"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

// ReadSequenceConfigurations pulls every sequence from a unit and persists
// it with its ordered multi-scene links. Requires the multi-scene reader's
// address map; unresolved multi-scene addresses are logged and skipped.
func (s *Service) ReadSequenceConfigurations(ctx context.Context, unit controller.Unit, projectID string, multiSceneMap MultiSceneAddressMap, unitID *string) ([]models.Sequence, error) {
	var created []models.Sequence

	sequences, err := s.client.GetAllSequencesInformation(ctx, unit)
	if err != nil {
		log.Printf("Warning: failed to read sequences from %s: %v", unit.IP, err)
		return created, nil
	}

	for _, info := range sequences {
		if len(info.MultiSceneAddresses) == 0 {
			continue
		}

		var multiSceneIDs []string
		for _, multiSceneAddress := range info.MultiSceneAddresses {
			multiSceneID, ok := multiSceneMap[strconv.Itoa(multiSceneAddress)]
			if !ok {
				log.Printf("Warning: sequence %q references unknown multi-scene address %d", info.Name, multiSceneAddress)
				continue
			}
			multiSceneIDs = append(multiSceneIDs, multiSceneID)
		}

		sequence := models.Sequence{
			ProjectID:  projectID,
			Name:       info.Name,
			Address:    strconv.Itoa(info.Address),
			SourceUnit: unitID,
		}
		if err := s.sequenceRepo.CreateWithMultiScenes(ctx, &sequence, multiSceneIDs); err != nil {
			log.Printf("Warning: failed to persist sequence %q: %v", info.Name, err)
			continue
		}
		created = append(created, sequence)

		if err := s.pace(ctx); err != nil {
			return created, err
		}
	}

	return created, nil
}
