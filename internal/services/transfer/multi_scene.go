package transfer

import (
	"context"
	"log"
	"strconv"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
)

// ReadMultiSceneConfigurations pulls every multi-scene from a unit and
// persists it with its ordered scene links, returning the address map the
// sequence reader depends on. Entries without scene references are skipped;
// scene addresses missing from the scene reader's map are logged and
// skipped without failing the multi-scene.
func (s *Service) ReadMultiSceneConfigurations(ctx context.Context, unit controller.Unit, projectID string, sceneMap SceneAddressMap, unitID *string) ([]models.MultiScene, MultiSceneAddressMap, error) {
	created := []models.MultiScene{}
	addressMap := MultiSceneAddressMap{}

	multiScenes, err := s.client.GetAllMultiScenesInformation(ctx, unit)
	if err != nil {
		log.Printf("Warning: failed to read multi-scenes from %s: %v", unit.IP, err)
		return created, addressMap, nil
	}

	for _, info := range multiScenes {
		if len(info.SceneAddresses) == 0 {
			continue
		}

		var sceneIDs []string
		for _, sceneAddress := range info.SceneAddresses {
			sceneID, ok := sceneMap[strconv.Itoa(sceneAddress)]
			if !ok {
				log.Printf("Warning: multi-scene %q references unknown scene address %d", info.Name, sceneAddress)
				continue
			}
			sceneIDs = append(sceneIDs, sceneID)
		}

		multiScene := models.MultiScene{
			ProjectID:  projectID,
			Name:       info.Name,
			Address:    strconv.Itoa(info.Address),
			Type:       info.Type,
			SourceUnit: unitID,
		}
		if err := s.multiSceneRepo.CreateWithScenes(ctx, &multiScene, sceneIDs); err != nil {
			log.Printf("Warning: failed to persist multi-scene %q: %v", info.Name, err)
			continue
		}
		created = append(created, multiScene)
		addressMap[multiScene.Address] = multiScene.ID

		if err := s.pace(ctx); err != nil {
			return created, addressMap, err
		}
	}

	return created, addressMap, nil
}
