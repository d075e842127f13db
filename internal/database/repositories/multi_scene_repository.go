package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
)

// MultiSceneRepository handles multi-scene data access.
type MultiSceneRepository struct {
	db *gorm.DB
}

// NewMultiSceneRepository creates a new MultiSceneRepository.
func NewMultiSceneRepository(db *gorm.DB) *MultiSceneRepository {
	return &MultiSceneRepository{db: db}
}

// FindByProjectID returns all multi-scenes in a project.
func (r *MultiSceneRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.MultiScene, error) {
	var multiScenes []models.MultiScene
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&multiScenes)
	return multiScenes, result.Error
}

// FindByID returns a multi-scene by ID.
func (r *MultiSceneRepository) FindByID(ctx context.Context, id string) (*models.MultiScene, error) {
	var multiScene models.MultiScene
	result := r.db.WithContext(ctx).First(&multiScene, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &multiScene, nil
}

// Create creates a new multi-scene.
func (r *MultiSceneRepository) Create(ctx context.Context, multiScene *models.MultiScene) error {
	if multiScene.ID == "" {
		multiScene.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(multiScene).Error
}

// CreateWithScenes creates a multi-scene and its ordered scene links in a
// transaction.
func (r *MultiSceneRepository) CreateWithScenes(ctx context.Context, multiScene *models.MultiScene, sceneIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if multiScene.ID == "" {
			multiScene.ID = cuid.New()
		}
		if err := tx.Create(multiScene).Error; err != nil {
			return err
		}
		for i, sceneID := range sceneIDs {
			link := models.MultiSceneScene{
				ID:           cuid.New(),
				MultiSceneID: multiScene.ID,
				SceneID:      sceneID,
				SceneOrder:   i,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates an existing multi-scene.
func (r *MultiSceneRepository) Update(ctx context.Context, multiScene *models.MultiScene) error {
	return r.db.WithContext(ctx).Save(multiScene).Error
}

// Delete deletes a multi-scene and its scene links.
func (r *MultiSceneRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MultiSceneScene{}, "multi_scene_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MultiScene{}, "id = ?", id).Error
	})
}

// AddScene links a scene to a multi-scene at the given position.
func (r *MultiSceneRepository) AddScene(ctx context.Context, multiSceneID, sceneID string, order int) error {
	link := models.MultiSceneScene{
		ID:           cuid.New(),
		MultiSceneID: multiSceneID,
		SceneID:      sceneID,
		SceneOrder:   order,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

// GetScenes returns the ordered scene links for a multi-scene.
func (r *MultiSceneRepository) GetScenes(ctx context.Context, multiSceneID string) ([]models.MultiSceneScene, error) {
	var links []models.MultiSceneScene
	result := r.db.WithContext(ctx).
		Where("multi_scene_id = ?", multiSceneID).
		Order("scene_order ASC").
		Find(&links)
	return links, result.Error
}
