package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
)

// SceneRepository handles scene data access.
type SceneRepository struct {
	db *gorm.DB
}

// NewSceneRepository creates a new SceneRepository.
func NewSceneRepository(db *gorm.DB) *SceneRepository {
	return &SceneRepository{db: db}
}

// FindByProjectID returns all scenes in a project.
func (r *SceneRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Scene, error) {
	var scenes []models.Scene
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&scenes)
	return scenes, result.Error
}

// FindByID returns a scene by ID.
func (r *SceneRepository) FindByID(ctx context.Context, id string) (*models.Scene, error) {
	var scene models.Scene
	result := r.db.WithContext(ctx).First(&scene, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &scene, nil
}

// Create creates a new scene.
func (r *SceneRepository) Create(ctx context.Context, scene *models.Scene) error {
	if scene.ID == "" {
		scene.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(scene).Error
}

// CreateWithItems creates a scene with its items in a transaction.
func (r *SceneRepository) CreateWithItems(ctx context.Context, scene *models.Scene, items []models.SceneItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if scene.ID == "" {
			scene.ID = cuid.New()
		}
		if err := tx.Create(scene).Error; err != nil {
			return err
		}

		if len(items) > 0 {
			for i := range items {
				if items[i].ID == "" {
					items[i].ID = cuid.New()
				}
				items[i].SceneID = scene.ID
				items[i].ItemOrder = i
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates an existing scene.
func (r *SceneRepository) Update(ctx context.Context, scene *models.Scene) error {
	return r.db.WithContext(ctx).Save(scene).Error
}

// Delete deletes a scene and its items.
func (r *SceneRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SceneItem{}, "scene_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Scene{}, "id = ?", id).Error
	})
}

// GetItems returns all items for a scene, in order.
func (r *SceneRepository) GetItems(ctx context.Context, sceneID string) ([]models.SceneItem, error) {
	var items []models.SceneItem
	result := r.db.WithContext(ctx).
		Where("scene_id = ?", sceneID).
		Order("item_order ASC").
		Find(&items)
	return items, result.Error
}

// AddItem appends an item to a scene.
func (r *SceneRepository) AddItem(ctx context.Context, item *models.SceneItem) error {
	if item.ID == "" {
		item.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// DeleteItems deletes all items for a scene.
func (r *SceneRepository) DeleteItems(ctx context.Context, sceneID string) error {
	return r.db.WithContext(ctx).Delete(&models.SceneItem{}, "scene_id = ?", sceneID).Error
}

// Duplicate copies a scene and its items within the same project.
func (r *SceneRepository) Duplicate(ctx context.Context, id string) (*models.Scene, error) {
	original, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, nil
	}

	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}

	copy := &models.Scene{
		ProjectID:   original.ProjectID,
		Name:        original.Name + " (Copy)",
		Address:     original.Address,
		Description: original.Description,
		SourceUnit:  original.SourceUnit,
	}

	copyItems := make([]models.SceneItem, len(items))
	for i, item := range items {
		copyItems[i] = models.SceneItem{
			ItemType:    item.ItemType,
			ItemID:      item.ItemID,
			ItemAddress: item.ItemAddress,
			ItemValue:   item.ItemValue,
			Command:     item.Command,
			ObjectType:  item.ObjectType,
		}
	}

	if err := r.CreateWithItems(ctx, copy, copyItems); err != nil {
		return nil, err
	}
	return copy, nil
}
