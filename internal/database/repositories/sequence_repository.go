package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
)

// SequenceRepository handles sequence data access.
type SequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// FindByProjectID returns all sequences in a project.
func (r *SequenceRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Sequence, error) {
	var sequences []models.Sequence
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&sequences)
	return sequences, result.Error
}

// FindByID returns a sequence by ID.
func (r *SequenceRepository) FindByID(ctx context.Context, id string) (*models.Sequence, error) {
	var sequence models.Sequence
	result := r.db.WithContext(ctx).First(&sequence, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &sequence, nil
}

// Create creates a new sequence.
func (r *SequenceRepository) Create(ctx context.Context, sequence *models.Sequence) error {
	if sequence.ID == "" {
		sequence.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(sequence).Error
}

// CreateWithMultiScenes creates a sequence and its ordered multi-scene links
// in a transaction.
func (r *SequenceRepository) CreateWithMultiScenes(ctx context.Context, sequence *models.Sequence, multiSceneIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sequence.ID == "" {
			sequence.ID = cuid.New()
		}
		if err := tx.Create(sequence).Error; err != nil {
			return err
		}
		for i, multiSceneID := range multiSceneIDs {
			link := models.SequenceMultiScene{
				ID:              cuid.New(),
				SequenceID:      sequence.ID,
				MultiSceneID:    multiSceneID,
				MultiSceneOrder: i,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates an existing sequence.
func (r *SequenceRepository) Update(ctx context.Context, sequence *models.Sequence) error {
	return r.db.WithContext(ctx).Save(sequence).Error
}

// Delete deletes a sequence and its multi-scene links.
func (r *SequenceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SequenceMultiScene{}, "sequence_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sequence{}, "id = ?", id).Error
	})
}

// AddMultiScene links a multi-scene to a sequence at the given position.
func (r *SequenceRepository) AddMultiScene(ctx context.Context, sequenceID, multiSceneID string, order int) error {
	link := models.SequenceMultiScene{
		ID:              cuid.New(),
		SequenceID:      sequenceID,
		MultiSceneID:    multiSceneID,
		MultiSceneOrder: order,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

// GetMultiScenes returns the ordered multi-scene links for a sequence.
func (r *SequenceRepository) GetMultiScenes(ctx context.Context, sequenceID string) ([]models.SequenceMultiScene, error) {
	var links []models.SequenceMultiScene
	result := r.db.WithContext(ctx).
		Where("sequence_id = ?", sequenceID).
		Order("multi_scene_order ASC").
		Find(&links)
	return links, result.Error
}
