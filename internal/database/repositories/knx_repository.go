package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
)

// KnxRepository handles KNX configuration data access.
type KnxRepository struct {
	db *gorm.DB
}

// NewKnxRepository creates a new KnxRepository.
func NewKnxRepository(db *gorm.DB) *KnxRepository {
	return &KnxRepository{db: db}
}

// FindByProjectID returns all KNX configs in a project.
func (r *KnxRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.KnxConfig, error) {
	var configs []models.KnxConfig
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("address ASC").
		Find(&configs)
	return configs, result.Error
}

// FindByID returns a KNX config by ID.
func (r *KnxRepository) FindByID(ctx context.Context, id string) (*models.KnxConfig, error) {
	var config models.KnxConfig
	result := r.db.WithContext(ctx).First(&config, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &config, nil
}

// Create creates a new KNX config.
func (r *KnxRepository) Create(ctx context.Context, config *models.KnxConfig) error {
	if config.ID == "" {
		config.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(config).Error
}

// Update updates an existing KNX config.
func (r *KnxRepository) Update(ctx context.Context, config *models.KnxConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

// Delete deletes a KNX config by ID.
func (r *KnxRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.KnxConfig{}, "id = ?", id).Error
}
