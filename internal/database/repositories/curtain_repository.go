package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
)

// CurtainRepository handles curtain data access.
type CurtainRepository struct {
	db *gorm.DB
}

// NewCurtainRepository creates a new CurtainRepository.
func NewCurtainRepository(db *gorm.DB) *CurtainRepository {
	return &CurtainRepository{db: db}
}

// FindByProjectID returns all curtains in a project.
func (r *CurtainRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Curtain, error) {
	var curtains []models.Curtain
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&curtains)
	return curtains, result.Error
}

// FindByID returns a curtain by ID.
func (r *CurtainRepository) FindByID(ctx context.Context, id string) (*models.Curtain, error) {
	var curtain models.Curtain
	result := r.db.WithContext(ctx).First(&curtain, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &curtain, nil
}

// FindByAddress returns the curtain with the given address in a project.
func (r *CurtainRepository) FindByAddress(ctx context.Context, projectID, address string) (*models.Curtain, error) {
	var curtain models.Curtain
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND address = ?", projectID, address).
		First(&curtain)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &curtain, nil
}

// Create creates a new curtain.
func (r *CurtainRepository) Create(ctx context.Context, curtain *models.Curtain) error {
	if curtain.ID == "" {
		curtain.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(curtain).Error
}

// Update updates an existing curtain.
func (r *CurtainRepository) Update(ctx context.Context, curtain *models.Curtain) error {
	return r.db.WithContext(ctx).Save(curtain).Error
}

// Delete deletes a curtain by ID.
func (r *CurtainRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Curtain{}, "id = ?", id).Error
}
