package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
)

// LightingRepository handles lighting item data access.
type LightingRepository struct {
	db *gorm.DB
}

// NewLightingRepository creates a new LightingRepository.
func NewLightingRepository(db *gorm.DB) *LightingRepository {
	return &LightingRepository{db: db}
}

// FindByProjectID returns all lighting items in a project.
func (r *LightingRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Lighting, error) {
	var items []models.Lighting
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&items)
	return items, result.Error
}

// FindByID returns a lighting item by ID.
func (r *LightingRepository) FindByID(ctx context.Context, id string) (*models.Lighting, error) {
	var item models.Lighting
	result := r.db.WithContext(ctx).First(&item, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &item, nil
}

// FindByAddress returns the lighting item with the given address in a
// project, or nil when no such row exists.
func (r *LightingRepository) FindByAddress(ctx context.Context, projectID, address string) (*models.Lighting, error) {
	var item models.Lighting
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND address = ?", projectID, address).
		First(&item)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &item, nil
}

// Create creates a new lighting item.
func (r *LightingRepository) Create(ctx context.Context, item *models.Lighting) error {
	if item.ID == "" {
		item.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// Update updates an existing lighting item.
func (r *LightingRepository) Update(ctx context.Context, item *models.Lighting) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes a lighting item by ID.
func (r *LightingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Lighting{}, "id = ?", id).Error
}

// AirconRepository handles aircon item data access.
type AirconRepository struct {
	db *gorm.DB
}

// NewAirconRepository creates a new AirconRepository.
func NewAirconRepository(db *gorm.DB) *AirconRepository {
	return &AirconRepository{db: db}
}

// FindByProjectID returns all aircon items in a project.
func (r *AirconRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Aircon, error) {
	var items []models.Aircon
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&items)
	return items, result.Error
}

// FindByID returns an aircon item by ID.
func (r *AirconRepository) FindByID(ctx context.Context, id string) (*models.Aircon, error) {
	var item models.Aircon
	result := r.db.WithContext(ctx).First(&item, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &item, nil
}

// FindByAddress returns the aircon item with the given address in a project.
func (r *AirconRepository) FindByAddress(ctx context.Context, projectID, address string) (*models.Aircon, error) {
	var item models.Aircon
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND address = ?", projectID, address).
		First(&item)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &item, nil
}

// Create creates a new aircon item.
func (r *AirconRepository) Create(ctx context.Context, item *models.Aircon) error {
	if item.ID == "" {
		item.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// Update updates an existing aircon item.
func (r *AirconRepository) Update(ctx context.Context, item *models.Aircon) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes an aircon item by ID.
func (r *AirconRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Aircon{}, "id = ?", id).Error
}

// DmxRepository handles DMX item data access.
type DmxRepository struct {
	db *gorm.DB
}

// NewDmxRepository creates a new DmxRepository.
func NewDmxRepository(db *gorm.DB) *DmxRepository {
	return &DmxRepository{db: db}
}

// FindByProjectID returns all DMX items in a project.
func (r *DmxRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Dmx, error) {
	var items []models.Dmx
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&items)
	return items, result.Error
}

// Create creates a new DMX item.
func (r *DmxRepository) Create(ctx context.Context, item *models.Dmx) error {
	if item.ID == "" {
		item.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// Update updates an existing DMX item.
func (r *DmxRepository) Update(ctx context.Context, item *models.Dmx) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes a DMX item by ID.
func (r *DmxRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Dmx{}, "id = ?", id).Error
}

// UnitRepository handles controller unit rows.
type UnitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new UnitRepository.
func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// FindByProjectID returns all units in a project.
func (r *UnitRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Unit, error) {
	var units []models.Unit
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&units)
	return units, result.Error
}

// Create creates a new unit row.
func (r *UnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	if unit.ID == "" {
		unit.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(unit).Error
}

// Update updates an existing unit row.
func (r *UnitRepository) Update(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// Delete deletes a unit row by ID.
func (r *UnitRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Unit{}, "id = ?", id).Error
}
