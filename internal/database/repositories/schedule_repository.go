package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
)

// ScheduleRepository handles schedule data access.
type ScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// FindByProjectID returns all schedules in a project.
func (r *ScheduleRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&schedules)
	return schedules, result.Error
}

// FindByID returns a schedule by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	result := r.db.WithContext(ctx).First(&schedule, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &schedule, nil
}

// Create creates a new schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(schedule).Error
}

// CreateWithScenes creates a schedule and its scene links in a transaction.
func (r *ScheduleRepository) CreateWithScenes(ctx context.Context, schedule *models.Schedule, sceneIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if schedule.ID == "" {
			schedule.ID = cuid.New()
		}
		if err := tx.Create(schedule).Error; err != nil {
			return err
		}
		for i, sceneID := range sceneIDs {
			link := models.ScheduleScene{
				ID:         cuid.New(),
				ScheduleID: schedule.ID,
				SceneID:    sceneID,
				SceneOrder: i,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates an existing schedule.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

// Delete deletes a schedule and its scene links.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ScheduleScene{}, "schedule_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Schedule{}, "id = ?", id).Error
	})
}

// AddScene links a scene to a schedule.
func (r *ScheduleRepository) AddScene(ctx context.Context, scheduleID, sceneID string, order int) error {
	link := models.ScheduleScene{
		ID:         cuid.New(),
		ScheduleID: scheduleID,
		SceneID:    sceneID,
		SceneOrder: order,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

// RemoveScene unlinks a scene from a schedule.
func (r *ScheduleRepository) RemoveScene(ctx context.Context, scheduleID, sceneID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.ScheduleScene{}, "schedule_id = ? AND scene_id = ?", scheduleID, sceneID).Error
}

// GetScenes returns the scene links for a schedule, in display order.
func (r *ScheduleRepository) GetScenes(ctx context.Context, scheduleID string) ([]models.ScheduleScene, error) {
	var links []models.ScheduleScene
	result := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("scene_order ASC").
		Find(&links)
	return links, result.Error
}
