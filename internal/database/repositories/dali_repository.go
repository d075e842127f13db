package repositories

import (
	"context"
	"fmt"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
)

const (
	// DaliDeviceCount is the fixed number of physical DALI slots per project.
	DaliDeviceCount = 64
	// DaliGroupCount is the fixed number of DALI groups per project.
	DaliGroupCount = 16
	// DaliSceneCount is the fixed number of DALI scenes per project.
	DaliSceneCount = 16
)

// DaliRepository handles DALI device, group and scene data access.
type DaliRepository struct {
	db *gorm.DB
}

// NewDaliRepository creates a new DaliRepository.
func NewDaliRepository(db *gorm.DB) *DaliRepository {
	return &DaliRepository{db: db}
}

// EnsureTopology initializes the fixed DALI topology for a project:
// 64 device slots, 16 groups and 16 scenes. Safe to call repeatedly.
func (r *DaliRepository) EnsureTopology(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var deviceCount int64
		if err := tx.Model(&models.DaliDevice{}).Where("project_id = ?", projectID).Count(&deviceCount).Error; err != nil {
			return err
		}
		if deviceCount == 0 {
			devices := make([]models.DaliDevice, DaliDeviceCount)
			for i := 0; i < DaliDeviceCount; i++ {
				devices[i] = models.DaliDevice{
					ID:        cuid.New(),
					ProjectID: projectID,
					Address:   i,
				}
			}
			if err := tx.Create(&devices).Error; err != nil {
				return err
			}
		}

		var groupCount int64
		if err := tx.Model(&models.DaliGroup{}).Where("project_id = ?", projectID).Count(&groupCount).Error; err != nil {
			return err
		}
		if groupCount == 0 {
			groups := make([]models.DaliGroup, DaliGroupCount)
			for i := 0; i < DaliGroupCount; i++ {
				groups[i] = models.DaliGroup{
					ID:        cuid.New(),
					ProjectID: projectID,
					GroupID:   i,
					Name:      fmt.Sprintf("Group %d", i),
				}
			}
			if err := tx.Create(&groups).Error; err != nil {
				return err
			}
		}

		var sceneCount int64
		if err := tx.Model(&models.DaliScene{}).Where("project_id = ?", projectID).Count(&sceneCount).Error; err != nil {
			return err
		}
		if sceneCount == 0 {
			scenes := make([]models.DaliScene, DaliSceneCount)
			for i := 0; i < DaliSceneCount; i++ {
				scenes[i] = models.DaliScene{
					ID:        cuid.New(),
					ProjectID: projectID,
					SceneID:   i,
					Name:      fmt.Sprintf("Scene %d", i),
				}
			}
			if err := tx.Create(&scenes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDevices returns the 64 device slots of a project ordered by slot address.
func (r *DaliRepository) GetDevices(ctx context.Context, projectID string) ([]models.DaliDevice, error) {
	var devices []models.DaliDevice
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("address ASC").
		Find(&devices)
	return devices, result.Error
}

// UpdateDevice updates a device slot row.
func (r *DaliRepository) UpdateDevice(ctx context.Context, device *models.DaliDevice) error {
	return r.db.WithContext(ctx).Save(device).Error
}

// GetGroups returns the 16 groups of a project ordered by group id.
func (r *DaliRepository) GetGroups(ctx context.Context, projectID string) ([]models.DaliGroup, error) {
	var groups []models.DaliGroup
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("group_id ASC").
		Find(&groups)
	return groups, result.Error
}

// UpdateGroup updates a group row.
func (r *DaliRepository) UpdateGroup(ctx context.Context, group *models.DaliGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// GetScenes returns the 16 DALI scenes of a project ordered by scene id.
func (r *DaliRepository) GetScenes(ctx context.Context, projectID string) ([]models.DaliScene, error) {
	var scenes []models.DaliScene
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("scene_id ASC").
		Find(&scenes)
	return scenes, result.Error
}

// AddGroupDevice links a device slot to a group.
func (r *DaliRepository) AddGroupDevice(ctx context.Context, groupID, deviceID string) error {
	link := models.DaliGroupDevice{
		ID:       cuid.New(),
		GroupID:  groupID,
		DeviceID: deviceID,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

// AddSceneDevice links a device slot to a DALI scene.
func (r *DaliRepository) AddSceneDevice(ctx context.Context, sceneID, deviceID string) error {
	link := models.DaliSceneDevice{
		ID:       cuid.New(),
		SceneID:  sceneID,
		DeviceID: deviceID,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

// GetGroupDevices returns the device links of a group.
func (r *DaliRepository) GetGroupDevices(ctx context.Context, groupID string) ([]models.DaliGroupDevice, error) {
	var links []models.DaliGroupDevice
	result := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Find(&links)
	return links, result.Error
}

// GetSceneDevices returns the device links of a DALI scene.
func (r *DaliRepository) GetSceneDevices(ctx context.Context, sceneID string) ([]models.DaliSceneDevice, error) {
	var links []models.DaliSceneDevice
	result := r.db.WithContext(ctx).
		Where("scene_id = ?", sceneID).
		Find(&links)
	return links, result.Error
}

// ClearGroupDevices removes all device links for a group.
func (r *DaliRepository) ClearGroupDevices(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).Delete(&models.DaliGroupDevice{}, "group_id = ?", groupID).Error
}

// ClearSceneDevices removes all device links for a DALI scene.
func (r *DaliRepository) ClearSceneDevices(ctx context.Context, sceneID string) error {
	return r.db.WithContext(ctx).Delete(&models.DaliSceneDevice{}, "scene_id = ?", sceneID).Error
}
