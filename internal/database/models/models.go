// Package models contains the database model definitions.
// These models map directly to the SQLite project database tables.
package models

import (
	"time"
)

// Project represents a building-automation project.
// Table: projects
type Project struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relations (loaded separately)
	Scenes    []Scene    `gorm:"foreignKey:ProjectID"`
	Schedules []Schedule `gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string { return "projects" }

// Unit represents a networked RCU controller known to a project.
// Discovery happens elsewhere; the engine only reads and tags these rows.
// Table: units
type Unit struct {
	ID              string    `gorm:"column:id;primaryKey"`
	ProjectID       string    `gorm:"column:project_id;index"`
	Type            string    `gorm:"column:type"`
	SerialNo        string    `gorm:"column:serial_no"`
	IPAddress       string    `gorm:"column:ip_address"`
	IDCan           int       `gorm:"column:id_can"`
	Mode            string    `gorm:"column:mode"`
	FirmwareVersion string    `gorm:"column:firmware_version"`
	Description     *string   `gorm:"column:description"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Unit) TableName() string { return "units" }

// Lighting represents a lighting group/channel item.
// Address is the semantic identity key when bridging network and database
// representations: two rows with the same (project, address) are the same
// logical device across transfers.
// Table: lighting_items
type Lighting struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProjectID   string    `gorm:"column:project_id;index"`
	Name        string    `gorm:"column:name"`
	Address     string    `gorm:"column:address;index"`
	Description *string   `gorm:"column:description"`
	ObjectType  string    `gorm:"column:object_type"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Lighting) TableName() string { return "lighting_items" }

// Aircon represents an air-conditioning item.
// Table: aircon_items
type Aircon struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProjectID   string    `gorm:"column:project_id;index"`
	Name        string    `gorm:"column:name"`
	Address     string    `gorm:"column:address;index"`
	Description *string   `gorm:"column:description"`
	ObjectType  string    `gorm:"column:object_type"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Aircon) TableName() string { return "aircon_items" }

// Dmx represents a DMX/pixel-strip item.
// Table: dmx_items
type Dmx struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProjectID   string    `gorm:"column:project_id;index"`
	Name        string    `gorm:"column:name"`
	Address     string    `gorm:"column:address;index"`
	Description *string   `gorm:"column:description"`
	ObjectType  string    `gorm:"column:object_type"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Dmx) TableName() string { return "dmx_items" }

// Curtain represents a curtain/blind configuration. The three group
// references point at lighting rows in the same project; a dangling
// reference degrades to null, never an error.
// Table: curtain_items
type Curtain struct {
	ID               string    `gorm:"column:id;primaryKey"`
	ProjectID        string    `gorm:"column:project_id;index"`
	Name             string    `gorm:"column:name"`
	Address          string    `gorm:"column:address;index"`
	Description      *string   `gorm:"column:description"`
	ObjectType       string    `gorm:"column:object_type"`
	CurtainType      string    `gorm:"column:curtain_type"`
	CurtainValue     int       `gorm:"column:curtain_value;default:0"`
	OpenGroupID      *string   `gorm:"column:open_group_id"`
	CloseGroupID     *string   `gorm:"column:close_group_id"`
	StopGroupID      *string   `gorm:"column:stop_group_id"`
	PausePeriod      int       `gorm:"column:pause_period;default:0"`
	TransitionPeriod int       `gorm:"column:transition_period;default:0"`
	SourceUnit       *string   `gorm:"column:source_unit"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Curtain) TableName() string { return "curtain_items" }

// KnxConfig represents one KNX bridge slot (address 0-511).
// Table: knx_configs
type KnxConfig struct {
	ID              string    `gorm:"column:id;primaryKey"`
	ProjectID       string    `gorm:"column:project_id;index"`
	Name            string    `gorm:"column:name"`
	Address         int       `gorm:"column:address;index"`
	Type            int       `gorm:"column:type;default:0"`
	Factor          int       `gorm:"column:factor;default:1"`
	Feedback        int       `gorm:"column:feedback;default:0"`
	RcuGroupID      *string   `gorm:"column:rcu_group_id"`
	KnxSwitchGroup  string    `gorm:"column:knx_switch_group"`
	KnxDimmingGroup string    `gorm:"column:knx_dimming_group"`
	KnxValueGroup   string    `gorm:"column:knx_value_group"`
	KnxStatusGroup  string    `gorm:"column:knx_status_group"`
	SourceUnit      *string   `gorm:"column:source_unit"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (KnxConfig) TableName() string { return "knx_configs" }

// Scene represents a scene pulled from a unit or authored locally.
// Table: scenes
type Scene struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProjectID   string    `gorm:"column:project_id;index"`
	Name        string    `gorm:"column:name"`
	Address     string    `gorm:"column:address;index"`
	Description *string   `gorm:"column:description"`
	SourceUnit  *string   `gorm:"column:source_unit"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relations
	Items []SceneItem `gorm:"foreignKey:SceneID"`
}

func (Scene) TableName() string { return "scenes" }

// SceneItem represents one ordered member of a scene. ItemID is null for
// address-only item types (spi), which are keyed by ItemAddress instead.
// Table: scene_items
type SceneItem struct {
	ID          string  `gorm:"column:id;primaryKey"`
	SceneID     string  `gorm:"column:scene_id;index"`
	ItemType    string  `gorm:"column:item_type"`
	ItemID      *string `gorm:"column:item_id"`
	ItemAddress string  `gorm:"column:item_address"`
	ItemValue   int     `gorm:"column:item_value;default:0"`
	Command     *string `gorm:"column:command"`
	ObjectType  string  `gorm:"column:object_type"`
	ItemOrder   int     `gorm:"column:item_order;default:0"`
}

func (SceneItem) TableName() string { return "scene_items" }

// Schedule represents a weekday/time trigger for one or more scenes.
// Days is a JSON array of lowercase weekday names.
// Table: schedules
type Schedule struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProjectID   string    `gorm:"column:project_id;index"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
	Time        string    `gorm:"column:time"` // "HH:MM"
	Days        string    `gorm:"column:days;default:[]"`
	Enabled     bool      `gorm:"column:enabled;default:true"`
	SourceUnit  *string   `gorm:"column:source_unit"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Schedule) TableName() string { return "schedules" }

// ScheduleScene links a schedule to a scene. Order matters for display only.
// Table: schedule_scenes
type ScheduleScene struct {
	ID         string `gorm:"column:id;primaryKey"`
	ScheduleID string `gorm:"column:schedule_id;index"`
	SceneID    string `gorm:"column:scene_id;index"`
	SceneOrder int    `gorm:"column:scene_order;default:0"`
}

func (ScheduleScene) TableName() string { return "schedule_scenes" }

// MultiScene is an ordered composition of scenes triggered as a unit.
// Table: multi_scenes
type MultiScene struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ProjectID  string    `gorm:"column:project_id;index"`
	Name       string    `gorm:"column:name"`
	Address    string    `gorm:"column:address;index"`
	Type       int       `gorm:"column:type;default:0"`
	SourceUnit *string   `gorm:"column:source_unit"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (MultiScene) TableName() string { return "multi_scenes" }

// MultiSceneScene links a multi-scene to a scene with explicit ordering.
// Table: multi_scene_scenes
type MultiSceneScene struct {
	ID           string `gorm:"column:id;primaryKey"`
	MultiSceneID string `gorm:"column:multi_scene_id;index"`
	SceneID      string `gorm:"column:scene_id;index"`
	SceneOrder   int    `gorm:"column:scene_order;default:0"`
}

func (MultiSceneScene) TableName() string { return "multi_scene_scenes" }

// Sequence is an ordered composition of multi-scenes.
// Table: sequences
type Sequence struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ProjectID  string    `gorm:"column:project_id;index"`
	Name       string    `gorm:"column:name"`
	Address    string    `gorm:"column:address;index"`
	SourceUnit *string   `gorm:"column:source_unit"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Sequence) TableName() string { return "sequences" }

// SequenceMultiScene links a sequence to a multi-scene with explicit ordering.
// Table: sequence_multi_scenes
type SequenceMultiScene struct {
	ID              string `gorm:"column:id;primaryKey"`
	SequenceID      string `gorm:"column:sequence_id;index"`
	MultiSceneID    string `gorm:"column:multi_scene_id;index"`
	MultiSceneOrder int    `gorm:"column:multi_scene_order;default:0"`
}

func (SequenceMultiScene) TableName() string { return "sequence_multi_scenes" }

// DaliDevice represents one of the 64 fixed physical DALI slots of a
// project. Address is the slot; the MappedDevice* fields describe the
// logical device currently occupying it.
// Table: dali_devices
type DaliDevice struct {
	ID                   string    `gorm:"column:id;primaryKey"`
	ProjectID            string    `gorm:"column:project_id;index"`
	Address              int       `gorm:"column:address"` // 0-63, unique per project
	MappedDeviceIndex    *int      `gorm:"column:mapped_device_index"`
	MappedDeviceName     string    `gorm:"column:mapped_device_name"`
	MappedDeviceType     string    `gorm:"column:mapped_device_type"`
	MappedDeviceAddress  *int      `gorm:"column:mapped_device_address"`
	LightingGroupAddress int       `gorm:"column:lighting_group_address;default:0"`
	ColorFeature         string    `gorm:"column:color_feature"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DaliDevice) TableName() string { return "dali_devices" }

// DaliGroup represents one of the 16 fixed DALI groups of a project.
// Table: dali_groups
type DaliGroup struct {
	ID                   string    `gorm:"column:id;primaryKey"`
	ProjectID            string    `gorm:"column:project_id;index"`
	GroupID              int       `gorm:"column:group_id"` // 0-15
	Name                 string    `gorm:"column:name"`
	LightingGroupAddress *int      `gorm:"column:lighting_group_address"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DaliGroup) TableName() string { return "dali_groups" }

// DaliGroupDevice links a DALI group to a device slot.
// Table: dali_group_devices
type DaliGroupDevice struct {
	ID       string `gorm:"column:id;primaryKey"`
	GroupID  string `gorm:"column:group_id;index"`
	DeviceID string `gorm:"column:device_id;index"`
}

func (DaliGroupDevice) TableName() string { return "dali_group_devices" }

// DaliScene represents one of the 16 fixed DALI scenes of a project.
// Table: dali_scenes
type DaliScene struct {
	ID        string    `gorm:"column:id;primaryKey"`
	ProjectID string    `gorm:"column:project_id;index"`
	SceneID   int       `gorm:"column:scene_id"` // 0-15
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DaliScene) TableName() string { return "dali_scenes" }

// DaliSceneDevice links a DALI scene to a device slot.
// Table: dali_scene_devices
type DaliSceneDevice struct {
	ID       string `gorm:"column:id;primaryKey"`
	SceneID  string `gorm:"column:scene_id;index"`
	DeviceID string `gorm:"column:device_id;index"`
}

func (DaliSceneDevice) TableName() string { return "dali_scene_devices" }

// AllModels returns every model, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Project{},
		&Unit{},
		&Lighting{},
		&Aircon{},
		&Dmx{},
		&Curtain{},
		&KnxConfig{},
		&Scene{},
		&SceneItem{},
		&Schedule{},
		&ScheduleScene{},
		&MultiScene{},
		&MultiSceneScene{},
		&Sequence{},
		&SequenceMultiScene{},
		&DaliDevice{},
		&DaliGroup{},
		&DaliGroupDevice{},
		&DaliScene{},
		&DaliSceneDevice{},
	}
}
