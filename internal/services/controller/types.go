package controller

// Unit identifies a reachable network controller.
type Unit struct {
	IP    string `json:"ip"`
	CanID int    `json:"canId"`
}

// SceneInfo is the summary record returned for each scene on a unit.
type SceneInfo struct {
	Index     int    `json:"index"`
	Address   int    `json:"address"`
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
}

// SceneItemInfo is one member of a scene as reported by the unit.
// ObjectValue identifies the item class (1 lighting, 2 curtain, 3-7 aircon,
// 25+ spi effects).
type SceneItemInfo struct {
	ObjectValue int `json:"objectValue"`
	ItemAddress int `json:"itemAddress"`
	ItemValue   int `json:"itemValue"`
}

// SceneDetail is the full item listing of one scene.
type SceneDetail struct {
	Index   int             `json:"index"`
	Address int             `json:"address"`
	Name    string          `json:"name"`
	Items   []SceneItemInfo `json:"items"`
}

// ScheduleInfo is one schedule slot as reported by the unit.
// WeekDays is Monday-first.
type ScheduleInfo struct {
	Index          int     `json:"index"`
	Name           string  `json:"name"`
	Enabled        bool    `json:"enabled"`
	Hour           int     `json:"hour"`
	Minute         int     `json:"minute"`
	WeekDays       [7]bool `json:"weekDays"`
	SceneAddresses []int   `json:"sceneAddresses"`
}

// CurtainInfo is one curtain slot as reported by the unit.
// CurtainType 0 means the slot is unconfigured.
type CurtainInfo struct {
	Index            int `json:"index"`
	Address          int `json:"address"`
	CurtainType      int `json:"curtainType"`
	CurtainValue     int `json:"curtainValue"`
	OpenGroup        int `json:"openGroup"`
	CloseGroup       int `json:"closeGroup"`
	StopGroup        int `json:"stopGroup"`
	PausePeriod      int `json:"pausePeriod"`
	TransitionPeriod int `json:"transitionPeriod"`
}

// KnxInfo is one KNX bridge slot (address 0-511). Type 0 means disabled.
type KnxInfo struct {
	Address         int    `json:"address"`
	Type            int    `json:"type"`
	Factor          int    `json:"factor"`
	Feedback        int    `json:"feedback"`
	RcuGroup        int    `json:"rcuGroup"`
	KnxSwitchGroup  string `json:"knxSwitchGroup"`
	KnxDimmingGroup string `json:"knxDimmingGroup"`
	KnxValueGroup   string `json:"knxValueGroup"`
	KnxStatusGroup  string `json:"knxStatusGroup"`
}

// MultiSceneInfo is one multi-scene as reported by the unit.
type MultiSceneInfo struct {
	Index          int    `json:"index"`
	Address        int    `json:"address"`
	Name           string `json:"name"`
	Type           int    `json:"type"`
	SceneAddresses []int  `json:"sceneAddresses"`
}

// SequenceInfo is one sequence as reported by the unit.
type SequenceInfo struct {
	Index               int    `json:"index"`
	Address             int    `json:"address"`
	Name                string `json:"name"`
	MultiSceneAddresses []int  `json:"multiSceneAddresses"`
}

// ScenePayload is the reverse-path structure for pushing a scene to a unit.
type ScenePayload struct {
	Address int                `json:"address"`
	Name    string             `json:"name"`
	Items   []SceneItemPayload `json:"items"`
}

// SceneItemPayload is one member of a pushed scene.
type SceneItemPayload struct {
	ObjectValue int `json:"objectValue"`
	ItemAddress int `json:"itemAddress"`
	ItemValue   int `json:"itemValue"`
}

// SchedulePayload is the reverse-path structure for pushing a schedule.
type SchedulePayload struct {
	Index          int     `json:"index"`
	Name           string  `json:"name"`
	Enabled        bool    `json:"enabled"`
	Hour           int     `json:"hour"`
	Minute         int     `json:"minute"`
	WeekDays       [7]bool `json:"weekDays"`
	SceneAddresses []int   `json:"sceneAddresses"`
}

// CurtainPayload is the reverse-path structure for pushing a curtain config.
type CurtainPayload struct {
	Address          int `json:"address"`
	CurtainType      int `json:"curtainType"`
	CurtainValue     int `json:"curtainValue"`
	OpenGroup        int `json:"openGroup"`
	CloseGroup       int `json:"closeGroup"`
	StopGroup        int `json:"stopGroup"`
	PausePeriod      int `json:"pausePeriod"`
	TransitionPeriod int `json:"transitionPeriod"`
}

// KnxPayload is the reverse-path structure for pushing a KNX slot.
type KnxPayload struct {
	Address         int    `json:"address"`
	Type            int    `json:"type"`
	Factor          int    `json:"factor"`
	Feedback        int    `json:"feedback"`
	RcuGroup        int    `json:"rcuGroup"`
	KnxSwitchGroup  string `json:"knxSwitchGroup"`
	KnxDimmingGroup string `json:"knxDimmingGroup"`
	KnxValueGroup   string `json:"knxValueGroup"`
	KnxStatusGroup  string `json:"knxStatusGroup"`
}

// MultiScenePayload is the reverse-path structure for pushing a multi-scene.
type MultiScenePayload struct {
	Address        int    `json:"address"`
	Name           string `json:"name"`
	Type           int    `json:"type"`
	SceneAddresses []int  `json:"sceneAddresses"`
}

// SequencePayload is the reverse-path structure for pushing a sequence.
type SequencePayload struct {
	Address             int    `json:"address"`
	Name                string `json:"name"`
	MultiSceneAddresses []int  `json:"multiSceneAddresses"`
}

// GroupSceneConfig carries the DALI group/scene membership tables.
type GroupSceneConfig struct {
	Groups [16][]int `json:"groups"` // device slots per group
	Scenes [16][]int `json:"scenes"` // device slots per scene
}

// RoomConfiguration describes the room setup of a unit.
type RoomConfiguration struct {
	RoomCount int    `json:"roomCount"`
	Layout    string `json:"layout"`
}

// RoomStatus is the live occupancy/mode state of a room.
type RoomStatus struct {
	Room     int  `json:"room"`
	Occupied bool `json:"occupied"`
	Mode     int  `json:"mode"`
}
