// Package controller defines the contract the sync engine requires of the
// RCU controller client, plus a thin framed-JSON transport implementation.
// Protocol framing and retry policy belong to the controller firmware side;
// the engine only consumes these calls.
package controller

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client is the controller contract consumed by the sync engine. Every call
// addresses one unit and returns parsed structured data, or an error on
// transport/protocol failure.
type Client interface {
	// Scene
	GetAllScenesInformation(ctx context.Context, unit Unit) ([]SceneInfo, error)
	GetSceneInformation(ctx context.Context, unit Unit, sceneIndex int) (*SceneDetail, error)
	SetupScene(ctx context.Context, unit Unit, payload ScenePayload) error
	TriggerScene(ctx context.Context, unit Unit, address int) error
	DeleteScene(ctx context.Context, unit Unit, address int) error

	// Schedule
	GetAllSchedulesInformation(ctx context.Context, unit Unit) ([]ScheduleInfo, error)
	SendSchedule(ctx context.Context, unit Unit, payload SchedulePayload) error

	// Curtain
	GetCurtainConfig(ctx context.Context, unit Unit, curtainIndex *int) ([]CurtainInfo, error)
	SetupCurtain(ctx context.Context, unit Unit, payload CurtainPayload) error
	SetCurtain(ctx context.Context, unit Unit, address, value int) error
	DeleteCurtain(ctx context.Context, unit Unit, address int) error
	DeleteAllCurtains(ctx context.Context, unit Unit) error

	// KNX
	GetKnxConfig(ctx context.Context, unit Unit, knxAddress *int) ([]KnxInfo, error)
	SetupKnx(ctx context.Context, unit Unit, payload KnxPayload) error
	TriggerKnx(ctx context.Context, unit Unit, address int) error
	DeleteKnxConfig(ctx context.Context, unit Unit, address int) error
	DeleteAllKnxConfigs(ctx context.Context, unit Unit) error

	// Multi-scene / sequence
	GetAllMultiScenesInformation(ctx context.Context, unit Unit) ([]MultiSceneInfo, error)
	SetupMultiScene(ctx context.Context, unit Unit, payload MultiScenePayload) error
	GetAllSequencesInformation(ctx context.Context, unit Unit) ([]SequenceInfo, error)
	SetupSequence(ctx context.Context, unit Unit, payload SequencePayload) error
	TriggerSequence(ctx context.Context, unit Unit, address int) error

	// DALI / address mapping
	SendAddressMapping(ctx context.Context, unit Unit, mapping []int) error
	SendMappingRCU(ctx context.Context, unit Unit, frame []byte) error
	SendGroupSceneConfig(ctx context.Context, unit Unit, cfg GroupSceneConfig) error
	SendDeleteAddress(ctx context.Context, unit Unit, address int) error
	ResetAllConfig(ctx context.Context, unit Unit) error

	// Room
	GetRoomConfiguration(ctx context.Context, unit Unit) (*RoomConfiguration, error)
	GetRoomStatus(ctx context.Context, unit Unit, room int) (*RoomStatus, error)
	SetRoomStatus(ctx context.Context, unit Unit, status RoomStatus) error
}

// Config configures the TCP client.
type Config struct {
	Port        int
	DialTimeout time.Duration
}

// client is the framed-JSON TCP implementation of Client. One request per
// connection: a uint32 length prefix followed by a JSON envelope, mirrored
// by the unit's gateway daemon.
type client struct {
	cfg Config
}

// New creates a controller client.
func New(cfg Config) Client {
	if cfg.Port == 0 {
		cfg.Port = 1234
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	return &client{cfg: cfg}
}

type request struct {
	Method string      `json:"method"`
	CanID  int         `json:"canId"`
	Params interface{} `json:"params,omitempty"`
}

type response struct {
	OK     bool            `json:"ok"`
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// call performs one request/response round trip. out may be nil for calls
// without a result body.
func (c *client) call(ctx context.Context, unit Unit, method string, params, out interface{}) error {
	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
	addr := fmt.Sprintf("%s:%d", unit.IP, c.cfg.Port)
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(c.cfg.DialTimeout))
	}

	body, err := json.Marshal(request{Method: method, CanID: unit.CanID, Params: params})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	if _, err := conn.Write(prefix[:]); err != nil {
		return fmt.Errorf("write %s frame: %w", method, err)
	}
	if _, err := conn.Write(body); err != nil {
		return fmt.Errorf("write %s frame: %w", method, err)
	}

	if _, err := readFull(conn, prefix[:]); err != nil {
		return fmt.Errorf("read %s response header: %w", method, err)
	}
	respLen := binary.BigEndian.Uint32(prefix[:])
	if respLen > 1<<20 {
		return fmt.Errorf("read %s response: oversized frame (%d bytes)", method, respLen)
	}
	respBody := make([]byte, respLen)
	if _, err := readFull(conn, respBody); err != nil {
		return fmt.Errorf("read %s response body: %w", method, err)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !resp.OK {
		return fmt.Errorf("%s: unit error: %s", method, resp.Error)
	}
	if out != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (c *client) GetAllScenesInformation(ctx context.Context, unit Unit) ([]SceneInfo, error) {
	var scenes []SceneInfo
	err := c.call(ctx, unit, "scene.getAll", nil, &scenes)
	return scenes, err
}

func (c *client) GetSceneInformation(ctx context.Context, unit Unit, sceneIndex int) (*SceneDetail, error) {
	var detail SceneDetail
	params := map[string]int{"sceneIndex": sceneIndex}
	if err := c.call(ctx, unit, "scene.get", params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *client) SetupScene(ctx context.Context, unit Unit, payload ScenePayload) error {
	return c.call(ctx, unit, "scene.setup", payload, nil)
}

func (c *client) TriggerScene(ctx context.Context, unit Unit, address int) error {
	return c.call(ctx, unit, "scene.trigger", map[string]int{"address": address}, nil)
}

func (c *client) DeleteScene(ctx context.Context, unit Unit, address int) error {
	return c.call(ctx, unit, "scene.delete", map[string]int{"address": address}, nil)
}

func (c *client) GetAllSchedulesInformation(ctx context.Context, unit Unit) ([]ScheduleInfo, error) {
	var schedules []ScheduleInfo
	err := c.call(ctx, unit, "schedule.getAll", nil, &schedules)
	return schedules, err
}

func (c *client) SendSchedule(ctx context.Context, unit Unit, payload SchedulePayload) error {
	return c.call(ctx, unit, "schedule.send", payload, nil)
}

func (c *client) GetCurtainConfig(ctx context.Context, unit Unit, curtainIndex *int) ([]CurtainInfo, error) {
	var curtains []CurtainInfo
	params := map[string]interface{}{"curtainIndex": curtainIndex}
	err := c.call(ctx, unit, "curtain.getConfig", params, &curtains)
	return curtains, err
}

func (c *client) SetupCurtain(ctx context.Context, unit Unit, payload CurtainPayload) error {
	return c.call(ctx, unit, "curtain.setup", payload, nil)
}

func (c *client) SetCurtain(ctx context.Context, unit Unit, address, value int) error {
	return c.call(ctx, unit, "curtain.set", map[string]int{"address": address, "value": value}, nil)
}

func (c *client) DeleteCurtain(ctx context.Context, unit Unit, address int) error {
	return c.call(ctx, unit, "curtain.delete", map[string]int{"address": address}, nil)
}

func (c *client) DeleteAllCurtains(ctx context.Context, unit Unit) error {
	return c.call(ctx, unit, "curtain.deleteAll", nil, nil)
}

func (c *client) GetKnxConfig(ctx context.Context, unit Unit, knxAddress *int) ([]KnxInfo, error) {
	var configs []KnxInfo
	params := map[string]interface{}{"knxAddress": knxAddress}
	err := c.call(ctx, unit, "knx.getConfig", params, &configs)
	return configs, err
}

func (c *client) SetupKnx(ctx context.Context, unit Unit, payload KnxPayload) error {
	return c.call(ctx, unit, "knx.setup", payload, nil)
}

func (c *client) TriggerKnx(ctx context.Context, unit Unit, address int) error {
	return c.call(ctx, unit, "knx.trigger", map[string]int{"address": address}, nil)
}

func (c *client) DeleteKnxConfig(ctx context.Context, unit Unit, address int) error {
	return c.call(ctx, unit, "knx.delete", map[string]int{"address": address}, nil)
}

func (c *client) DeleteAllKnxConfigs(ctx context.Context, unit Unit) error {
	return c.call(ctx, unit, "knx.deleteAll", nil, nil)
}

func (c *client) GetAllMultiScenesInformation(ctx context.Context, unit Unit) ([]MultiSceneInfo, error) {
	var multiScenes []MultiSceneInfo
	err := c.call(ctx, unit, "multiScene.getAll", nil, &multiScenes)
	return multiScenes, err
}

func (c *client) SetupMultiScene(ctx context.Context, unit Unit, payload MultiScenePayload) error {
	return c.call(ctx, unit, "multiScene.setup", payload, nil)
}

func (c *client) GetAllSequencesInformation(ctx context.Context, unit Unit) ([]SequenceInfo, error) {
	var sequences []SequenceInfo
	err := c.call(ctx, unit, "sequence.getAll", nil, &sequences)
	return sequences, err
}

func (c *client) SetupSequence(ctx context.Context, unit Unit, payload SequencePayload) error {
	return c.call(ctx, unit, "sequence.setup", payload, nil)
}

func (c *client) TriggerSequence(ctx context.Context, unit Unit, address int) error {
	return c.call(ctx, unit, "sequence.trigger", map[string]int{"address": address}, nil)
}

func (c *client) SendAddressMapping(ctx context.Context, unit Unit, mapping []int) error {
	return c.call(ctx, unit, "dali.sendAddressMapping", map[string]interface{}{"mapping": mapping}, nil)
}

func (c *client) SendMappingRCU(ctx context.Context, unit Unit, frame []byte) error {
	return c.call(ctx, unit, "dali.sendMappingRCU", map[string]interface{}{"frame": frame}, nil)
}

func (c *client) SendGroupSceneConfig(ctx context.Context, unit Unit, cfg GroupSceneConfig) error {
	return c.call(ctx, unit, "dali.sendGroupSceneConfig", cfg, nil)
}

func (c *client) SendDeleteAddress(ctx context.Context, unit Unit, address int) error {
	return c.call(ctx, unit, "dali.deleteAddress", map[string]int{"address": address}, nil)
}

func (c *client) ResetAllConfig(ctx context.Context, unit Unit) error {
	return c.call(ctx, unit, "dali.resetAllConfig", nil, nil)
}

func (c *client) GetRoomConfiguration(ctx context.Context, unit Unit) (*RoomConfiguration, error) {
	var cfg RoomConfiguration
	if err := c.call(ctx, unit, "room.getConfiguration", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *client) GetRoomStatus(ctx context.Context, unit Unit, room int) (*RoomStatus, error) {
	var status RoomStatus
	if err := c.call(ctx, unit, "room.getStatus", map[string]int{"room": room}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *client) SetRoomStatus(ctx context.Context, unit Unit, status RoomStatus) error {
	return c.call(ctx, unit, "room.setStatus", status, nil)
}
