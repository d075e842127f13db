// Package dali implements DALI address-space reconciliation: computing a
// bijective assignment of the 64 physical slots to device identities,
// pushing it to the unit, and keeping the database's logical view and the
// local scan cache consistent with the new addresses.
package dali

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/database/repositories"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
	"github.com/meokisama/toolkit-engine-sub005/pkg/rcuframe"
)

// Service performs address-mapping reconciliation against one unit.
type Service struct {
	client controller.Client
	repo   *repositories.DaliRepository
	cache  ScanCache
	pacing time.Duration
}

// NewService creates a new reconciliation service.
func NewService(client controller.Client, repo *repositories.DaliRepository, cache ScanCache, pacing time.Duration) *Service {
	return &Service{client: client, repo: repo, cache: cache, pacing: pacing}
}

// ComputeAddressMapping merges a scanned slot→identity observation with the
// database-declared target slots into a full bijective re-assignment of the
// 64 slots.
//
// deviceTracker records the original identity currently at each position;
// swaps move both arrays together so that a later request for an identity
// that an earlier swap already relocated still finds its current slot.
// Identities in the scan must be unique integers, a precondition the caller
// guarantees.
func ComputeAddressMapping(scanned []ScanEntry, rows []models.DaliDevice) []int {
	addressMapping := make([]int, rcuframe.AddressMappingSize)
	deviceTracker := make([]int, rcuframe.AddressMappingSize)
	usedAddresses := make(map[int]bool)
	for i := range addressMapping {
		addressMapping[i] = -1
		deviceTracker[i] = -1
	}

	for _, scan := range scanned {
		if scan.Index < 0 || scan.Index >= rcuframe.AddressMappingSize {
			continue
		}
		addressMapping[scan.Index] = scan.Address
		deviceTracker[scan.Index] = scan.Address
		usedAddresses[scan.Address] = true
	}

	// Fill unscanned slots with the lowest unused identities so the array
	// is a total bijection over 0..63.
	filler := 0
	for i := range addressMapping {
		if addressMapping[i] != -1 {
			continue
		}
		for usedAddresses[filler] {
			filler++
		}
		addressMapping[i] = filler
		deviceTracker[i] = filler
		usedAddresses[filler] = true
	}

	for _, row := range rows {
		if row.MappedDeviceIndex == nil || row.MappedDeviceAddress == nil {
			continue
		}
		target := *row.MappedDeviceIndex
		identity := *row.MappedDeviceAddress
		if target < 0 || target >= rcuframe.AddressMappingSize {
			continue
		}

		// Locate the identity's current slot via the tracker, not any
		// previously computed position: earlier swaps may have moved it.
		current := -1
		for i, tracked := range deviceTracker {
			if tracked == identity {
				current = i
				break
			}
		}
		if current == -1 || current == target {
			continue
		}

		addressMapping[current], addressMapping[target] = addressMapping[target], addressMapping[current]
		deviceTracker[current], deviceTracker[target] = deviceTracker[target], deviceTracker[current]
	}

	return addressMapping
}

// ReconcileAddressMapping computes the new slot assignment for a project,
// pushes it to the unit, and reflects the resulting addresses back into the
// database rows and the cached scan list.
func (s *Service) ReconcileAddressMapping(ctx context.Context, unit controller.Unit, projectID string) ([]int, error) {
	if err := s.repo.EnsureTopology(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to initialize dali topology: %w", err)
	}

	scanned, err := s.cache.Load(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan cache: %w", err)
	}

	rows, err := s.repo.GetDevices(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load device slots: %w", err)
	}

	mapping := ComputeAddressMapping(scanned, rows)
	if _, err := rcuframe.EncodeAddressMapping(mapping); err != nil {
		return nil, fmt.Errorf("computed mapping invalid: %w", err)
	}

	if err := s.client.SendAddressMapping(ctx, unit, mapping); err != nil {
		return nil, fmt.Errorf("failed to send address mapping: %w", err)
	}

	// Reflect new addresses into the database rows that map each slot.
	for slot, address := range mapping {
		for i := range rows {
			if rows[i].MappedDeviceIndex == nil || *rows[i].MappedDeviceIndex != slot {
				continue
			}
			addr := address
			rows[i].MappedDeviceAddress = &addr
			rows[i].MappedDeviceName = fmt.Sprintf("Device %d", address)
			if err := s.repo.UpdateDevice(ctx, &rows[i]); err != nil {
				log.Printf("Warning: failed to update device slot %d: %v", slot, err)
			}
		}
	}

	// Mirror the renaming into the cached scan list for the next open.
	for i := range scanned {
		if scanned[i].Index < 0 || scanned[i].Index >= rcuframe.AddressMappingSize {
			continue
		}
		scanned[i].Address = mapping[scanned[i].Index]
		scanned[i].Name = fmt.Sprintf("Device %d", scanned[i].Address)
	}
	if err := s.cache.Save(projectID, scanned); err != nil {
		log.Printf("Warning: failed to save scan cache: %v", err)
	}

	return mapping, nil
}

// BuildRCUMapping assembles the 80-byte RCU mapping frame: per-slot lighting
// group addresses (scanned values, overwritten by database values where a
// row maps that slot), then the 16 group addresses, defaulting to
// 100+groupID where unset.
func BuildRCUMapping(scanned []ScanEntry, rows []models.DaliDevice, groups []models.DaliGroup) ([]byte, error) {
	var deviceGroups [rcuframe.AddressMappingSize]int
	for _, scan := range scanned {
		if scan.Index < 0 || scan.Index >= rcuframe.AddressMappingSize {
			continue
		}
		deviceGroups[scan.Index] = scan.LightingGroupAddress
	}
	for _, row := range rows {
		if row.MappedDeviceIndex == nil {
			continue
		}
		slot := *row.MappedDeviceIndex
		if slot < 0 || slot >= rcuframe.AddressMappingSize {
			continue
		}
		deviceGroups[slot] = row.LightingGroupAddress
	}

	var groupAddresses [rcuframe.GroupCount]int
	for i := 0; i < rcuframe.GroupCount; i++ {
		groupAddresses[i] = 100 + i
	}
	for _, group := range groups {
		if group.GroupID < 0 || group.GroupID >= rcuframe.GroupCount {
			continue
		}
		if group.LightingGroupAddress != nil {
			groupAddresses[group.GroupID] = *group.LightingGroupAddress
		}
	}

	return rcuframe.EncodeRCUMapping(deviceGroups, groupAddresses)
}

// SendRCUMapping builds and pushes the RCU mapping frame for a project.
func (s *Service) SendRCUMapping(ctx context.Context, unit controller.Unit, projectID string) error {
	if err := s.repo.EnsureTopology(ctx, projectID); err != nil {
		return fmt.Errorf("failed to initialize dali topology: %w", err)
	}

	scanned, err := s.cache.Load(projectID)
	if err != nil {
		return fmt.Errorf("failed to load scan cache: %w", err)
	}
	rows, err := s.repo.GetDevices(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load device slots: %w", err)
	}
	groups, err := s.repo.GetGroups(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}

	frame, err := BuildRCUMapping(scanned, rows, groups)
	if err != nil {
		return err
	}
	return s.client.SendMappingRCU(ctx, unit, frame)
}

// ParseAddressList parses a comma-separated list of addresses and ranges
// (e.g. "5,10,15-20") into a sorted, de-duplicated slice. Every address
// must be within 0-63. Validation happens before any network call.
func ParseAddressList(input string) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := parseAddress(lo)
			if err != nil {
				return nil, err
			}
			end, err := parseAddress(hi)
			if err != nil {
				return nil, err
			}
			if start > end {
				return nil, fmt.Errorf("invalid range %q", part)
			}
			for a := start; a <= end; a++ {
				seen[a] = true
			}
			continue
		}

		address, err := parseAddress(part)
		if err != nil {
			return nil, err
		}
		seen[address] = true
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("no addresses given")
	}

	addresses := make([]int, 0, len(seen))
	for a := range seen {
		addresses = append(addresses, a)
	}
	sort.Ints(addresses)
	return addresses, nil
}

func parseAddress(s string) (int, error) {
	address, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	if address < 0 || address >= rcuframe.AddressMappingSize {
		return 0, fmt.Errorf("address %d out of range 0-%d", address, rcuframe.AddressMappingSize-1)
	}
	return address, nil
}

// DeleteAddresses deletes short addresses on a unit. Mode "all" sends a
// single call with the delete-all sentinel; mode "list" parses the given
// address list and sends one paced call per address.
func (s *Service) DeleteAddresses(ctx context.Context, unit controller.Unit, mode, list string) error {
	if mode == "all" {
		return s.client.SendDeleteAddress(ctx, unit, rcuframe.DeleteAllSentinel)
	}

	addresses, err := ParseAddressList(list)
	if err != nil {
		return err
	}

	for _, address := range addresses {
		if err := s.client.SendDeleteAddress(ctx, unit, address); err != nil {
			return fmt.Errorf("failed to delete address %d: %w", address, err)
		}
		if err := s.pace(ctx); err != nil {
			return err
		}
	}
	return nil
}

// PushGroupSceneConfig sends the DALI group and scene membership tables of a
// project to a unit.
func (s *Service) PushGroupSceneConfig(ctx context.Context, unit controller.Unit, projectID string) error {
	if err := s.repo.EnsureTopology(ctx, projectID); err != nil {
		return fmt.Errorf("failed to initialize dali topology: %w", err)
	}

	devices, err := s.repo.GetDevices(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load device slots: %w", err)
	}
	slotByID := make(map[string]int, len(devices))
	for _, device := range devices {
		slotByID[device.ID] = device.Address
	}

	var cfg controller.GroupSceneConfig

	groups, err := s.repo.GetGroups(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}
	for _, group := range groups {
		if group.GroupID < 0 || group.GroupID >= rcuframe.GroupCount {
			continue
		}
		links, err := s.repo.GetGroupDevices(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("failed to load group %d devices: %w", group.GroupID, err)
		}
		for _, link := range links {
			if slot, ok := slotByID[link.DeviceID]; ok {
				cfg.Groups[group.GroupID] = append(cfg.Groups[group.GroupID], slot)
			}
		}
	}

	scenes, err := s.repo.GetScenes(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load scenes: %w", err)
	}
	for _, scene := range scenes {
		if scene.SceneID < 0 || scene.SceneID >= rcuframe.GroupCount {
			continue
		}
		links, err := s.repo.GetSceneDevices(ctx, scene.ID)
		if err != nil {
			return fmt.Errorf("failed to load scene %d devices: %w", scene.SceneID, err)
		}
		for _, link := range links {
			if slot, ok := slotByID[link.DeviceID]; ok {
				cfg.Scenes[scene.SceneID] = append(cfg.Scenes[scene.SceneID], slot)
			}
		}
	}

	return s.client.SendGroupSceneConfig(ctx, unit, cfg)
}

// pace waits the configured inter-call spacing, or returns early when the
// context is canceled.
func (s *Service) pace(ctx context.Context) error {
	if s.pacing <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.pacing):
		return nil
	}
}
