package dali

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ScanEntry is one device observed during a bus scan: the physical slot it
// occupied and the identity found there.
type ScanEntry struct {
	Index                int    `json:"index"`   // physical slot
	Address              int    `json:"address"` // device identity
	Name                 string `json:"name"`
	Type                 string `json:"type"`
	LightingGroupAddress int    `json:"lightingGroupAddress"`
	ColorFeature         string `json:"colorFeature,omitempty"`
}

// ScanCache stores the per-project scanned-device list between sessions.
type ScanCache interface {
	Load(projectID string) ([]ScanEntry, error)
	Save(projectID string, entries []ScanEntry) error
}

// FileScanCache persists scan lists as one JSON file per project.
type FileScanCache struct {
	dir string
}

// NewFileScanCache creates a scan cache rooted at dir.
func NewFileScanCache(dir string) *FileScanCache {
	return &FileScanCache{dir: dir}
}

func (c *FileScanCache) path(projectID string) string {
	return filepath.Join(c.dir, projectID+".json")
}

// Load returns the cached scan list for a project, or an empty list when no
// scan has been cached yet.
func (c *FileScanCache) Load(projectID string) ([]ScanEntry, error) {
	data, err := os.ReadFile(c.path(projectID))
	if err != nil {
		if os.IsNotExist(err) {
			return []ScanEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read scan cache: %w", err)
	}
	var entries []ScanEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse scan cache: %w", err)
	}
	return entries, nil
}

// Save writes the scan list for a project.
func (c *FileScanCache) Save(projectID string, entries []ScanEntry) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create scan cache directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scan cache: %w", err)
	}
	return os.WriteFile(c.path(projectID), data, 0644)
}

// MemoryScanCache is an in-memory ScanCache for tests.
type MemoryScanCache struct {
	entries map[string][]ScanEntry
}

// NewMemoryScanCache creates an empty in-memory cache.
func NewMemoryScanCache() *MemoryScanCache {
	return &MemoryScanCache{entries: make(map[string][]ScanEntry)}
}

// Load returns the cached entries for a project.
func (c *MemoryScanCache) Load(projectID string) ([]ScanEntry, error) {
	return c.entries[projectID], nil
}

// Save stores the entries for a project.
func (c *MemoryScanCache) Save(projectID string, entries []ScanEntry) error {
	c.entries[projectID] = entries
	return nil
}
