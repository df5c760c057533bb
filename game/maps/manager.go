package maps

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	ErrMapNotFound = errors.New("map not found")
	ErrInvalidMap  = errors.New("invalid map")
)

// DefaultMapName is loaded as the default map when present
const DefaultMapName = "crossroads"

// MapInfo summarizes a map file
type MapInfo struct {
	Filename    string `json:"filename"`
	MapID       string `json:"map_id"` // identifier to use in API calls
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Units       int    `json:"units"`
}

// Manager handles map loading and caching
type Manager struct {
	mapDir     string
	defaultMap *MapConfig
	maps       map[string]*MapConfig
	mu         sync.RWMutex
}

// NewManager creates a new map manager
func NewManager(mapDir string) (*Manager, error) {
	if _, err := os.Stat(mapDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("map directory does not exist: %s", mapDir)
	}

	m := &Manager{
		mapDir: mapDir,
		maps:   make(map[string]*MapConfig),
	}

	if err := m.loadDefaultMap(); err != nil {
		return nil, fmt.Errorf("failed to load default map: %w", err)
	}

	return m, nil
}

// LoadMap loads a map by id (file name without extension)
func (m *Manager) LoadMap(id string) (*MapConfig, error) {
	id = strings.TrimSuffix(id, ".json")
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, ErrMapNotFound
	}

	m.mu.RLock()
	if cfg, exists := m.maps[id]; exists {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cfg, exists := m.maps[id]; exists {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Join(m.mapDir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	var cfg MapConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse map: %v", ErrInvalidMap, err)
	}

	if err := ValidateMap(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	m.maps[id] = &cfg
	return &cfg, nil
}

// ListMaps returns information about all loadable maps, sorted by id.
// Files that fail to load are skipped.
func (m *Manager) ListMaps() ([]*MapInfo, error) {
	entries, err := os.ReadDir(m.mapDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read map directory: %w", err)
	}

	var infos []*MapInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		cfg, err := m.LoadMap(id)
		if err != nil {
			continue
		}

		grid, err := cfg.Grid()
		if err != nil {
			continue
		}

		infos = append(infos, &MapInfo{
			Filename:    entry.Name(),
			MapID:       id,
			Name:        cfg.Name,
			Description: cfg.Description,
			Width:       grid.Width,
			Height:      grid.Height,
			Units:       len(cfg.Units),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].MapID < infos[j].MapID })
	return infos, nil
}

// GetDefault returns the default map
func (m *Manager) GetDefault() *MapConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultMap
}

// SetDefault sets the default map by id
func (m *Manager) SetDefault(id string) error {
	cfg, err := m.LoadMap(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultMap = cfg
	return nil
}

// RefreshCache drops cached maps and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.maps = make(map[string]*MapConfig)
	m.mu.Unlock()

	return m.loadDefaultMap()
}

// loadDefaultMap loads DefaultMapName, falling back to the first loadable map
// and finally to a built-in open field.
func (m *Manager) loadDefaultMap() error {
	cfg, err := m.LoadMap(DefaultMapName)
	if err != nil {
		infos, listErr := m.ListMaps()
		if listErr != nil || len(infos) == 0 {
			m.setDefault(createMinimalMap())
			return nil
		}

		cfg, err = m.LoadMap(infos[0].MapID)
		if err != nil {
			m.setDefault(createMinimalMap())
			return nil
		}
	}

	m.setDefault(cfg)
	return nil
}

func (m *Manager) setDefault(cfg *MapConfig) {
	m.mu.Lock()
	m.defaultMap = cfg
	m.mu.Unlock()
}

// createMinimalMap creates a minimal valid map
func createMinimalMap() *MapConfig {
	return &MapConfig{
		Name:        "default",
		Description: "Open field with a single road",
		Layout: []string{
			".....",
			".....",
			"RRRRR",
			".....",
			".....",
		},
	}
}
