package maps

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wricardo/hashfront-movement/game/movement"
)

func createValidMap() *MapConfig {
	return &MapConfig{
		Name:        "Test Map",
		Description: "Test map",
		Layout: []string{
			"..R..",
			".MRM.",
			"RRRRR",
		},
		Units: []UnitPlacement{
			{ID: "t1", Class: movement.Tank, Player: 1, X: 2, Y: 0},
			{ID: "r1", Class: movement.Rifle, Player: 2, X: 1, Y: 1},
		},
	}
}

func writeMapFile(t *testing.T, dir, id string, cfg any) {
	t.Helper()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), data, 0644))
}

func TestValidateMap(t *testing.T) {
	require.NoError(t, ValidateMap(createValidMap()))

	tests := []struct {
		name    string
		mutate  func(m *MapConfig)
		message string
	}{
		{"missing name", func(m *MapConfig) { m.Name = "" }, "name is required"},
		{"no layout", func(m *MapConfig) { m.Layout = nil }, "between 1 and 64 rows"},
		{"ragged layout", func(m *MapConfig) { m.Layout[1] = ".M" }, "row 1"},
		{"bad char", func(m *MapConfig) { m.Layout[0] = "..Z.." }, "unknown tile char"},
		{"unit without id", func(m *MapConfig) { m.Units[0].ID = "" }, "has no id"},
		{"duplicate id", func(m *MapConfig) { m.Units[1].ID = "t1" }, "duplicate unit id"},
		{"unit off map", func(m *MapConfig) { m.Units[0].X = 9 }, "outside"},
		{"tank on mountain", func(m *MapConfig) { m.Units[0].X, m.Units[0].Y = 1, 1; m.Units[1].X = 0 }, "cannot stand on mountain"},
		{"shared tile", func(m *MapConfig) { m.Units[1].X, m.Units[1].Y = 2, 0 }, "share"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := createValidMap()
			tt.mutate(m)
			require.ErrorContains(t, ValidateMap(m), tt.message)
		})
	}

	require.Error(t, ValidateMap(nil))

	wide := createValidMap()
	wide.Units = nil
	wide.Layout = []string{strings.Repeat(".", 65)}
	require.ErrorContains(t, ValidateMap(wide), "at most 64 columns")
}

func TestNewManager(t *testing.T) {
	dir := t.TempDir()
	writeMapFile(t, dir, DefaultMapName, createValidMap())

	manager, err := NewManager(dir)
	require.NoError(t, err)
	require.Equal(t, "Test Map", manager.GetDefault().Name)

	_, err = NewManager(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestNewManager_FallbackDefaults(t *testing.T) {
	empty := t.TempDir()
	manager, err := NewManager(empty)
	require.NoError(t, err)
	require.Equal(t, "default", manager.GetDefault().Name)
	require.NoError(t, ValidateMap(manager.GetDefault()))

	other := t.TempDir()
	cfg := createValidMap()
	cfg.Name = "Other"
	writeMapFile(t, other, "other", cfg)
	manager, err = NewManager(other)
	require.NoError(t, err)
	require.Equal(t, "Other", manager.GetDefault().Name)
}

func TestManager_LoadMap(t *testing.T) {
	dir := t.TempDir()
	writeMapFile(t, dir, "valid", createValidMap())
	writeMapFile(t, dir, "invalid", &MapConfig{Name: "Broken", Layout: []string{"..", "."}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("{"), 0644))

	manager, err := NewManager(dir)
	require.NoError(t, err)

	cfg, err := manager.LoadMap("valid")
	require.NoError(t, err)
	require.Equal(t, "Test Map", cfg.Name)

	cached, err := manager.LoadMap("valid.json")
	require.NoError(t, err)
	require.Same(t, cfg, cached)

	_, err = manager.LoadMap("missing")
	require.True(t, errors.Is(err, ErrMapNotFound))

	_, err = manager.LoadMap("../valid")
	require.True(t, errors.Is(err, ErrMapNotFound))

	_, err = manager.LoadMap("invalid")
	require.True(t, errors.Is(err, ErrInvalidMap))

	_, err = manager.LoadMap("garbage")
	require.True(t, errors.Is(err, ErrInvalidMap))
}

func TestManager_ListMaps(t *testing.T) {
	dir := t.TempDir()
	writeMapFile(t, dir, "bravo", createValidMap())
	alpha := createValidMap()
	alpha.Name = "Alpha"
	alpha.Units = nil
	writeMapFile(t, dir, "alpha", alpha)
	writeMapFile(t, dir, "broken", &MapConfig{Name: "Broken"})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.json"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	manager, err := NewManager(dir)
	require.NoError(t, err)

	infos, err := manager.ListMaps()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, "alpha", infos[0].MapID)
	require.Equal(t, "bravo", infos[1].MapID)
	require.Equal(t, "bravo.json", infos[1].Filename)
	require.Equal(t, 5, infos[1].Width)
	require.Equal(t, 3, infos[1].Height)
	require.Equal(t, 2, infos[1].Units)
	require.Equal(t, 0, infos[0].Units)
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	cfg := createValidMap()
	writeMapFile(t, dir, "cached", cfg)
	manager, err := NewManager(dir)
	require.NoError(t, err)

	first, err := manager.LoadMap("cached")
	require.NoError(t, err)
	require.Equal(t, cfg.Layout, first.Layout)

	cfg.Description = "edited on disk"
	writeMapFile(t, dir, "cached", cfg)

	cached, err := manager.LoadMap("cached")
	require.NoError(t, err)
	require.Same(t, first, cached)

	require.NoError(t, manager.RefreshCache())
	reloaded, err := manager.LoadMap("cached")
	require.NoError(t, err)
	require.NotSame(t, first, reloaded)
	require.Equal(t, "edited on disk", reloaded.Description)
	require.Equal(t, cfg.Units, reloaded.Units)
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeMapFile(t, dir, "one", createValidMap())
	manager, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, manager.SetDefault("one"))
	require.Equal(t, "Test Map", manager.GetDefault().Name)
	require.Error(t, manager.SetDefault("missing"))
}

func TestManager_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeMapFile(t, dir, "shared", createValidMap())
	manager, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadMap("shared"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent load failed: %v", err)
	}
}

func TestShippedMapsAreValid(t *testing.T) {
	dir := filepath.Join("..", "..", "configs", "maps")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Skip("Skipping test - configs/maps directory not found")
	}

	manager, err := NewManager(dir)
	require.NoError(t, err)

	infos, err := manager.ListMaps()
	require.NoError(t, err)
	require.NotEmpty(t, infos)
	require.Equal(t, "Crossroads", manager.GetDefault().Name)
}
