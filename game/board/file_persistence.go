package board

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/hashfront-movement/game/service"
)

// FilePersistence implements BoardPersistence using file system storage
type FilePersistence struct {
	boardsDir string
}

// NewFilePersistence creates a new file-based board persistence layer
func NewFilePersistence(boardsDir string) (*FilePersistence, error) {
	// Create boards directory if it doesn't exist
	if err := os.MkdirAll(boardsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create boards directory: %w", err)
	}

	return &FilePersistence{boardsDir: boardsDir}, nil
}

// Save persists a board to a JSON file
func (fp *FilePersistence) Save(b *service.Board) error {
	if b == nil {
		return fmt.Errorf("board cannot be nil")
	}

	data := PersistedBoardData{
		ID:             b.ID,
		MapID:          b.MapID,
		Map:            b.Map,
		Units:          b.SortedUnits(),
		CreatedAt:      b.CreatedAt,
		LastAccessedAt: b.LastAccessedAt,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal board data: %w", err)
	}

	if err := os.WriteFile(fp.getFilePath(b.ID), jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write board file: %w", err)
	}

	return nil
}

// Load retrieves a board from a JSON file
func (fp *FilePersistence) Load(id string) (*service.Board, error) {
	jsonData, err := os.ReadFile(fp.getFilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	var data PersistedBoardData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board data: %w", err)
	}

	b, err := service.NewBoard(data.ID, data.MapID, data.Map)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild board %s: %w", id, err)
	}

	// Units on disk replace the map's starting placements
	b.Units = make(map[string]*service.Unit, len(data.Units))
	for i := range data.Units {
		u := data.Units[i]
		if !b.Grid.InBounds(u.Position) {
			return nil, fmt.Errorf("board %s: unit %s at %s is outside the map", id, u.ID, u.Position)
		}
		b.Units[u.ID] = &u
	}
	b.CreatedAt = data.CreatedAt
	b.LastAccessedAt = data.LastAccessedAt

	return b, nil
}

// Delete removes a board file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrBoardNotFound
	}

	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove board file: %w", err)
	}

	return nil
}

// ListAll returns all persisted board IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.boardsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read boards directory: %w", err)
	}

	var boardIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			boardIDs = append(boardIDs, strings.TrimSuffix(name, ".json"))
		}
	}

	return boardIDs, nil
}

// Exists checks if a board file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

// getFilePath returns the full file path for a board ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.boardsDir, fmt.Sprintf("%s.json", strings.ToLower(id)))
}
