package board

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/hashfront-movement/game/maps"
	"github.com/wricardo/hashfront-movement/game/service"
)

var (
	ErrBoardNotFound      = errors.New("board not found")
	ErrBoardAlreadyExists = errors.New("board already exists")
	ErrInvalidBoardID     = errors.New("invalid board ID")
)

// Manager handles board lifecycle
type Manager struct {
	boards      map[string]*service.Board
	persistence BoardPersistence
	mu          sync.RWMutex
}

// NewManager creates a new in-memory board manager
func NewManager() *Manager {
	return &Manager{
		boards: make(map[string]*service.Board),
	}
}

// NewManagerWithPersistence creates a new board manager with persistence
func NewManagerWithPersistence(persistence BoardPersistence) *Manager {
	return &Manager{
		boards:      make(map[string]*service.Board),
		persistence: persistence,
	}
}

// Create creates a new board with the given ID from a map
func (m *Manager) Create(id, mapID string, cfg *maps.MapConfig) (*service.Board, error) {
	if strings.ContainsAny(id, `/\ `) {
		return nil, ErrInvalidBoardID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateBoardID()
	}

	if _, exists := m.boards[strings.ToLower(id)]; exists {
		return nil, ErrBoardAlreadyExists
	}

	b, err := service.NewBoard(id, mapID, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	m.boards[strings.ToLower(id)] = b

	// Auto-save if persistence is enabled
	if m.persistence != nil {
		if err := m.persistence.Save(b); err != nil {
			log.Printf("Warning: Failed to persist board %s: %v", id, err)
		}
	}

	return b, nil
}

// Get retrieves a board by ID (case-insensitive), falling back to persistence
func (m *Manager) Get(id string) (*service.Board, error) {
	m.mu.RLock()
	b, exists := m.boards[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return b, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		b, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted board: %w", err)
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		// Another caller may have loaded it first
		if existing, ok := m.boards[strings.ToLower(id)]; ok {
			return existing, nil
		}
		m.boards[strings.ToLower(id)] = b
		return b, nil
	}

	return nil, ErrBoardNotFound
}

// List returns all boards in memory
func (m *Manager) List() []*service.Board {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Board, 0, len(m.boards))
	for _, b := range m.boards {
		result = append(result, b)
	}

	return result
}

// Delete removes a board from memory and persistence
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	_, inMemory := m.boards[lowerID]
	delete(m.boards, lowerID)

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted board: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrBoardNotFound
	}

	return nil
}

// DeleteFromMemory removes a board from memory only (not from persistence)
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.boards[lowerID]; !exists {
		return ErrBoardNotFound
	}

	delete(m.boards, lowerID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a board
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, exists := m.boards[strings.ToLower(id)]
	if !exists {
		return ErrBoardNotFound
	}

	b.LastAccessedAt = time.Now()
	return nil
}

// Save saves a specific board to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	m.mu.RLock()
	b, exists := m.boards[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrBoardNotFound
	}

	if err := m.persistence.Save(b); err != nil {
		log.Printf("Warning: Failed to persist board %s: %v", id, err)
		return err
	}
	return nil
}

// CleanupExpiredBoards removes in-memory boards that haven't been accessed in
// the given duration. Persisted copies are kept and reload on demand.
func (m *Manager) CleanupExpiredBoards(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, b := range m.boards {
		if b.LastAccessedAt.Before(cutoff) {
			delete(m.boards, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of boards in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.boards)
}

// LoadPersistedBoards loads all persisted boards into memory
func (m *Manager) LoadPersistedBoards() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	boardIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted boards: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loadedCount := 0
	for _, id := range boardIDs {
		if _, exists := m.boards[strings.ToLower(id)]; exists {
			continue
		}

		b, err := m.persistence.Load(id)
		if err != nil {
			log.Printf("Warning: Failed to load persisted board %s: %v", id, err)
			continue
		}

		m.boards[strings.ToLower(id)] = b
		loadedCount++
	}

	if loadedCount > 0 {
		log.Printf("Loaded %d persisted boards from storage", loadedCount)
	}

	return nil
}

// generateBoardID returns an unused 8-character ID. Callers hold m.mu.
func (m *Manager) generateBoardID() string {
	for {
		id := strings.SplitN(uuid.NewString(), "-", 2)[0]
		if _, exists := m.boards[id]; !exists {
			return id
		}
	}
}
