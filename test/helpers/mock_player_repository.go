package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/player-soap-service/internal/domain/player"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

// MockPlayerRepository is an in-memory test double for PlayerRepository.
// Every method is all-or-nothing: a failing call leaves the map untouched.
type MockPlayerRepository struct {
	mu      sync.RWMutex
	players map[int]*player.Player
	nextID  int

	// FailWith, when set, is returned by every mutating method
	FailWith error
	Calls    []string
}

// NewMockPlayerRepository creates a new mock player repository
func NewMockPlayerRepository() *MockPlayerRepository {
	return &MockPlayerRepository{
		players: make(map[int]*player.Player),
		nextID:  1,
	}
}

// AddPlayer stores a copy of p, assigning an id when it has none
func (m *MockPlayerRepository) AddPlayer(p *player.Player) *player.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(p)
}

// FindByID retrieves a player by ID
func (m *MockPlayerRepository) FindByID(ctx context.Context, playerID int) (*player.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.players[playerID]
	if !ok {
		return nil, shared.NewNotFoundError("Player", playerID)
	}
	return clonePlayer(p), nil
}

// ListAll returns every stored player ordered by id
func (m *MockPlayerRepository) ListAll(ctx context.Context) ([]*player.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	players := make([]*player.Player, 0, len(m.players))
	for id := 1; id < m.nextID; id++ {
		if p, ok := m.players[id]; ok {
			players = append(players, clonePlayer(p))
		}
	}
	return players, nil
}

// Create stores a new player
func (m *MockPlayerRepository) Create(ctx context.Context, p *player.Player) (*player.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "Create")

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if err := m.checkDuplicate(p.Name, p.Club, 0, nil); err != nil {
		return nil, err
	}
	return m.insert(p), nil
}

// Update rewrites a stored player
func (m *MockPlayerRepository) Update(ctx context.Context, p *player.Player) (*player.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "Update")

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	existing, ok := m.players[p.ID]
	if !ok {
		return nil, shared.NewNotFoundError("Player", p.ID)
	}
	if err := m.checkDuplicate(p.Name, p.Club, p.ID, nil); err != nil {
		return nil, err
	}

	updated := clonePlayer(p)
	updated.CreatedAt = existing.CreatedAt
	if p.Statistics == nil {
		updated.Statistics = existing.Statistics
	}
	if p.Awards == nil {
		updated.Awards = existing.Awards
	}
	m.players[p.ID] = updated
	return clonePlayer(updated), nil
}

// ReplaceStatistics swaps the statistics of a stored player
func (m *MockPlayerRepository) ReplaceStatistics(ctx context.Context, playerID int, stats []player.Statistic) (*player.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "ReplaceStatistics")

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	p, ok := m.players[playerID]
	if !ok {
		return nil, shared.NewNotFoundError("Player", playerID)
	}
	p.Statistics = append([]player.Statistic{}, stats...)
	return clonePlayer(p), nil
}

// Delete removes a stored player
func (m *MockPlayerRepository) Delete(ctx context.Context, playerID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "Delete")

	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.players[playerID]; !ok {
		return shared.NewNotFoundError("Player", playerID)
	}
	delete(m.players, playerID)
	return nil
}

// CreateMany stores every player or none of them
func (m *MockPlayerRepository) CreateMany(ctx context.Context, players []*player.Player) ([]*player.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "CreateMany")

	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var pending []*player.Player
	for _, p := range players {
		if err := m.checkDuplicate(p.Name, p.Club, 0, pending); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}

	created := make([]*player.Player, 0, len(players))
	for _, p := range players {
		created = append(created, m.insert(p))
	}
	return created, nil
}

// DeleteAll empties the repository
func (m *MockPlayerRepository) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "DeleteAll")

	if m.FailWith != nil {
		return 0, m.FailWith
	}
	count := int64(len(m.players))
	m.players = make(map[int]*player.Player)
	return count, nil
}

// Count returns the number of stored players
func (m *MockPlayerRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

func (m *MockPlayerRepository) insert(p *player.Player) *player.Player {
	stored := clonePlayer(p)
	if stored.ID == 0 {
		stored.ID = m.nextID
	}
	if stored.ID >= m.nextID {
		m.nextID = stored.ID + 1
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	m.players[stored.ID] = stored
	return clonePlayer(stored)
}

func (m *MockPlayerRepository) checkDuplicate(name, club string, excludeID int, pending []*player.Player) error {
	for id, p := range m.players {
		if id != excludeID && p.Name == name && p.Club == club {
			return shared.NewConflictError(name, club)
		}
	}
	for _, p := range pending {
		if p.Name == name && p.Club == club {
			return shared.NewConflictError(name, club)
		}
	}
	return nil
}

func clonePlayer(p *player.Player) *player.Player {
	c := *p
	c.Statistics = append([]player.Statistic{}, p.Statistics...)
	c.Awards = append([]player.Award{}, p.Awards...)
	return &c
}
