package player

import "context"

// PlayerRepository persists player aggregates. Every mutating method runs in a single
// store transaction: it either applies completely or not at all.
type PlayerRepository interface {
	FindByID(ctx context.Context, playerID int) (*Player, error)
	ListAll(ctx context.Context) ([]*Player, error)

	// Create inserts the player and its children and returns the re-read aggregate.
	Create(ctx context.Context, player *Player) (*Player, error)

	// Update rewrites the player's own fields. A nil Statistics or Awards slice leaves
	// the stored collection untouched; a non-nil one replaces it wholesale.
	Update(ctx context.Context, player *Player) (*Player, error)

	// ReplaceStatistics swaps the player's statistics set; awards are not touched.
	ReplaceStatistics(ctx context.Context, playerID int, stats []Statistic) (*Player, error)

	Delete(ctx context.Context, playerID int) error

	// CreateMany inserts players in order within one transaction; the first
	// failure rolls back the whole batch.
	CreateMany(ctx context.Context, players []*Player) ([]*Player, error)

	// DeleteAll wipes statistics, awards and players and returns the number of players removed.
	DeleteAll(ctx context.Context) (int64, error)
}

// DuplicateGuard enforces (name, club) uniqueness ahead of inserts.
// excludeID lets an update keep its own name/club; zero excludes nothing.
type DuplicateGuard interface {
	CheckDuplicate(ctx context.Context, name, club string, excludeID int) error
}
