package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/player-soap-service/internal/domain/player"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

// defaultBatchSize bounds the rows sent in one INSERT when writing child collections
const defaultBatchSize = 100

// GormPlayerRepository implements PlayerRepository using GORM.
// Each mutating method runs inside one db.Transaction; returning an error from the
// closure rolls back every write made so far.
type GormPlayerRepository struct {
	db        *gorm.DB
	guard     *GormDuplicateGuard
	batchSize int
}

// NewGormPlayerRepository creates a new GORM player repository
func NewGormPlayerRepository(db *gorm.DB) *GormPlayerRepository {
	return &GormPlayerRepository{
		db:        db,
		guard:     NewGormDuplicateGuard(db),
		batchSize: defaultBatchSize,
	}
}

// FindByID retrieves the full aggregate for a player
func (r *GormPlayerRepository) FindByID(ctx context.Context, playerID int) (*player.Player, error) {
	model, err := r.loadAggregate(r.db.WithContext(ctx), playerID)
	if err != nil {
		return nil, err
	}
	return modelToPlayer(model), nil
}

// ListAll retrieves every player with its statistics and awards
func (r *GormPlayerRepository) ListAll(ctx context.Context) ([]*player.Player, error) {
	var models []PlayerModel
	result := withChildren(r.db.WithContext(ctx)).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list players: %w", result.Error)
	}

	players := make([]*player.Player, 0, len(models))
	for i := range models {
		players = append(players, modelToPlayer(&models[i]))
	}
	return players, nil
}

// Create inserts the player row, then its statistics and awards, then re-reads the aggregate
func (r *GormPlayerRepository) Create(ctx context.Context, p *player.Player) (*player.Player, error) {
	var created *PlayerModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := r.insertAggregate(tx, p)
		if err != nil {
			return err
		}
		created = model
		return nil
	})
	if err != nil {
		return nil, err
	}
	return modelToPlayer(created), nil
}

// Update rewrites the player's fields and replaces any supplied child collection
func (r *GormPlayerRepository) Update(ctx context.Context, p *player.Player) (*player.Player, error) {
	var updated *PlayerModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensureExists(tx, p.ID); err != nil {
			return err
		}
		if err := r.guard.check(tx, p.Name, p.Club, p.ID); err != nil {
			return err
		}

		result := tx.Model(&PlayerModel{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":      p.Name,
			"country":   p.Country,
			"club":      p.Club,
			"position":  string(p.Position),
			"age":       p.Age,
			"is_active": p.IsActive,
		})
		if result.Error != nil {
			return translateWriteError(result.Error, p.Name, p.Club)
		}

		if p.Statistics != nil {
			if err := r.replaceStatistics(tx, p.ID, p.Statistics); err != nil {
				return err
			}
		}
		if p.Awards != nil {
			if err := r.replaceAwards(tx, p.ID, p.Awards); err != nil {
				return err
			}
		}

		model, err := r.loadAggregate(tx, p.ID)
		if err != nil {
			return err
		}
		updated = model
		return nil
	})
	if err != nil {
		return nil, err
	}
	return modelToPlayer(updated), nil
}

// ReplaceStatistics deletes every statistic the player owns and inserts stats in their place
func (r *GormPlayerRepository) ReplaceStatistics(ctx context.Context, playerID int, stats []player.Statistic) (*player.Player, error) {
	var updated *PlayerModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensureExists(tx, playerID); err != nil {
			return err
		}
		if err := r.replaceStatistics(tx, playerID, stats); err != nil {
			return err
		}

		model, err := r.loadAggregate(tx, playerID)
		if err != nil {
			return err
		}
		updated = model
		return nil
	})
	if err != nil {
		return nil, err
	}
	return modelToPlayer(updated), nil
}

// Delete removes awards, statistics and finally the player row.
// Existence is inferred from the player delete's affected rows.
func (r *GormPlayerRepository) Delete(ctx context.Context, playerID int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", playerID).Delete(&AwardModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete awards: %w", err)
		}
		if err := tx.Where("player_id = ?", playerID).Delete(&StatisticModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete statistics: %w", err)
		}

		result := tx.Where("id = ?", playerID).Delete(&PlayerModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete player: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("Player", playerID)
		}
		return nil
	})
}

// CreateMany inserts players strictly in order inside one transaction.
// Duplicates within the batch itself are caught because each guard check sees
// the rows inserted before it.
func (r *GormPlayerRepository) CreateMany(ctx context.Context, players []*player.Player) ([]*player.Player, error) {
	created := make([]*player.Player, 0, len(players))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range players {
			model, err := r.insertAggregate(tx, p)
			if err != nil {
				return err
			}
			created = append(created, modelToPlayer(model))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteAll wipes all three tables in FK-safe order: statistics, awards, players
func (r *GormPlayerRepository) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

		if err := wipe.Delete(&StatisticModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete statistics: %w", err)
		}
		if err := wipe.Delete(&AwardModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete awards: %w", err)
		}

		result := wipe.Delete(&PlayerModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete players: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// insertAggregate runs the duplicate guard, writes parent and children, and re-reads
func (r *GormPlayerRepository) insertAggregate(tx *gorm.DB, p *player.Player) (*PlayerModel, error) {
	if err := r.guard.check(tx, p.Name, p.Club, 0); err != nil {
		return nil, err
	}

	model := playerToModel(p)
	if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
		return nil, translateWriteError(err, p.Name, p.Club)
	}

	if err := r.insertStatistics(tx, model.ID, p.Statistics); err != nil {
		return nil, err
	}
	if err := r.insertAwards(tx, model.ID, p.Awards); err != nil {
		return nil, err
	}

	return r.loadAggregate(tx, model.ID)
}

func (r *GormPlayerRepository) replaceStatistics(tx *gorm.DB, playerID int, stats []player.Statistic) error {
	if err := tx.Where("player_id = ?", playerID).Delete(&StatisticModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete statistics: %w", err)
	}
	return r.insertStatistics(tx, playerID, stats)
}

func (r *GormPlayerRepository) replaceAwards(tx *gorm.DB, playerID int, awards []player.Award) error {
	if err := tx.Where("player_id = ?", playerID).Delete(&AwardModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete awards: %w", err)
	}
	return r.insertAwards(tx, playerID, awards)
}

func (r *GormPlayerRepository) insertStatistics(tx *gorm.DB, playerID int, stats []player.Statistic) error {
	if len(stats) == 0 {
		return nil
	}
	models := make([]StatisticModel, 0, len(stats))
	for _, s := range stats {
		models = append(models, statisticToModel(playerID, s))
	}
	if err := tx.Omit(clause.Associations).CreateInBatches(&models, r.batchSize).Error; err != nil {
		return fmt.Errorf("failed to insert statistics: %w", err)
	}
	return nil
}

func (r *GormPlayerRepository) insertAwards(tx *gorm.DB, playerID int, awards []player.Award) error {
	if len(awards) == 0 {
		return nil
	}
	models := make([]AwardModel, 0, len(awards))
	for _, a := range awards {
		models = append(models, awardToModel(playerID, a))
	}
	if err := tx.Omit(clause.Associations).CreateInBatches(&models, r.batchSize).Error; err != nil {
		return fmt.Errorf("failed to insert awards: %w", err)
	}
	return nil
}

func (r *GormPlayerRepository) ensureExists(tx *gorm.DB, playerID int) error {
	var count int64
	if err := tx.Model(&PlayerModel{}).Where("id = ?", playerID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check player: %w", err)
	}
	if count == 0 {
		return shared.NewNotFoundError("Player", playerID)
	}
	return nil
}

func (r *GormPlayerRepository) loadAggregate(tx *gorm.DB, playerID int) (*PlayerModel, error) {
	var model PlayerModel
	result := withChildren(tx).Where("id = ?", playerID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Player", playerID)
		}
		return nil, fmt.Errorf("failed to find player: %w", result.Error)
	}
	return &model, nil
}

// withChildren preloads both owned collections in insertion order
func withChildren(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Statistics", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Awards", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// translateWriteError maps store constraint violations onto domain errors
func translateWriteError(err error, name, club string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewConflictError(name, club)
	}
	return fmt.Errorf("failed to write player: %w", err)
}

// modelToPlayer converts a database model to the domain aggregate.
// Children that were not loaded come back as empty slices, never nil.
func modelToPlayer(model *PlayerModel) *player.Player {
	stats := make([]player.Statistic, 0, len(model.Statistics))
	for _, s := range model.Statistics {
		stats = append(stats, player.Statistic{
			Season:        s.Season,
			Goals:         s.Goals,
			Assists:       s.Assists,
			Matches:       s.Matches,
			YellowCards:   s.YellowCards,
			RedCards:      s.RedCards,
			MinutesPlayed: s.MinutesPlayed,
		})
	}

	awards := make([]player.Award, 0, len(model.Awards))
	for _, a := range model.Awards {
		awards = append(awards, player.Award{
			AwardName: a.AwardName,
			Year:      a.Year,
			Category:  a.Category,
		})
	}

	return &player.Player{
		ID:         model.ID,
		Name:       model.Name,
		Country:    model.Country,
		Club:       model.Club,
		Position:   player.Position(model.Position),
		Age:        model.Age,
		IsActive:   model.IsActive,
		CreatedAt:  model.CreatedAt,
		Statistics: stats,
		Awards:     awards,
	}
}

// playerToModel converts the parent fields only; children are written separately
func playerToModel(p *player.Player) *PlayerModel {
	return &PlayerModel{
		Name:     p.Name,
		Country:  p.Country,
		Club:     p.Club,
		Position: string(p.Position),
		Age:      p.Age,
		IsActive: p.IsActive,
	}
}

func statisticToModel(playerID int, s player.Statistic) StatisticModel {
	return StatisticModel{
		PlayerID:      playerID,
		Season:        s.Season,
		Goals:         s.Goals,
		Assists:       s.Assists,
		Matches:       s.Matches,
		YellowCards:   s.YellowCards,
		RedCards:      s.RedCards,
		MinutesPlayed: s.MinutesPlayed,
	}
}

func awardToModel(playerID int, a player.Award) AwardModel {
	return AwardModel{
		PlayerID:  playerID,
		AwardName: a.AwardName,
		Year:      a.Year,
		Category:  a.Category,
	}
}
