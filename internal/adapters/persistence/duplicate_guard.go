package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

// GormDuplicateGuard checks (name, club) uniqueness against the players table
type GormDuplicateGuard struct {
	db *gorm.DB
}

// NewGormDuplicateGuard creates a guard bound to db
func NewGormDuplicateGuard(db *gorm.DB) *GormDuplicateGuard {
	return &GormDuplicateGuard{db: db}
}

// CheckDuplicate returns a ConflictError when another player already holds name in club
func (g *GormDuplicateGuard) CheckDuplicate(ctx context.Context, name, club string, excludeID int) error {
	return g.check(g.db.WithContext(ctx), name, club, excludeID)
}

// check runs on tx so repository writes see rows inserted earlier in the same transaction
func (g *GormDuplicateGuard) check(tx *gorm.DB, name, club string, excludeID int) error {
	query := tx.Model(&PlayerModel{}).Where("name = ? AND club = ?", name, club)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for duplicate player: %w", err)
	}
	if count > 0 {
		return shared.NewConflictError(name, club)
	}
	return nil
}
