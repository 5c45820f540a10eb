package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByUsername retrieves a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	var model UserModel
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("User", 0)
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}

	return &auth.User{
		ID:           model.ID,
		Username:     model.Username,
		PasswordHash: model.Password,
		Role:         model.Role,
		CreatedAt:    model.CreatedAt,
	}, nil
}

// Save inserts the user or, when the username exists, rewrites its password and role
func (r *GormUserRepository) Save(ctx context.Context, user *auth.User) error {
	model := UserModel{
		Username: user.Username,
		Password: user.PasswordHash,
		Role:     user.Role,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "role"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save user: %w", result.Error)
	}

	user.ID = model.ID
	return nil
}
