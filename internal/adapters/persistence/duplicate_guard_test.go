package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/player-soap-service/internal/adapters/persistence"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
	"github.com/andrescamacho/player-soap-service/test/helpers"
)

func TestDuplicateGuard(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)
	guard := persistence.NewGormDuplicateGuard(db)
	ctx := context.Background()

	existing, err := repo.Create(ctx, helpers.CreateTestPlayer("Bellingham", "Real Madrid"))
	require.NoError(t, err)

	tests := []struct {
		name         string
		playerName   string
		club         string
		excludeID    int
		wantConflict bool
	}{
		{"same name and club", "Bellingham", "Real Madrid", 0, true},
		{"same name other club", "Bellingham", "Dortmund", 0, false},
		{"other name same club", "Vinicius", "Real Madrid", 0, false},
		{"excluding own row", "Bellingham", "Real Madrid", existing.ID, false},
		{"excluding another row", "Bellingham", "Real Madrid", existing.ID + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.CheckDuplicate(ctx, tt.playerName, tt.club, tt.excludeID)

			if tt.wantConflict {
				var conflict *shared.ConflictError
				require.True(t, errors.As(err, &conflict))
				assert.Equal(t, tt.playerName, conflict.Name)
				assert.Equal(t, tt.club, conflict.Club)
				return
			}
			assert.NoError(t, err)
		})
	}
}
