package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/domain/player"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
)

// DeleteAllPlayersCommand wipes players, statistics and awards
type DeleteAllPlayersCommand struct{}

// DeleteAllPlayersResponse carries the number of player rows removed
type DeleteAllPlayersResponse struct {
	DeletedCount int64
}

// DeleteAllPlayersHandler handles the DeleteAllPlayers command
type DeleteAllPlayersHandler struct {
	playerRepo player.PlayerRepository
}

// NewDeleteAllPlayersHandler creates a new DeleteAllPlayersHandler
func NewDeleteAllPlayersHandler(playerRepo player.PlayerRepository) *DeleteAllPlayersHandler {
	return &DeleteAllPlayersHandler{
		playerRepo: playerRepo,
	}
}

// Handle executes the DeleteAllPlayers command
func (h *DeleteAllPlayersHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*DeleteAllPlayersCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeleteAllPlayersCommand")
	}

	deleted, err := h.playerRepo.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Warn("all player data deleted", slog.Int64(logging.FieldCount, deleted))

	return &DeleteAllPlayersResponse{
		DeletedCount: deleted,
	}, nil
}
