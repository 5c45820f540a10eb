package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/domain/player"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
)

// DeletePlayerCommand removes a player together with its statistics and awards
type DeletePlayerCommand struct {
	PlayerID int
}

// DeletePlayerResponse represents the result of deleting a player
type DeletePlayerResponse struct {
	PlayerID int
}

// DeletePlayerHandler handles the DeletePlayer command
type DeletePlayerHandler struct {
	playerRepo player.PlayerRepository
}

// NewDeletePlayerHandler creates a new DeletePlayerHandler
func NewDeletePlayerHandler(playerRepo player.PlayerRepository) *DeletePlayerHandler {
	return &DeletePlayerHandler{
		playerRepo: playerRepo,
	}
}

// Handle executes the DeletePlayer command
func (h *DeletePlayerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeletePlayerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeletePlayerCommand")
	}

	if cmd.PlayerID <= 0 {
		return nil, shared.NewValidationError("id", "Player ID is required")
	}

	if err := h.playerRepo.Delete(ctx, cmd.PlayerID); err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Info("player deleted", slog.Int(logging.FieldPlayerID, cmd.PlayerID))

	return &DeletePlayerResponse{
		PlayerID: cmd.PlayerID,
	}, nil
}
