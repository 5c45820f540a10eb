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

// UpdatePlayerCommand rewrites a player's fields and, when supplied, replaces its
// statistics and awards wholesale
type UpdatePlayerCommand struct {
	PlayerID int
	Draft    player.Draft
}

// UpdatePlayerResponse represents the result of updating a player
type UpdatePlayerResponse struct {
	Player *player.Player
}

// UpdatePlayerHandler handles the UpdatePlayer command
type UpdatePlayerHandler struct {
	playerRepo player.PlayerRepository
}

// NewUpdatePlayerHandler creates a new UpdatePlayerHandler
func NewUpdatePlayerHandler(playerRepo player.PlayerRepository) *UpdatePlayerHandler {
	return &UpdatePlayerHandler{
		playerRepo: playerRepo,
	}
}

// Handle executes the UpdatePlayer command
func (h *UpdatePlayerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpdatePlayerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpdatePlayerCommand")
	}

	if cmd.PlayerID <= 0 {
		return nil, shared.NewValidationError("id", "Player ID is required")
	}
	if err := player.Validate(cmd.Draft); err != nil {
		return nil, err
	}

	updated, err := h.playerRepo.Update(ctx, draftToPlayer(cmd.PlayerID, cmd.Draft))
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Info("player updated", slog.Int(logging.FieldPlayerID, updated.ID))

	return &UpdatePlayerResponse{
		Player: updated,
	}, nil
}
