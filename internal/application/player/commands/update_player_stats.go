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

// UpdatePlayerStatsCommand replaces a player's statistics set; awards are untouched
type UpdatePlayerStatsCommand struct {
	PlayerID   int
	Statistics []player.StatisticDraft
}

// UpdatePlayerStatsResponse represents the refreshed aggregate
type UpdatePlayerStatsResponse struct {
	Player *player.Player
}

// UpdatePlayerStatsHandler handles the UpdatePlayerStats command
type UpdatePlayerStatsHandler struct {
	playerRepo player.PlayerRepository
}

// NewUpdatePlayerStatsHandler creates a new UpdatePlayerStatsHandler
func NewUpdatePlayerStatsHandler(playerRepo player.PlayerRepository) *UpdatePlayerStatsHandler {
	return &UpdatePlayerStatsHandler{
		playerRepo: playerRepo,
	}
}

// Handle executes the UpdatePlayerStats command
func (h *UpdatePlayerStatsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpdatePlayerStatsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpdatePlayerStatsCommand")
	}

	if cmd.PlayerID <= 0 {
		return nil, shared.NewValidationError("id", "Player ID is required")
	}
	if err := player.ValidateStatistics(cmd.Statistics); err != nil {
		return nil, err
	}

	stats := player.StatisticsFromDrafts(cmd.Statistics)
	if stats == nil {
		stats = []player.Statistic{}
	}

	updated, err := h.playerRepo.ReplaceStatistics(ctx, cmd.PlayerID, stats)
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Info("player statistics replaced",
		slog.Int(logging.FieldPlayerID, updated.ID),
		slog.Int(logging.FieldCount, len(updated.Statistics)),
	)

	return &UpdatePlayerStatsResponse{
		Player: updated,
	}, nil
}
