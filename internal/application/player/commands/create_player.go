package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/domain/player"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
)

// CreatePlayerCommand represents a command to create a player with its statistics and awards
type CreatePlayerCommand struct {
	Draft player.Draft
}

// CreatePlayerResponse represents the result of creating a player
type CreatePlayerResponse struct {
	Player *player.Player
}

// CreatePlayerHandler handles the CreatePlayer command
type CreatePlayerHandler struct {
	playerRepo player.PlayerRepository
}

// NewCreatePlayerHandler creates a new CreatePlayerHandler
func NewCreatePlayerHandler(playerRepo player.PlayerRepository) *CreatePlayerHandler {
	return &CreatePlayerHandler{
		playerRepo: playerRepo,
	}
}

// Handle executes the CreatePlayer command
func (h *CreatePlayerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreatePlayerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreatePlayerCommand")
	}

	if err := player.Validate(cmd.Draft); err != nil {
		return nil, err
	}

	created, err := h.playerRepo.Create(ctx, draftToPlayer(0, cmd.Draft))
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Info("player created",
		slog.Int(logging.FieldPlayerID, created.ID),
		slog.String("club", created.Club),
	)

	return &CreatePlayerResponse{
		Player: created,
	}, nil
}

// draftToPlayer converts a validated draft. Nil child drafts stay nil so that
// update can tell "not supplied" from "empty".
func draftToPlayer(id int, d player.Draft) *player.Player {
	return &player.Player{
		ID:         id,
		Name:       d.Name,
		Country:    d.Country,
		Club:       d.Club,
		Position:   d.Position,
		Age:        d.Age,
		IsActive:   d.Active(),
		Statistics: player.StatisticsFromDrafts(d.Statistics),
		Awards:     player.AwardsFromDrafts(d.Awards),
	}
}
