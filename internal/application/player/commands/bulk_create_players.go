package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/domain/player"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
)

// BulkCreatePlayersCommand creates every draft or none of them
type BulkCreatePlayersCommand struct {
	Drafts []player.Draft
}

// BulkCreatePlayersResponse lists the created players in request order
type BulkCreatePlayersResponse struct {
	Players []*player.Player
}

// BulkCreatePlayersHandler handles the BulkCreatePlayers command
type BulkCreatePlayersHandler struct {
	playerRepo player.PlayerRepository
}

// NewBulkCreatePlayersHandler creates a new BulkCreatePlayersHandler
func NewBulkCreatePlayersHandler(playerRepo player.PlayerRepository) *BulkCreatePlayersHandler {
	return &BulkCreatePlayersHandler{
		playerRepo: playerRepo,
	}
}

// Handle validates the whole batch before the first write, then inserts it in one transaction
func (h *BulkCreatePlayersHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*BulkCreatePlayersCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *BulkCreatePlayersCommand")
	}

	if err := player.ValidateAll(cmd.Drafts); err != nil {
		return nil, err
	}

	batch := make([]*player.Player, 0, len(cmd.Drafts))
	for _, d := range cmd.Drafts {
		batch = append(batch, draftToPlayer(0, d))
	}

	created, err := h.playerRepo.CreateMany(ctx, batch)
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Info("players bulk created", slog.Int(logging.FieldCount, len(created)))

	return &BulkCreatePlayersResponse{
		Players: created,
	}, nil
}
