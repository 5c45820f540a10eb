package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/domain/player"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

// GetPlayerQuery represents a query to get one player aggregate by ID
type GetPlayerQuery struct {
	PlayerID int
}

// GetPlayerResponse represents the result of getting a player
type GetPlayerResponse struct {
	Player *player.Player
}

// GetPlayerHandler handles the GetPlayer query
type GetPlayerHandler struct {
	playerRepo player.PlayerRepository
}

// NewGetPlayerHandler creates a new GetPlayerHandler
func NewGetPlayerHandler(playerRepo player.PlayerRepository) *GetPlayerHandler {
	return &GetPlayerHandler{
		playerRepo: playerRepo,
	}
}

// Handle executes the GetPlayer query
func (h *GetPlayerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetPlayerQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPlayerQuery")
	}

	if query.PlayerID <= 0 {
		return nil, shared.NewValidationError("id", "Player ID is required")
	}

	p, err := h.playerRepo.FindByID(ctx, query.PlayerID)
	if err != nil {
		return nil, err
	}

	return &GetPlayerResponse{
		Player: p,
	}, nil
}
