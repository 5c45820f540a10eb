package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/domain/player"
)

// ListPlayersQuery returns every player aggregate
type ListPlayersQuery struct{}

// ListPlayersResponse holds the players ordered by id; empty, never nil
type ListPlayersResponse struct {
	Players []*player.Player
}

// ListPlayersHandler handles the ListPlayers query
type ListPlayersHandler struct {
	playerRepo player.PlayerRepository
}

// NewListPlayersHandler creates a new ListPlayersHandler
func NewListPlayersHandler(playerRepo player.PlayerRepository) *ListPlayersHandler {
	return &ListPlayersHandler{
		playerRepo: playerRepo,
	}
}

// Handle executes the ListPlayers query
func (h *ListPlayersHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListPlayersQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPlayersQuery")
	}

	players, err := h.playerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []*player.Player{}
	}

	return &ListPlayersResponse{
		Players: players,
	}, nil
}
