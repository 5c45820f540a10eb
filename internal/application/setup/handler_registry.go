package setup

import (
	"reflect"

	"github.com/andrescamacho/player-soap-service/internal/application/mediator"
	"github.com/andrescamacho/player-soap-service/internal/application/player/commands"
	"github.com/andrescamacho/player-soap-service/internal/application/player/queries"
	"github.com/andrescamacho/player-soap-service/internal/domain/player"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	playerRepo player.PlayerRepository
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(playerRepo player.PlayerRepository) *HandlerRegistry {
	return &HandlerRegistry{
		playerRepo: playerRepo,
	}
}

// RegisterPlayerHandlers registers every player command and query handler with the mediator
//
// This method registers:
//   - CreatePlayerCommand, UpdatePlayerCommand, UpdatePlayerStatsCommand
//   - DeletePlayerCommand, BulkCreatePlayersCommand, DeleteAllPlayersCommand
//   - GetPlayerQuery, ListPlayersQuery
func (r *HandlerRegistry) RegisterPlayerHandlers(m mediator.Mediator) error {
	handlers := []struct {
		request mediator.Request
		handler mediator.RequestHandler
	}{
		{&commands.CreatePlayerCommand{}, commands.NewCreatePlayerHandler(r.playerRepo)},
		{&commands.UpdatePlayerCommand{}, commands.NewUpdatePlayerHandler(r.playerRepo)},
		{&commands.UpdatePlayerStatsCommand{}, commands.NewUpdatePlayerStatsHandler(r.playerRepo)},
		{&commands.DeletePlayerCommand{}, commands.NewDeletePlayerHandler(r.playerRepo)},
		{&commands.BulkCreatePlayersCommand{}, commands.NewBulkCreatePlayersHandler(r.playerRepo)},
		{&commands.DeleteAllPlayersCommand{}, commands.NewDeleteAllPlayersHandler(r.playerRepo)},
		{&queries.GetPlayerQuery{}, queries.NewGetPlayerHandler(r.playerRepo)},
		{&queries.ListPlayersQuery{}, queries.NewListPlayersHandler(r.playerRepo)},
	}

	for _, h := range handlers {
		if err := m.Register(reflect.TypeOf(h.request), h.handler); err != nil {
			return err
		}
	}
	return nil
}

// CreateConfiguredMediator creates a new mediator with all player handlers registered.
// Middlewares are applied in the given order, the first one outermost.
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()

	for _, mw := range middlewares {
		m.RegisterMiddleware(mw)
	}

	if err := r.RegisterPlayerHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
