package soap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	appAuth "github.com/andrescamacho/player-soap-service/internal/application/auth"
	"github.com/andrescamacho/player-soap-service/internal/application/player/commands"
	"github.com/andrescamacho/player-soap-service/internal/application/player/queries"
	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

// operation is one SOAP operation, keyed by its element name without the Request suffix
type operation struct {
	// public operations skip authentication
	public bool
	run    func(ctx context.Context, c *fiber.Ctx, req *request) (*operationResponse, error)
}

// requestError is a malformed request rejected before it reaches a handler
type requestError struct {
	status    int
	faultType string
	message   string
}

func (e *requestError) Error() string {
	return e.message
}

func newRequestError(status int, faultType, message string) *requestError {
	return &requestError{status: status, faultType: faultType, message: message}
}

func missingField(message string) *requestError {
	return newRequestError(http.StatusBadRequest, "ValidationError", message)
}

// describeError maps err onto status code, fault type and caller-facing message
func describeError(err error) (int, string, string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.status, reqErr.faultType, reqErr.message
	}
	return shared.StatusCode(err), shared.ErrorType(err), shared.PublicMessage(err)
}

func withPrincipal(ctx context.Context, principal *domainAuth.Principal) context.Context {
	return appAuth.WithPrincipal(ctx, principal)
}

func (s *Server) operations() map[string]operation {
	return map[string]operation{
		"generateToken":        {public: true, run: s.generateToken},
		"invalidateToken":      {run: s.invalidateToken},
		"createPlayer":         {run: s.createPlayer},
		"getPlayer":            {run: s.getPlayer},
		"updatePlayer":         {run: s.updatePlayer},
		"updatePlayerStats":    {run: s.updatePlayerStats},
		"deletePlayer":         {run: s.deletePlayer},
		"listPlayers":          {run: s.listPlayers},
		"bulkCreatePlayers":    {run: s.bulkCreatePlayers},
		"deleteAllPlayerStats": {run: s.deleteAllPlayers},
	}
}

func (s *Server) generateToken(ctx context.Context, _ *fiber.Ctx, req *request) (*operationResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, missingField("Username and password are required")
	}

	token, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		s.metrics.RecordAuthFailure("credentials")
		return nil, err
	}

	resp := newResponse("generateToken", http.StatusOK, "Token generated successfully")
	resp.Token = token.Value
	resp.ExpiresIn = int64(s.auth.TokenTTL().Seconds())
	return resp, nil
}

func (s *Server) invalidateToken(_ context.Context, c *fiber.Ctx, _ *request) (*operationResponse, error) {
	s.auth.Logout(c.Get(fiber.HeaderAuthorization))
	return newResponse("invalidateToken", http.StatusOK, "Token invalidated successfully"), nil
}

func (s *Server) createPlayer(ctx context.Context, _ *fiber.Ctx, req *request) (*operationResponse, error) {
	result, err := s.mediator.Send(ctx, &commands.CreatePlayerCommand{Draft: req.Draft()})
	if err != nil {
		return nil, err
	}
	created := result.(*commands.CreatePlayerResponse).Player
	return newResponse("createPlayer", http.StatusCreated, "Player created successfully").withPlayers(created), nil
}

func (s *Server) getPlayer(ctx context.Context, _ *fiber.Ctx, req *request) (*operationResponse, error) {
	id := req.PlayerID()
	if id == 0 {
		return nil, missingField("Player ID is required")
	}

	result, err := s.mediator.Send(ctx, &queries.GetPlayerQuery{PlayerID: id})
	if err != nil {
		return nil, err
	}
	found := result.(*queries.GetPlayerResponse).Player
	return newResponse("getPlayer", http.StatusOK, "Player retrieved successfully").withPlayers(found), nil
}

func (s *Server) updatePlayer(ctx context.Context, _ *fiber.Ctx, req *request) (*operationResponse, error) {
	id := req.PlayerID()
	if id == 0 {
		return nil, missingField("Player ID is required")
	}

	result, err := s.mediator.Send(ctx, &commands.UpdatePlayerCommand{PlayerID: id, Draft: req.Draft()})
	if err != nil {
		return nil, err
	}
	updated := result.(*commands.UpdatePlayerResponse).Player
	return newResponse("updatePlayer", http.StatusOK, "Player updated successfully").withPlayers(updated), nil
}

func (s *Server) updatePlayerStats(ctx context.Context, _ *fiber.Ctx, req *request) (*operationResponse, error) {
	id := req.PlayerID()
	if id == 0 {
		return nil, missingField("Player ID is required")
	}
	stats := req.StatisticDrafts()
	if len(stats) == 0 {
		return nil, missingField("At least one statistics entry is required")
	}

	result, err := s.mediator.Send(ctx, &commands.UpdatePlayerStatsCommand{PlayerID: id, Statistics: stats})
	if err != nil {
		return nil, err
	}
	updated := result.(*commands.UpdatePlayerStatsResponse).Player
	return newResponse("updatePlayerStats", http.StatusOK, "Player statistics updated successfully").withPlayers(updated), nil
}

func (s *Server) deletePlayer(ctx context.Context, _ *fiber.Ctx, req *request) (*operationResponse, error) {
	id := req.PlayerID()
	if id == 0 {
		return nil, missingField("Player ID is required")
	}

	if _, err := s.mediator.Send(ctx, &commands.DeletePlayerCommand{PlayerID: id}); err != nil {
		return nil, err
	}
	resp := newResponse("deletePlayer", http.StatusOK, "Player deleted successfully")
	resp.ID = id
	return resp, nil
}

func (s *Server) listPlayers(ctx context.Context, _ *fiber.Ctx, _ *request) (*operationResponse, error) {
	result, err := s.mediator.Send(ctx, &queries.ListPlayersQuery{})
	if err != nil {
		return nil, err
	}
	players := result.(*queries.ListPlayersResponse).Players
	return newResponse("listPlayers", http.StatusOK, "Players retrieved successfully").withPlayerList(players), nil
}

func (s *Server) bulkCreatePlayers(ctx context.Context, _ *fiber.Ctx, req *request) (*operationResponse, error) {
	result, err := s.mediator.Send(ctx, &commands.BulkCreatePlayersCommand{Drafts: req.Drafts()})
	if err != nil {
		return nil, err
	}
	created := result.(*commands.BulkCreatePlayersResponse).Players
	message := fmt.Sprintf("Successfully created %d players", len(created))
	return newResponse("bulkCreatePlayers", http.StatusOK, message).withPlayers(created...), nil
}

func (s *Server) deleteAllPlayers(ctx context.Context, _ *fiber.Ctx, _ *request) (*operationResponse, error) {
	result, err := s.mediator.Send(ctx, &commands.DeleteAllPlayersCommand{})
	if err != nil {
		return nil, err
	}
	deleted := result.(*commands.DeleteAllPlayersResponse).DeletedCount
	resp := newResponse("deleteAllPlayerStats", http.StatusOK, "All data deleted successfully")
	resp.DeletedCount = &deleted
	return resp, nil
}
