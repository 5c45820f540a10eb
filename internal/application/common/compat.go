package common

// Mediator types re-exported so handlers only import common

import (
	"github.com/andrescamacho/player-soap-service/internal/application/mediator"
)

type (
	Request        = mediator.Request
	Response       = mediator.Response
	RequestHandler = mediator.RequestHandler
	HandlerFunc    = mediator.HandlerFunc
	Middleware     = mediator.Middleware
	Mediator       = mediator.Mediator
)

var (
	NewMediator = mediator.NewMediator
)

// RegisterHandler registers handler for the request type T
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	return mediator.RegisterHandler[T](m, handler)
}
