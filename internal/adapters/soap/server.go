package soap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	adapterAuth "github.com/andrescamacho/player-soap-service/internal/adapters/auth"
	"github.com/andrescamacho/player-soap-service/internal/adapters/metrics"
	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/config"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
)

// HeaderRequestID carries the per-request correlation id in both directions
const HeaderRequestID = "X-Request-ID"

const localsRequestID = "request_id"

// HealthCheck reports whether the service's dependencies are reachable
type HealthCheck func(ctx context.Context) error

// Server exposes the player operations as a single SOAP endpoint
type Server struct {
	app      *fiber.App
	cfg      config.ServerConfig
	mediator common.Mediator
	auth     *adapterAuth.Authenticator
	metrics  *metrics.SOAPMetricsCollector
	limiter  *rate.Limiter
	health   HealthCheck
	logger   *slog.Logger
	ops      map[string]operation
}

// NewServer builds the fiber app and mounts the SOAP endpoint on cfg.SOAPPath.
// collector and health may be nil.
func NewServer(
	cfg config.ServerConfig,
	med common.Mediator,
	authenticator *adapterAuth.Authenticator,
	collector *metrics.SOAPMetricsCollector,
	health HealthCheck,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		cfg:      cfg,
		mediator: med,
		auth:     authenticator,
		metrics:  collector,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), cfg.RateLimit.Burst),
		health:   health,
		logger:   logger,
	}
	s.ops = s.operations()

	s.app = fiber.New(fiber.Config{
		AppName:               "player-service",
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(s.requestIDMiddleware())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type, Authorization, " + HeaderRequestID,
	}))

	s.app.Get("/healthz", s.handleHealth)

	s.app.Options(cfg.SOAPPath, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	s.app.Post(cfg.SOAPPath, s.rateLimitMiddleware(), s.handleSOAP)

	return s
}

// MountMetrics serves the prometheus registry on path
func (s *Server) MountMetrics(path string, registry *prometheus.Registry) {
	if registry == nil {
		return
	}
	s.app.Get(path, adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}

// App exposes the underlying fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on the configured address
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address)
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(localsRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

func (s *Server) rateLimitMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.limiter.Allow() {
			s.metrics.RecordRateLimited()
			return s.writeFault(c, fiber.StatusTooManyRequests, "RateLimitExceeded", "Too many requests")
		}
		return c.Next()
	}
}

func (s *Server) handleSOAP(c *fiber.Ctx) error {
	start := time.Now()
	requestID, _ := c.Locals(localsRequestID).(string)

	req, err := decodeRequest(c.Body())
	if err != nil {
		message := "Malformed SOAP envelope"
		if errors.Is(err, errEmptyBody) {
			message = "No body found in request"
		}
		return s.writeFault(c, fiber.StatusBadRequest, "ValidationError", message)
	}

	op, known := s.ops[req.Operation]
	metricName := req.Operation
	if !known {
		metricName = "unknown"
	}

	logger := s.logger.With(
		slog.String(logging.FieldRequestID, requestID),
		slog.String(logging.FieldOperation, req.Operation),
	)
	ctx := common.WithRequestID(common.WithLogger(c.UserContext(), logger), requestID)

	status, err := s.dispatch(ctx, c, req, op, known)
	if err != nil {
		status = s.writeError(c, err)
	}

	duration := time.Since(start)
	s.metrics.RecordRequest(metricName, status, duration.Seconds())
	logger.Info("soap request",
		slog.Int(logging.FieldStatusCode, status),
		slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
	)
	return nil
}

// dispatch authenticates the caller unless the operation is public, then runs it
func (s *Server) dispatch(ctx context.Context, c *fiber.Ctx, req *request, op operation, known bool) (int, error) {
	if !known {
		return 0, newRequestError(fiber.StatusBadRequest, "InvalidOperation", "Operation not supported")
	}

	if !op.public {
		header := c.Get(fiber.HeaderAuthorization)
		principal, err := s.auth.Authenticate(ctx, header)
		if err != nil {
			s.metrics.RecordAuthFailure(authScheme(header))
			return 0, err
		}
		ctx = withPrincipal(ctx, principal)
	}

	response, err := op.run(ctx, c, req)
	if err != nil {
		return 0, err
	}
	return response.StatusCode, s.writeEnvelope(c, response.StatusCode, response, nil)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if s.health != nil {
		if err := s.health(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleError renders errors that escape a handler (unknown route, body too large) as faults
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return s.writeFault(c, fiberErr.Code, faultTypeForStatus(fiberErr.Code), fiberErr.Message)
	}
	s.writeError(c, err)
	return nil
}

// writeError renders err as a fault and returns the HTTP status used
func (s *Server) writeError(c *fiber.Ctx, err error) int {
	status, faultType, message := describeError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String(logging.FieldMethod, c.Method()),
			slog.String(logging.FieldPath, c.Path()),
			slog.String("error", err.Error()),
		)
	}
	if writeErr := s.writeFault(c, status, faultType, message); writeErr != nil {
		s.logger.Error("failed to write fault", slog.String("error", writeErr.Error()))
	}
	return status
}

func (s *Server) writeFault(c *fiber.Ctx, status int, faultType, message string) error {
	return s.writeEnvelope(c, status, nil, newFault(status, faultType, message))
}

func (s *Server) writeEnvelope(c *fiber.Ctx, status int, response *operationResponse, f *fault) error {
	body, err := marshalEnvelope(response, f)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Status(status).Send(body)
}

func authScheme(header string) string {
	if header == "" {
		return "none"
	}
	scheme, _, _ := strings.Cut(header, " ")
	switch scheme {
	case "Basic", "Bearer":
		return strings.ToLower(scheme)
	default:
		return "other"
	}
}

func faultTypeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NotFoundError"
	case fiber.StatusRequestEntityTooLarge:
		return "PayloadTooLarge"
	case fiber.StatusMethodNotAllowed:
		return "InvalidOperation"
	}
	if status < http.StatusInternalServerError {
		return "ValidationError"
	}
	return "ServerError"
}
