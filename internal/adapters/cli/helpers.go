package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"gorm.io/gorm"

	"github.com/andrescamacho/player-soap-service/internal/adapters/persistence"
	appAuth "github.com/andrescamacho/player-soap-service/internal/application/auth"
	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/application/setup"
	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/config"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/database"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
)

// localPrincipal is the caller recorded for commands run from the CLI
var localPrincipal = domainAuth.Principal{
	Username: "playerctl",
	Role:     domainAuth.RoleAdmin,
	Method:   "Local",
}

// session is an open database plus a mediator wired to it
type session struct {
	cfg      *config.Config
	db       *gorm.DB
	mediator common.Mediator
	users    *persistence.GormUserRepository
	logger   *slog.Logger
}

// openSession loads config, connects and migrates the database, and registers the player handlers
func openSession(stderr io.Writer) (*session, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	registry := setup.NewHandlerRegistry(persistence.NewGormPlayerRepository(db))
	med, err := registry.CreateConfiguredMediator(appAuth.AuditMiddleware())
	if err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := logging.NewLoggerTo(stderr, config.LoggingConfig{Level: level, Format: "text"})

	return &session{
		cfg:      cfg,
		db:       db,
		mediator: med,
		users:    persistence.NewGormUserRepository(db),
		logger:   logger,
	}, nil
}

// context carries the local principal and the CLI logger
func (s *session) context() context.Context {
	principal := localPrincipal
	ctx := common.WithLogger(context.Background(), s.logger)
	return appAuth.WithPrincipal(ctx, &principal)
}

func (s *session) Close() {
	database.Close(s.db)
}

// parsePlayerID parses a positional player id argument
func parsePlayerID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid player id %q: must be a positive integer", arg)
	}
	return id, nil
}
