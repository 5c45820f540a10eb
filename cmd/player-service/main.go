package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrescamacho/player-soap-service/internal/adapters/auth"
	"github.com/andrescamacho/player-soap-service/internal/adapters/grpc"
	"github.com/andrescamacho/player-soap-service/internal/adapters/metrics"
	"github.com/andrescamacho/player-soap-service/internal/adapters/persistence"
	"github.com/andrescamacho/player-soap-service/internal/adapters/soap"
	appAuth "github.com/andrescamacho/player-soap-service/internal/application/auth"
	"github.com/andrescamacho/player-soap-service/internal/application/mediator"
	"github.com/andrescamacho/player-soap-service/internal/application/setup"
	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/config"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/database"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/pidfile"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line flags
	configFlag := flag.String("config", os.Getenv("PS_CONFIG"), "Path to config file")
	forceFlag := flag.Bool("force", false, "Stop a running instance holding the PID file and start anyway")
	flag.Parse()

	fmt.Println("Player SOAP Service v1.0.0")
	fmt.Println("==========================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.PIDFile != "" {
		pf := pidfile.New(cfg.Server.PIDFile)
		if err := acquirePIDFile(pf, *forceFlag); err != nil {
			log.Fatalf("%v", err)
		}
		defer func() {
			if err := pf.Release(); err != nil {
				log.Printf("Warning: %v", err)
			}
		}()
		fmt.Printf("PID file lock acquired: %s\n", pf.Path())
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

// acquirePIDFile takes the lock, stopping the current owner first when force is set
func acquirePIDFile(pf *pidfile.PIDFile, force bool) error {
	err := pf.Acquire()
	if !errors.Is(err, pidfile.ErrAlreadyRunning) {
		return err
	}
	if !force {
		return fmt.Errorf("%w\nUse --force to stop the existing instance", err)
	}

	fmt.Println("Force mode enabled - stopping existing instance...")
	if err := pf.Terminate(); err != nil {
		return err
	}
	for i := 0; i < 50; i++ {
		if _, running := pf.Owner(); !running {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	return pf.Acquire()
}

func run(cfg *config.Config) error {
	logger, closeLog, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	// 1. Setup database connection
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected and migrated")

	// 2. Initialize repositories
	playerRepo := persistence.NewGormPlayerRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	ctx := context.Background()
	if err := auth.EnsureUser(ctx, userRepo, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, domainAuth.RoleAdmin); err != nil {
		return err
	}
	fmt.Printf("Admin account %q ready\n", cfg.Auth.AdminUsername)

	// 3. Metrics (optional)
	var (
		commandCollector *metrics.CommandMetricsCollector
		soapCollector    *metrics.SOAPMetricsCollector
	)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		commandCollector = metrics.NewCommandMetricsCollector()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		soapCollector = metrics.NewSOAPMetricsCollector()
		if err := soapCollector.Register(); err != nil {
			return fmt.Errorf("failed to register SOAP metrics: %w", err)
		}
		fmt.Printf("Metrics enabled on %s\n", cfg.Metrics.Path)
	}

	// 4. Initialize mediator. Metrics wrap the audit log so audit time is measured too.
	middlewares := []mediator.Middleware{}
	if commandCollector != nil {
		middlewares = append(middlewares, metrics.PrometheusMiddleware(commandCollector))
	}
	middlewares = append(middlewares, appAuth.AuditMiddleware())

	registry := setup.NewHandlerRegistry(playerRepo)
	med, err := registry.CreateConfiguredMediator(middlewares...)
	if err != nil {
		return err
	}
	fmt.Println("Mediator configured")

	// 5. Authentication
	clock := shared.NewRealClock()
	tokenStore := auth.NewMemoryTokenStore()
	issuer := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL, tokenStore, clock)
	authenticator := auth.NewAuthenticator(userRepo, issuer, tokenStore, clock)

	sweeper, err := auth.NewTokenSweeper(tokenStore, cfg.Auth.SweepInterval, clock, logger)
	if err != nil {
		return fmt.Errorf("failed to create token sweeper: %w", err)
	}
	sweeper.Start()
	defer func() {
		if err := sweeper.Stop(); err != nil {
			logger.Warn("token sweeper did not stop cleanly", "error", err)
		}
	}()

	if err := metrics.RegisterTokenGauge(tokenStore.Len); err != nil {
		return fmt.Errorf("failed to register token gauge: %w", err)
	}

	// 6. SOAP server
	dbCheck := func(context.Context) error {
		return database.Ping(db)
	}
	server := soap.NewServer(cfg.Server, med, authenticator, soapCollector, dbCheck, logger)
	if cfg.Metrics.Enabled {
		server.MountMetrics(cfg.Metrics.Path, metrics.GetRegistry())
	}

	// 7. gRPC health endpoint (optional)
	var healthServer *grpc.HealthServer
	if cfg.Health.Address != "" {
		healthServer, err = grpc.NewHealthServer(cfg.Health.Address, dbCheck, grpc.ProbeInterval, logger)
		if err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
		go func() {
			if err := healthServer.Start(); err != nil {
				logger.Error("health server stopped", "error", err)
			}
		}()
		fmt.Printf("gRPC health endpoint listening on %s\n", healthServer.Addr())
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Listen()
	}()

	fmt.Printf("\n✓ SOAP endpoint listening on %s%s\n", cfg.Server.Address, cfg.Server.SOAPPath)
	fmt.Println("Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		fmt.Printf("\nReceived %s, shutting down...\n", sig)
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("SOAP server error: %w", err)
		}
	}

	if healthServer != nil {
		healthServer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to shut down SOAP server: %w", err)
	}

	fmt.Println("Service stopped")
	return nil
}
