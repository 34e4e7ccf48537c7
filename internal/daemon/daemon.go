package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rally-social/pulse/internal/api"
	"github.com/rally-social/pulse/internal/app/engagement"
	"github.com/rally-social/pulse/internal/health"
	_ "github.com/rally-social/pulse/internal/infra/metrics" // Register Prometheus metrics
	"github.com/rally-social/pulse/internal/infra/sqlite"
)

// Daemon is the Pulse runtime. It wires together storage, the engagement
// engine, health checks, and the HTTP API.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Engine *engagement.Engine
	Health *health.Checker
	Server *api.Server
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Storage.Dir
	if dataDir == "" {
		dataDir = pulseHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	rewards := engagement.Rewards{
		CreatePoints:      cfg.Rewards.CreatePoints,
		JoinPoints:        cfg.Rewards.JoinPoints,
		StreakBonusPerDay: cfg.Rewards.StreakBonusPerDay,
		AchievementBonus:  cfg.Rewards.AchievementBonus,
	}
	engine, err := engagement.New(db, rewards)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init engagement engine: %w", err)
	}

	checker := health.NewChecker(db, dataDir)

	srv := api.NewServer(engine, checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config: cfg,
		DB:     db,
		Engine: engine,
		Health: checker,
		Server: srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Health checker runs for the lifetime of the daemon
	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Pulse serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
