package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/config"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/mohiniBalmiki/taxwise/internal/handler"
	"github.com/mohiniBalmiki/taxwise/internal/insight"
	"github.com/mohiniBalmiki/taxwise/internal/middleware"
	"github.com/mohiniBalmiki/taxwise/internal/repository/postgres"
	"github.com/mohiniBalmiki/taxwise/internal/router"
	"github.com/mohiniBalmiki/taxwise/internal/service"
	"github.com/mohiniBalmiki/taxwise/internal/telemetry"
)

func initServeCommand() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API backed by PostgreSQL.

Settings come from the environment (TAXWISE_*) or a .env file. Apply the
schema first with "taxwise migrate up".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return runServer(cfg)
		},
	}
	rootCmd.AddCommand(serveCmd)
}

func runServer(cfg *config.ServerConfig) error {
	if err := telemetry.Init(cfg.Sentry); err != nil {
		log.Printf("WARN: sentry disabled: %v", err)
	}
	defer telemetry.Flush()

	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	rules := domain.DefaultTaxRules()
	if cfg.Rules.File != "" {
		var err error
		if rules, err = config.NewInputParser().LoadRules(cfg.Rules.File); err != nil {
			return err
		}
	}

	var logger calculation.Logger = calculation.NopLogger{}
	if cfg.Debug() {
		logger = simpleCLILogger{}
	}
	engine := calculation.NewEngineWithRules(rules)
	engine.SetLogger(logger)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	calcRepo := postgres.NewCalculationRepo(db)

	// Initialize services
	taxSvc := service.NewTaxService(calcRepo, engine, logger)
	insightSvc := insight.NewService(chatClient(cfg.Insights), cfg.Insights.CacheTTL, logger)

	// Initialize handlers
	sample := func(fy string) (*domain.Calculation, error) {
		return service.SampleCalculation(engine, fy)
	}
	taxH := handler.NewTaxHandler(taxSvc, insightSvc, sample)
	healthH := handler.NewHealthHandler(db).WithCacheStats(insightSvc.CacheStats)

	// Setup router
	r := router.Setup(middleware.NewHMACVerifier(cfg.Auth), taxH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	insightSvc.StartJanitor(ctx, cfg.Insights.CacheTTL)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
