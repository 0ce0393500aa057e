package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	router "github.com/dkeye/stagecast/internal/adapters/http"
	"github.com/dkeye/stagecast/internal/adapters/rtc"
	"github.com/dkeye/stagecast/internal/app/orch"
	"github.com/dkeye/stagecast/internal/config"
	"github.com/dkeye/stagecast/internal/logging"
	"github.com/dkeye/stagecast/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), envFlag)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFlag)
		if err != nil {
			return err
		}
		cfg.Secret = "***"
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

func serve(parent context.Context, env string) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(cfg.Log)

	m := metrics.NewPrometheusCollector()
	dialer := rtc.NewDialer(rtc.Config{
		SignalingURL:   cfg.Provider.SignalingURL,
		ICEServers:     cfg.Provider.ICEServers,
		DialTimeout:    cfg.Provider.DialTimeout,
		RequestTimeout: cfg.Provider.RequestTimeout,
		ReadLimit:      cfg.Provider.ReadLimit,
	})
	clients := orch.NewClients(dialer, m)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.SetupRouter(ctx, cfg, clients, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("module", "main").Str("addr", srv.Addr).Str("provider", cfg.Provider.SignalingURL).Msg("stagecast server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("module", "main").Msg("shutting down")
		clients.Shutdown()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Str("module", "main").Msg("server forced to shutdown")
			return err
		}
		log.Info().Str("module", "main").Msg("server exited gracefully")
		return nil
	})
	return g.Wait()
}
