package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asmayaseen/vitacoach/internal/config"
	"github.com/asmayaseen/vitacoach/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Long: `Start the coaching service as an HTTP server.

Endpoints:
  POST /api/users                  create a user and session
  GET  /api/users/{id}             profile with BMI
  POST /api/users/{id}/chat        one conversation turn (SSE stream)
  GET  /api/users/{id}/goals       goals with progress percentages
  POST /api/users/{id}/goals       create a goal
  POST /api/users/{id}/progress    record a measurement
  GET  /api/users/{id}/report      HTML progress report`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	orch, err := buildOrchestrator(cfg, db)
	if err != nil {
		return err
	}

	srv, err := server.New(orch, server.Options{
		DB:          db,
		TurnTimeout: cfg.Session.TurnTimeout,
	})
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}
