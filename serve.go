package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/apps/go-server/internal/database"
	"github.com/robalobadob/mastermind/apps/go-server/internal/httpserver"
	"github.com/robalobadob/mastermind/apps/go-server/internal/store"
)

func (a *app) serveCmd() *cobra.Command {
	var port, dbPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if port != "" {
				cfg.Port = port
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			db, err := database.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return err
			}

			srv := httpserver.New(a.sessionStore(cmd.Context()), db, cfg)
			log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Str("solver", cfg.SolverMode).
				Int64("ceiling", cfg.SpaceCeiling).Msg("starting go-server")
			return srv.Start(":" + cfg.Port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default $PORT or 5175)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path (default $DB_PATH)")
	return cmd
}

// sessionStore builds the in-memory session store with the configured
// expiry and starts its sweeper for the lifetime of ctx.
func (a *app) sessionStore(ctx context.Context) store.Store {
	st := store.NewMemoryStore(
		store.WithTTL(a.cfg.SessionTTL),
		store.WithMaxSessions(a.cfg.MaxSessions),
	)
	every := a.cfg.SessionTTL / 4
	if every > 5*time.Minute {
		every = 5 * time.Minute
	}
	go store.RunSweeper(ctx, st, every)
	return st
}
