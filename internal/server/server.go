// Package server wires the HTTP API together: database client, store
// gateway, import session manager with its cron janitor, and the router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog"

	"github.com/ledgerline/ledgerline/internal/api"
	"github.com/ledgerline/ledgerline/internal/importsession"
	"github.com/ledgerline/ledgerline/internal/ledgerstore"
	"github.com/ledgerline/ledgerline/pkg/config"
	"github.com/ledgerline/ledgerline/pkg/postgresutils"
)

type ServeRunner struct {
	log zerolog.Logger
}

func NewServeRunner(log zerolog.Logger) *ServeRunner {
	return &ServeRunner{log: log}
}

func (s *ServeRunner) Run() error {
	db, err := postgresutils.CreatePostgresClient(config.CurrentSQLConfig().Database)
	if err != nil {
		return fmt.Errorf("error connecting to postgres: %w", err)
	}

	store := ledgerstore.New(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		return err
	}

	sessions := importsession.NewManager()
	idle := time.Duration(config.CurrentServerConfig().SessionIdleMinutes) * time.Minute

	c := cron.New()
	err = c.AddFunc(config.CurrentServerConfig().PruneSchedule, func() {
		if pruned := sessions.PruneIdle(idle); pruned > 0 {
			s.log.Info().Int("pruned", pruned).Msg("Removed abandoned import sessions")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid prune schedule: %w", err)
	}

	c.Start()
	defer c.Stop()

	router := api.NewRouter(store, sessions, s.log)
	listen := config.CurrentServerConfig().Listen

	s.log.Info().Str("listen", listen).Msg("Starting server")

	return http.ListenAndServe(listen, router)
}
