// Package cli provides the colordle command line: the HTTP server and
// operator commands for the daily colour catalog.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colordle/apps/go-server/internal/catalog"
	"github.com/robalobadob/colordle/apps/go-server/internal/config"
	"github.com/robalobadob/colordle/apps/go-server/internal/daily"
	"github.com/robalobadob/colordle/apps/go-server/internal/store"
	"github.com/robalobadob/colordle/apps/go-server/internal/suggest"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Configuration is loaded once per
// invocation, before any subcommand runs.
func NewRootCmd() *cobra.Command {
	var cfg config.Config
	root := &cobra.Command{
		Use:   "colordle",
		Short: "Colordle daily colour guessing game server",
		Long: `Colordle is a daily puzzle where players guess the RGB channels of a
hidden colour, with per-channel feedback inside a tolerance.

This binary serves the JSON API and provides operator commands for
curating the calendar of daily colours.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			cfg = c
			setupLogging(cfg, cmd.ErrOrStderr())
			return nil
		},
	}
	get := func() config.Config { return cfg }
	root.AddCommand(newServeCmd(get))
	root.AddCommand(newCatalogCmd(get))
	root.AddCommand(newSuggestCmd(get))
	return root
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global logger.
func setupLogging(cfg config.Config, w io.Writer) {
	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
	} else {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}
}

// app is the set of collaborators every command works with.
type app struct {
	kv       store.KV
	catalog  *catalog.Catalog
	progress *daily.Store
	suggest  suggest.Source
	close    func() error
}

func openApp(ctx context.Context, cfg config.Config) (*app, error) {
	kv, closeFn, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	opts := []catalog.Option{catalog.WithLocation(cfg.Location)}
	if cfg.DailySalt != "" {
		opts = append(opts, catalog.WithGenerator(catalog.SaltedGenerator(cfg.DailySalt)))
	}
	a := &app{
		kv:       kv,
		catalog:  catalog.New(kv, opts...),
		progress: daily.NewStore(kv),
		suggest:  suggest.None{},
		close:    closeFn,
	}
	if cfg.GoogleAPIKey != "" {
		g, err := suggest.NewGemini(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.SuggestTimeout)
		if err != nil {
			log.Warn().Err(err).Msg("color suggestions disabled")
		} else {
			a.suggest = g
		}
	}
	return a, nil
}
