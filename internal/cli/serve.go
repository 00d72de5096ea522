package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colordle/apps/go-server/internal/config"
	"github.com/robalobadob/colordle/apps/go-server/internal/httpserver"
	"github.com/robalobadob/colordle/apps/go-server/internal/store"
)

func newServeCmd(cfg func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on PORT until interrupted.

Storage is selected with DB_DRIVER (sqlite3, postgres or memory) and
DB_DSN. The admin surface is enabled when ADMIN_PASSWORD or
ADMIN_PASSWORD_HASH is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, c)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.close(); err != nil {
					log.Warn().Err(err).Msg("close store")
				}
			}()

			if !c.AdminEnabled() {
				log.Warn().Msg("ADMIN_PASSWORD not set; admin routes will reject every login")
			}
			srv, err := httpserver.New(c, httpserver.Deps{
				Catalog:  a.catalog,
				Progress: a.progress,
				Games:    store.NewMemoryGames(),
				Suggest:  a.suggest,
			})
			if err != nil {
				return err
			}
			log.Info().Str("driver", c.DBDriver).Str("tz", c.Location.String()).Msg("storage ready")
			return srv.Run(ctx)
		},
	}
}
