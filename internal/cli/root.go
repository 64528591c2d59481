// Package cli implements the readingroom command-line interface. The
// sweeps have no internal timer: an external scheduler (cron, systemd
// timer, orchestrator) invokes them through these commands.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/arkivdk/readingroom/internal/config"
	"github.com/arkivdk/readingroom/internal/notify"
	"github.com/arkivdk/readingroom/internal/repo"
	"github.com/arkivdk/readingroom/internal/services"
	"github.com/arkivdk/readingroom/internal/sysutil"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	EnvFile string
	DBPath  string

	cfg config.Config
	log zerolog.Logger
}

// NewRootCommand creates the root command for the readingroom CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "readingroom",
		Short: "Reading-room reservation maintenance commands",
		Long: `readingroom manages the archive reading-room reservation store:
schema migration, the nightly expiry sweep, the renewal reminder sweep,
and audit log inspection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.EnvFile != "" {
				if err := godotenv.Load(opts.EnvFile); err != nil {
					return err
				}
			} else {
				// Default .env is optional.
				_ = godotenv.Load()
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.DBPath = sysutil.FirstNonEmpty(opts.DBPath, cfg.DBPath)
			opts.cfg = cfg

			sysutil.SetLogLevel(cfg.LogLevel)
			if cfg.LogPretty {
				opts.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			} else {
				opts.log = zerolog.New(os.Stderr).With().Timestamp().Logger()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", "", "path to a .env file (default: ./.env when present)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (overrides DB_PATH)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewExpireCommand(opts))
	cmd.AddCommand(NewRemindCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))

	return cmd
}

// openDB opens the configured SQLite database.
func openDB(opts *RootOptions) (*gorm.DB, error) {
	return repo.OpenSQLite(opts.cfg.DBPath)
}

// newService wires an OrderService with the log-backed notifier.
func newService(opts *RootOptions, db *gorm.DB) *services.OrderService {
	return services.NewOrderService(
		db,
		notify.LogNotifier{Log: opts.log},
		opts.cfg.Policy,
		opts.cfg.ClientURL,
		opts.log,
	)
}
