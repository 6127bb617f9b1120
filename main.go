// apps/go-server/main.go
//
// Entry point for the code-breaking assistant.
// Commands:
//   - serve  HTTP API (sessions, daily puzzle, accounts)
//   - mcp    Model Context Protocol server on stdio
//   - play   interactive assistant in the terminal, or auto-play a secret
//   - bench  solve every secret of a configuration and report round counts
//   - check  count the possible codes of a configuration
//
// .env is loaded first; every command then reads internal/config.

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/apps/go-server/internal/config"
	"github.com/robalobadob/mastermind/apps/go-server/internal/palette"
)

// app carries the loaded configuration to subcommands.
type app struct {
	cfg config.Config
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "mastermind",
		Short:         "Mastermind code-breaking assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			setupLogging(cfg)
			if err := palette.Init(cfg.PalettesFile); err != nil {
				log.Warn().Err(err).Msg("palettes unavailable, only classic is known")
			}
			return nil
		},
	}
	root.AddCommand(
		a.serveCmd(),
		a.mcpCmd(),
		a.playCmd(),
		a.benchCmd(),
		a.checkCmd(),
	)
	return root
}

// setupLogging configures the global zerolog logger. Logs go to stderr so
// stdout stays free for the mcp transport and CLI output.
func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
