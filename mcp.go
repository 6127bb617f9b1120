package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/apps/go-server/internal/mcptools"
)

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the assistant as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcptools.New(mcptools.Deps{
				Store:   a.sessionStore(cmd.Context()),
				Options: a.cfg.SolverOptions(),
				Ceiling: a.cfg.SpaceCeiling,
			})
			log.Info().Str("version", mcptools.Version).Msg("mcp server on stdio")
			return server.ServeStdio(s)
		},
	}
}
