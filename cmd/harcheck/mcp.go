package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/harcheck/pkg/mcpsrv"
)

func newMCPCmd() *cobra.Command {
	var logLevel, logFile string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the validator as an MCP tool over stdio",
		Long: `Serve harcheck over the Model Context Protocol on stdin/stdout.
Configuration is read from the environment (LOG_LEVEL, LOG_FILE,
VALIDATE_WORKERS, SCHEMA_CACHE_MAX_ITEMS, IGNORE_HEADER_VALUES, ...).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, err := mcpsrv.NewServer(
				mcpsrv.WithLogLevel(logLevel),
				mcpsrv.WithLogFile(logFile),
			)
			if err != nil {
				return err
			}
			defer func() { _ = server.Close() }()

			slog.Info("starting harcheck MCP server on stdio")
			if err := server.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	cmd.Flags().StringVar(&logFile, "log-file", "", "override LOG_FILE")
	return cmd
}
