package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/harcheck/internal/app"
	"github.com/usestring/harcheck/internal/config"
	"github.com/usestring/harcheck/internal/logging"
)

// errEntriesFailed is returned when the report was written but at least one
// entry failed. The report already says which, so main prints nothing more.
var errEntriesFailed = errors.New("one or more entries failed")

func newRootCmd(stdout io.Writer) *cobra.Command {
	var descriptionPath, logPath string

	cmd := &cobra.Command{
		Use:   "harcheck",
		Short: "Validate a HAR traffic log against an API description",
		Long: `harcheck matches every entry of a HAR traffic log to the endpoints of an
API description and reports, in TAP format, whether some endpoint accepts
both the captured request and the captured response.`,
		Example:       "  harcheck -a api.yaml -l traffic.har",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg.APIDescriptionPath = descriptionPath
			cfg.LogPath = logPath

			logCleanup, err := logging.Setup(logging.FromConfig(cfg))
			if err != nil {
				return fmt.Errorf("setting up logging: %w", err)
			}
			defer func() { _ = logCleanup() }()

			return runValidate(cmd, cfg, stdout)
		},
	}

	cmd.Flags().StringVarP(&descriptionPath, "apidescription", "a", "", "path to the API description (YAML or JSON)")
	cmd.Flags().StringVarP(&logPath, "log", "l", "", "path to the HAR traffic log")
	_ = cmd.MarkFlagRequired("apidescription")
	_ = cmd.MarkFlagRequired("log")

	cmd.AddCommand(newMCPCmd())
	return cmd
}

func runValidate(cmd *cobra.Command, cfg *config.Config, stdout io.Writer) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	summary, err := a.Run(cmd.Context(), stdout)
	if err != nil {
		return err
	}
	if !summary.OK() {
		slog.Debug("run finished with failures",
			slog.Int("pass", summary.Pass),
			slog.Int("fail", summary.Fail),
		)
		return errEntriesFailed
	}
	return nil
}
