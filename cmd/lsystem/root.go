package main

import (
	"github.com/hananel42/L-system-studio/internal/ctxlog"
	"github.com/hananel42/L-system-studio/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "lsystem",
		Short: "lsystem expands parametric, stochastic L-systems",
		Long: `lsystem reads grammar files (YAML interchange format or HCL), rewrites the
axiom for the requested number of generations and prints the resulting
sequence or the line segments a turtle draws from it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := logging.New(cmd.ErrOrStderr(), level)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	// Persistent flags (available to all commands)
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newExpandCmd(),
		newRenderCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)
	return cmd
}
