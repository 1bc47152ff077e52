package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shireesh.com/appconfig/internal/document"
	"shireesh.com/appconfig/internal/logger"
)

var errInvalid = errors.New("config files left ungenerated")

// cli carries what the persistent pre-run resolved to the subcommands.
type cli struct {
	settings Settings
	log      *zap.Logger
}

// NewRootCmd builds the appconfig command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "appconfig",
		Short:         "Generate per-environment config files from app_config.yml",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			log, err := logger.New(logger.Options{Level: s.LogLevel, File: s.LogFile})
			if err != nil {
				return err
			}
			c.settings = s
			c.log = log
			c.log.Debug("settings resolved",
				zap.String("project", s.Project),
				zap.Int("parallelism", s.Parallelism),
			)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.log.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("project", "p", ".", "project root containing "+document.FileName)
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-file", "", "also write JSON logs to this file")

	rootCmd.AddCommand(
		newGenerateCmd(c),
		newCheckCmd(c),
		newListCmd(),
		newInitCmd(c),
	)
	return rootCmd
}

func Execute() {
	err := NewRootCmd().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
