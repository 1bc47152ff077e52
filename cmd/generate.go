package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shireesh.com/appconfig/internal/bundle"
	"shireesh.com/appconfig/internal/generator"
	"shireesh.com/appconfig/internal/targets"
	"shireesh.com/appconfig/internal/tui"
)

var errNothingSelected = errors.New("no config files selected")

func newGenerateCmd(c *cli) *cobra.Command {
	var (
		interactive bool
		archive     string
	)

	cmd := &cobra.Command{
		Use:     "generate [target...]",
		Aliases: []string{"gen", "g"},
		Short:   "Validate app_config.yml and write the config files under config/",
		Long: `Validate each target's section of app_config.yml and write its config file
under config/. Targets are named by file (database.yml) or section (database);
with no arguments every target is generated. Invalid sections are reported
and skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if interactive {
				picked, err := tui.SelectTargets(targets.Names())
				if err != nil {
					return err
				}
				if len(picked) == 0 {
					return errNothingSelected
				}
				names = picked
			}

			selected, err := targets.Select(names)
			if err != nil {
				return err
			}

			results, err := generator.Run(cmd.Context(), c.settings.Project, selected, generator.RunOptions{
				Parallelism: c.settings.Parallelism,
				Diagnostics: cmd.ErrOrStderr(),
				Logger:      c.log,
			})
			if err != nil {
				return err
			}

			var written []string
			for _, res := range results {
				if !res.Written {
					continue
				}
				written = append(written, res.Path)
				rel, err := filepath.Rel(c.settings.Project, res.Path)
				if err != nil {
					rel = res.Path
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", rel)
			}

			if archive != "" && len(written) > 0 {
				if err := bundle.Write(archive, c.settings.Project, written); err != nil {
					return fmt.Errorf("archive %s: %w", archive, err)
				}
				c.log.Info("archive written", zap.String("path", archive), zap.Int("files", len(written)))
			}

			if skipped := len(results) - len(written); skipped > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalid, skipped, len(results))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&interactive, "interactive", "i", false, "pick targets interactively")
	flags.StringVar(&archive, "archive", "", "also zip the written files into this archive")
	flags.Int("parallelism", 0, "generators run at once (default number of CPUs)")
	return cmd
}
