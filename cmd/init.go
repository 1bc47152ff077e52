package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shireesh.com/appconfig/internal/document"
	"shireesh.com/appconfig/internal/generator"
	"shireesh.com/appconfig/internal/targets"
)

var errDescriptorExists = errors.New("descriptor already exists")

func newInitCmd(c *cli) *cobra.Command {
	var (
		name         string
		environments []string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter app_config.yml and config/ directory",
		Long: `Write a starter app_config.yml declaring the given environments with a
sample section for every target, and create the config/ output directory.
Values not passed as flags are prompted for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project := c.settings.Project
			path := document.Path(project)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", errDescriptorExists, path)
			}

			var err error
			if name == "" {
				name, err = inputPrompt("Application name", filepath.Base(project))
				if err != nil {
					return err
				}
			}
			if len(environments) == 0 {
				raw, err := inputPrompt("Environments (comma separated)", "development,production")
				if err != nil {
					return err
				}
				environments = splitList(raw)
			}
			if len(environments) == 0 {
				return errors.New("at least one environment is required")
			}

			b, err := document.Encode(targets.Skeleton(name, environments))
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Join(project, generator.OutputDir), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, b, 0o644); err != nil {
				return err
			}

			c.log.Info("descriptor written", zap.String("path", path), zap.Strings("environments", environments))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "application name")
	flags.StringSliceVar(&environments, "environments", nil, "environment names, comma separated")
	flags.BoolVar(&force, "force", false, "overwrite an existing "+document.FileName)
	return cmd
}

func inputPrompt(label, def string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: def,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value required")
			}
			return nil
		},
	}
	return prompt.Run()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
