package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shireesh.com/appconfig/internal/generator"
	"shireesh.com/appconfig/internal/targets"
)

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check [target...]",
		Short: "Validate app_config.yml without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := targets.Select(args)
			if err != nil {
				return err
			}

			invalid := 0
			for _, t := range selected {
				g, err := generator.New(c.settings.Project, t,
					generator.WithLogger(c.log),
					generator.WithDiagnostics(cmd.ErrOrStderr()),
				)
				if err != nil {
					return err
				}
				if errs := g.Check(); !errs.Empty() {
					invalid++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", t.ConfigFile())
			}

			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalid, invalid, len(selected))
			}
			return nil
		},
	}
}
