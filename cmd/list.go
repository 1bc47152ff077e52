package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shireesh.com/appconfig/internal/targets"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the config files appconfig can generate",
		Args:  cobra.NoArgs,
		// Listing needs neither a project nor a logger.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range targets.Names() {
				t, _ := targets.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s (section %q): %s\n",
					t.ConfigFile(), t.Key(), strings.Join(t.RequiredKeys(), ", "))
			}
		},
	}
}
