package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Resolve every injector and write its plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("out")
			force, _ := cmd.Flags().GetBool("force")
			watch, _ := cmd.Flags().GetBool("watch")

			opts := c.runOptions()
			opts.OutDir = out
			opts.Force = force
			if watch {
				return c.app.Watch(cmd.Context(), opts)
			}
			return c.app.Generate(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("out", "o", "gen", "Directory the plans are written to")
	cmd.Flags().BoolP("force", "f", false, "Regenerate injectors whose declarations did not change")
	cmd.Flags().BoolP("watch", "w", false, "Regenerate whenever the declaration file changes")
	return cmd
}

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve every injector and report problems without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Check(cmd.Context(), c.runOptions())
		},
	}
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Forget previous generations so the next run writes everything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context())
		},
	}
}
