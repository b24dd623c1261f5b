package cli

import (
	"github.com/spf13/cobra"
)

func buildCmd(opts *globalOptions) *cobra.Command {
	var mode string

	c := &cobra.Command{
		Use:   "build",
		Short: "Compile the crate and write the flavor's deployable loader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(opts, cmd.ErrOrStderr())

			p, err := a.loadProject()
			if err != nil {
				return err
			}

			build := p.Config.Build
			if mode != "" {
				resolved, err := p.Config.Resolve(mode)
				if err != nil {
					return err
				}
				build = resolved.Build
			}

			res, err := a.builder().Execute(cmd.Context(), p.Root, build)
			if err != nil {
				return err
			}

			printBuild(cmd.OutOrStdout(), DefaultTheme(), p.Root, res)
			return nil
		},
	}

	c.Flags().StringVarP(&mode, "mode", "m", "", "Apply this deploy mode's build overrides")
	return c
}
