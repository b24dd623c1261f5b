package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func deployCmd(opts *globalOptions) *cobra.Command {
	var mode string
	var noSave bool

	c := &cobra.Command{
		Use:   "deploy",
		Short: "Build, then deploy with the selected mode (default: default_deploy_mode)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd, opts, mode, !noSave)
		},
	}

	c.Flags().StringVarP(&mode, "mode", "m", "", "Deploy mode name from the configuration")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not write a deploy receipt under .screeps/deploys")
	return c
}

// shortcutCmd deploys the mode named like the command itself.
func shortcutCmd(opts *globalOptions, mode string) *cobra.Command {
	var noSave bool

	c := &cobra.Command{
		Use:   mode,
		Short: fmt.Sprintf("Build, then run the %q deploy mode", mode),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd, opts, mode, !noSave)
		},
	}

	c.Flags().BoolVar(&noSave, "no-save", false, "Do not write a deploy receipt under .screeps/deploys")
	return c
}

func runDeploy(cmd *cobra.Command, opts *globalOptions, mode string, save bool) error {
	a := newApp(opts, cmd.ErrOrStderr())

	p, err := a.loadProject()
	if err != nil {
		return err
	}

	out, err := a.deployer(p.Root, save).Execute(cmd.Context(), p, mode)
	if err != nil {
		return err
	}

	theme := DefaultTheme()
	w := cmd.OutOrStdout()
	printBuild(w, theme, p.Root, out.Build)
	printDeploy(w, theme, p.Root, out)
	return nil
}
