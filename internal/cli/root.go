package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/screepsdeploy/internal/infra/logger"
	"github.com/aalvaropc/screepsdeploy/internal/infra/wasmpack"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), DefaultTheme(), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var cleanup func() error

	cmd := &cobra.Command{
		Use:           "screepsdeploy",
		Short:         "Build a Rust crate to wasm and deploy it to Screeps World or Arena",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cleanup, err = logger.Setup(logger.Config{
				Verbosity: opts.verbose,
				Out:       cmd.ErrOrStderr(),
			})
			return err
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if cleanup != nil {
				return cleanup()
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Configuration file (default: search upward for screeps.toml)")
	pf.CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	pf.StringVar(&opts.compiler, "compiler", wasmpack.DefaultCommand, "Compiler command line")

	cmd.AddCommand(
		buildCmd(opts),
		deployCmd(opts),
		shortcutCmd(opts, "copy"),
		shortcutCmd(opts, "upload"),
		initCmd(),
		versionCmd(),
	)
	return cmd
}
