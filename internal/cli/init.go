package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/screepsdeploy/internal/infra/fsworkspace"
	"github.com/aalvaropc/screepsdeploy/internal/usecase"
)

func initCmd() *cobra.Command {
	var force bool
	var name string

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write an example screeps.toml and .gitignore entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid directory %q: %w", dir, err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(root, name, force); err != nil {
				return err
			}

			theme := DefaultTheme()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", theme.OK.Render("initialized"), root)
			if _, err := os.Stat(filepath.Join(root, "Cargo.toml")); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), theme.Subtle.Render("no Cargo.toml here yet; create the crate before building"))
			}
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "Overwrite an existing screeps.toml")
	c.Flags().StringVar(&name, "name", "", "out_name to put in the example (default: directory name)")
	return c
}
