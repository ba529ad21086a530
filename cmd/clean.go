package cmd

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fiodist/disttool/pkg"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes the debug workspace and any shared download cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}

		targets := []string{pkg.DebugWorkspacePath()}
		if cache := cacheOverrideDir(); cache != "" {
			targets = append(targets, cache)
		}

		for _, target := range targets {
			_, err := os.Stat(target)
			if err != nil {
				if eris.Is(err, os.ErrNotExist) {
					if force {
						continue
					}
					return eris.Errorf("%s does not exist", target)
				}
				return eris.Wrapf(err, "Could not stat %s", target)
			}

			pkg.PrintSubtask("Removing " + target)
			err = os.RemoveAll(target)
			if err != nil {
				return eris.Wrapf(err, "Could not delete %s", target)
			}
		}

		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolP("force", "f", false, "suppresses errors caused by missing directories")
	rootCmd.AddCommand(cleanCmd)
}
