package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fiodist/disttool/pkg"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Prints the release tag the next build would package",
	Long: `Runs only the version discovery step: lists the upstream tags, filters
out pre-releases and prints the selected tag together with the distribution
name it would produce.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		tags, err := pkg.ListRemoteTags(cfg.Upstream)
		if err != nil {
			return err
		}

		tag, err := pkg.SelectRelease(cfg.TagPrefix, tags)
		if err != nil {
			return err
		}

		fmt.Println(tag)
		fmt.Println(pkg.DistName(cfg, tag, pkg.RepoDescriptor(cfg.BaseDir())))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(latestCmd)
}
