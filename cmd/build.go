package cmd

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fiodist/disttool/pkg"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds and packages the latest upstream release",
	Long: `Runs the whole pipeline: workspace setup, host dependency installation,
release discovery, snapshot download, build, stripping and packaging. The
resulting <dist-name>.tar.xz is written to the current directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		skipHostDeps, err := cmd.Flags().GetBool("skip-host-deps")
		if err != nil {
			return err
		}

		debug := debugEnabled(cmd)
		logger := newLogger(debug)
		ctx := pkg.WithLogger(context.Background(), &logger)

		// The archive lands here, not in the workspace, so it survives
		// cleanup.
		invokeDir, err := os.Getwd()
		if err != nil {
			return eris.Wrap(err, "Failed to retrieve the current working directory")
		}

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		pkg.PrintTask("Setting up workspace")
		ws, err := pkg.NewWorkspace(debug)
		if err != nil {
			return err
		}
		defer ws.Cleanup()
		pkg.PrintSubtask(ws.Root)

		if skipHostDeps {
			pkg.PrintTask("Skipping host packages")
		} else {
			pkg.PrintTask("Installing host packages")
			err = pkg.InstallHostPackages(cfg.HostPackages)
			if err != nil {
				return err
			}
		}

		pkg.PrintTask("Discovering latest release")
		tags, err := pkg.ListRemoteTags(cfg.Upstream)
		if err != nil {
			return err
		}

		tag, err := pkg.SelectRelease(cfg.TagPrefix, tags)
		if err != nil {
			return err
		}

		dist := pkg.DistName(cfg, tag, pkg.RepoDescriptor(cfg.BaseDir()))
		pkg.PrintSubtask(tag + " -> " + dist)

		pkg.PrintTask("Fetching source snapshot")
		snapshot, err := pkg.FetchSnapshot(cfg, ws, tag)
		if err != nil {
			return err
		}

		pkg.PrintTask("Extracting source")
		err = pkg.ExtractSnapshot(snapshot, ws.SrcDir, *cfg.Strip)
		if err != nil {
			return err
		}

		pkg.PrintTask("Building")
		prefix := filepath.Join(ws.DistDir, dist)
		vars := map[string]string{
			"SRC":    ws.SrcDir,
			"PREFIX": prefix,
			"NPROC":  strconv.Itoa(runtime.NumCPU()),
			"DIST":   dist,
		}

		steps := []pkg.Step{
			{Name: "configure", Script: cfg.Steps.Configure},
			{Name: "build", Script: cfg.Steps.Build},
			{Name: "install", Script: cfg.Steps.Install},
		}
		for _, step := range steps {
			if step.Script == "" {
				return eris.Errorf("No %s step configured", step.Name)
			}

			step.Script = pkg.ExpandVars(step.Script, vars)
			step.Dir = ws.BuildDir
			step.Env = vars
			err = pkg.RunStep(ctx, step)
			if err != nil {
				return err
			}
		}

		pkg.PrintTask("Stripping binaries")
		err = pkg.StripBinaries(prefix)
		if err != nil {
			return err
		}

		pkg.PrintTask("Rendering install script")
		err = pkg.RenderInstallScript(cfg.TemplatePath(), filepath.Join(prefix, cfg.InstallScript), dist)
		if err != nil {
			return err
		}

		pkg.PrintTask("Packing distribution")
		outPath, err := pkg.PackDist(ws.DistDir, dist, invokeDir)
		if err != nil {
			return err
		}

		pkg.PrintTask("Done")
		pkg.PrintSubtask(outPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().Bool("skip-host-deps", false, "don't run the package manager (the toolchain has to be present already)")
}
