package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/interp"
)

// DebugEnvVar turns on debug mode just like --debug: verbose tracing plus a
// fixed, retained workspace.
const DebugEnvVar = "DISTTOOL_DEBUG"

var rootCmd = &cobra.Command{
	Use:   "disttool",
	Short: "Builds portable fio release distributions",
	Long: `This tool packages the latest stable upstream fio release into a
self-installing tar.xz archive. It discovers the release tag, downloads and
builds the source and wraps the stripped result together with an install
script.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to release.yml (default: working directory, then next to the executable)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose tracing; reuse and keep a fixed workspace")
}

func debugEnabled(cmd *cobra.Command) bool {
	flag, err := cmd.Flags().GetBool("debug")
	if err == nil && flag {
		return true
	}

	value := os.Getenv(DebugEnvVar)
	return value != "" && value != "0" && value != "false"
}

// exitStatus recovers the failing external command's exit status from the
// wrap chain. Shell steps surface it as interp.ExitStatus, directly executed
// tools (strip, apt-get) as *exec.ExitError. Anything else exits 1.
func exitStatus(err error) int {
	var shellStatus interp.ExitStatus
	if errors.As(err, &shellStatus) {
		return int(shellStatus)
	}

	var execErr *exec.ExitError
	if errors.As(err, &execErr) && execErr.ExitCode() > 0 {
		return execErr.ExitCode()
	}

	return 1
}

func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, eris.ToString(err, os.Getenv(DebugEnvVar) != ""))
	os.Exit(exitStatus(err))
}
