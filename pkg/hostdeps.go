package pkg

import (
	"os"
	"os/exec"

	"github.com/rotisserie/eris"
)

// InstallHostPackages installs the compiler toolchain and development
// libraries through apt-get. A failure here is fatal for the run; there is
// no partial-dependency fallback.
func InstallHostPackages(packages []string) error {
	if len(packages) == 0 {
		return nil
	}

	args := append([]string{"install", "-y", "--no-install-recommends"}, packages...)
	cmd := exec.Command("apt-get", args...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout

	err := cmd.Run()
	if err != nil {
		return eris.Wrap(err, "Failed to install host packages")
	}

	return nil
}
