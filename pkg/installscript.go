package pkg

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// DistPlaceholder is the token the install script template carries where the
// distribution name belongs.
const DistPlaceholder = "{DIST_NAME}"

// RenderInstallScript substitutes the distribution name into the template
// and writes the result to destPath with the executable bit set.
func RenderInstallScript(templatePath, destPath, distName string) error {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return eris.Wrapf(err, "Could not open template %s", templatePath)
	}

	content := string(data)
	if !strings.Contains(content, DistPlaceholder) {
		return eris.Errorf("Template %s does not contain the %s placeholder", templatePath, DistPlaceholder)
	}

	rendered := strings.ReplaceAll(content, DistPlaceholder, distName)

	err = os.WriteFile(destPath, []byte(rendered), os.FileMode(0755))
	if err != nil {
		return eris.Wrapf(err, "Failed to write install script %s", destPath)
	}

	// WriteFile only applies the mode on creation; debug reruns reuse files.
	err = os.Chmod(destPath, os.FileMode(0755))
	if err != nil {
		return eris.Wrapf(err, "Failed to mark %s as executable", destPath)
	}

	return nil
}
