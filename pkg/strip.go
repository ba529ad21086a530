package pkg

import (
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// GNU binutils prints this when asked to strip something that isn't an
// object file, e.g. a wrapper shell script sitting next to the binaries.
const unrecognizedFormat = "file format not recognized"

// stripTolerated reports whether a failed strip invocation may be ignored.
// Only the "not an object file" complaint qualifies; anything else (missing
// file, truncated binary, permission problem) stays fatal.
func stripTolerated(output []byte) bool {
	return strings.Contains(string(output), unrecognizedFormat)
}

// StripBinaries strips debug symbols from every executable file below root.
func StripBinaries(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "Failed to walk %s", path)
		}

		if entry.IsDir() || entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return eris.Wrapf(err, "Failed to stat %s", path)
		}

		if info.Mode()&0111 == 0 {
			return nil
		}

		output, err := exec.Command("strip", path).CombinedOutput()
		if err != nil {
			if stripTolerated(output) {
				PrintWarning("Skipped " + path + " (not a binary)")
				return nil
			}

			return eris.Wrapf(err, "Failed to strip %s: %s", path, strings.TrimSpace(string(output)))
		}

		return nil
	})
}
