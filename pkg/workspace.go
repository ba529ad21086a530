package pkg

import (
	"os"
	"path/filepath"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
)

// CacheDirEnvVar overrides the download cache location. Pointing it at a
// persistent directory lets normal-mode runs share downloads.
const CacheDirEnvVar = "DISTTOOL_CACHE_DIR"

// Workspace is the ephemeral directory tree one build run works in. It is
// passed explicitly through the pipeline instead of living in a global so
// cleanup can't observe a half-updated state.
type Workspace struct {
	Root     string
	BuildDir string
	CacheDir string
	SrcDir   string
	DistDir  string

	// Keep disables Cleanup. Set in debug mode so the tree can be inspected.
	Keep bool
}

// DebugWorkspacePath returns the fixed workspace root used in debug mode.
// Two concurrent debug runs race on this path; that's an accepted limitation.
func DebugWorkspacePath() string {
	return filepath.Join(os.TempDir(), "disttool-build")
}

// NewWorkspace creates the directory tree for one run. Normal mode uses a
// uniquely named root under the system temp dir; debug mode reuses the fixed
// path from DebugWorkspacePath() and clears everything except the download
// cache.
func NewWorkspace(debug bool) (*Workspace, error) {
	var root string
	if debug {
		root = DebugWorkspacePath()
	} else {
		root = filepath.Join(os.TempDir(), "disttool-"+nanoid.New())
	}

	ws := &Workspace{
		Root:     root,
		BuildDir: filepath.Join(root, "build"),
		CacheDir: filepath.Join(root, "cache"),
		SrcDir:   filepath.Join(root, "src"),
		DistDir:  filepath.Join(root, "dist"),
		Keep:     debug,
	}

	if override := os.Getenv(CacheDirEnvVar); override != "" {
		ws.CacheDir = override
	}

	if debug {
		// The cache survives debug reruns, everything else starts fresh.
		for _, dir := range []string{ws.BuildDir, ws.SrcDir, ws.DistDir} {
			err := os.RemoveAll(dir)
			if err != nil {
				return nil, eris.Wrapf(err, "Failed to clear %s", dir)
			}
		}
	}

	for _, dir := range []string{ws.BuildDir, ws.CacheDir, ws.SrcDir, ws.DistDir} {
		err := os.MkdirAll(dir, os.FileMode(0770))
		if err != nil {
			return nil, eris.Wrapf(err, "Failed to create %s", dir)
		}
	}

	return ws, nil
}

// Cleanup removes the workspace unless retention was requested. It's meant
// to run deferred and is best-effort; a failed removal only prints a warning.
func (w *Workspace) Cleanup() {
	if w.Keep {
		PrintSubtask("Keeping workspace " + w.Root)
		return
	}

	err := os.RemoveAll(w.Root)
	if err != nil {
		PrintError("Failed to remove workspace " + w.Root + ": " + err.Error())
	}
}
