package pkg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}

func TestRunStepExecutesInTheStepDirectory(t *testing.T) {
	dir := t.TempDir()

	err := RunStep(testCtx(), Step{
		Name:   "configure",
		Script: "echo configured > marker.txt",
		Dir:    dir,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "marker.txt"))
	require.NoError(t, err)
	assert.Equal(t, "configured\n", string(data))
}

func TestRunStepExposesEnvVars(t *testing.T) {
	dir := t.TempDir()

	err := RunStep(testCtx(), Step{
		Name:   "build",
		Script: `printf '%s' "$PREFIX" > prefix.txt`,
		Dir:    dir,
		Env:    map[string]string{"PREFIX": "/opt/fio-3.31-dist"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "prefix.txt"))
	require.NoError(t, err)
	assert.Equal(t, "/opt/fio-3.31-dist", string(data))
}

func TestRunStepStopsAtTheFirstFailure(t *testing.T) {
	dir := t.TempDir()

	err := RunStep(testCtx(), Step{
		Name:   "install",
		Script: "false\necho too-late > marker.txt",
		Dir:    dir,
	})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "marker.txt"))
	assert.True(t, os.IsNotExist(statErr), "commands after a failure must not run")
}

func TestRunStepRejectsBrokenScripts(t *testing.T) {
	err := RunStep(testCtx(), Step{
		Name:   "configure",
		Script: "if then fi",
		Dir:    t.TempDir(),
	})
	require.Error(t, err)
}
