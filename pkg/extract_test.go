package pkg

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tarEntry struct {
	name string
	body string
	mode int64
	link string
}

func writeSnapshot(t *testing.T, path string, entries []tarEntry) {
	t.Helper()

	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzWriter)

	for _, entry := range entries {
		header := &tar.Header{
			Name: entry.name,
			Mode: entry.mode,
			Size: int64(len(entry.body)),
		}
		if entry.link != "" {
			header.Typeflag = tar.TypeSymlink
			header.Linkname = entry.link
			header.Size = 0
		}

		require.NoError(t, tarWriter.WriteHeader(header))
		if entry.link == "" {
			_, err := tarWriter.Write([]byte(entry.body))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzWriter.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0660))
}

func TestExtractSnapshotStripsWrapperDirectory(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "fio-3.31.tar.gz")
	writeSnapshot(t, archive, []tarEntry{
		{name: "fio-fio-3.31/Makefile", body: "all:\n", mode: 0644},
		{name: "fio-fio-3.31/configure", body: "#!/bin/sh\n", mode: 0755},
		{name: "fio-fio-3.31/os/os-linux.h", body: "// linux\n", mode: 0644},
	})

	destDir := filepath.Join(dir, "src")
	require.NoError(t, ExtractSnapshot(archive, destDir, 1))

	data, err := os.ReadFile(filepath.Join(destDir, "Makefile"))
	require.NoError(t, err)
	assert.Equal(t, "all:\n", string(data))

	info, err := os.Stat(filepath.Join(destDir, "configure"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111, "executable bit must survive extraction")

	_, err = os.Stat(filepath.Join(destDir, "os", "os-linux.h"))
	assert.NoError(t, err)

	// nothing named after the wrapper may appear below destDir
	_, err = os.Stat(filepath.Join(destDir, "fio-fio-3.31"))
	assert.Error(t, err)
}

func TestExtractSnapshotRecreatesSymlinks(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "snap.tar.gz")
	writeSnapshot(t, archive, []tarEntry{
		{name: "wrap/bin/fio", body: "bin", mode: 0755},
		{name: "wrap/bin/fio-latest", link: "fio"},
	})

	destDir := filepath.Join(dir, "src")
	require.NoError(t, ExtractSnapshot(archive, destDir, 1))

	target, err := os.Readlink(filepath.Join(destDir, "bin", "fio-latest"))
	require.NoError(t, err)
	assert.Equal(t, "fio", target)
}

func TestExtractSnapshotRejectsUnknownFormats(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "snap.rar")
	require.NoError(t, os.WriteFile(archive, []byte("not an archive"), 0660))

	err := ExtractSnapshot(archive, filepath.Join(dir, "src"), 1)
	require.Error(t, err)
}

func TestStrippedPath(t *testing.T) {
	dest, err := strippedPath("/dest", "wrap/a/b", 1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/dest", "a", "b"), dest)

	dest, err = strippedPath("/dest", "wrap", 1)
	require.NoError(t, err)
	assert.Equal(t, "", dest)

	dest, err = strippedPath("/dest", "wrap/a", 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/dest", "wrap", "a"), dest)
}

func TestStrippedPathRejectsEscapingEntries(t *testing.T) {
	// after cleaning, more ".." elements remain than stripping consumes
	_, err := strippedPath("/dest", "wrap/../../../x", 1)
	require.Error(t, err)

	_, err = strippedPath("/dest", "../x", 0)
	require.Error(t, err)
}

func TestExtractSnapshotRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "snap.tar.gz")
	writeSnapshot(t, archive, []tarEntry{
		{name: "wrap/ok.txt", body: "ok", mode: 0644},
		{name: "wrap/../../../evil.txt", body: "evil", mode: 0644},
	})

	destDir := filepath.Join(dir, "src")
	err := ExtractSnapshot(archive, destDir, 1)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "evil.txt"))
	assert.True(t, os.IsNotExist(statErr), "no file may land outside the destination")
}
