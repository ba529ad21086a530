package pkg

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/ulikunitz/xz"
)

// ExtractSnapshot unpacks a source snapshot into destDir, dropping the given
// number of leading path elements. Snapshot services wrap everything in a
// single <repo>-<tag> directory, so strip is usually 1.
func ExtractSnapshot(archivePath, destDir string, strip int) error {
	handle, err := os.Open(archivePath)
	if err != nil {
		return eris.Wrapf(err, "Failed to open %s", archivePath)
	}
	defer handle.Close()

	var reader io.Reader
	switch {
	case strings.HasSuffix(archivePath, ".tar.gz"):
		gzReader, err := gzip.NewReader(handle)
		if err != nil {
			return eris.Wrapf(err, "Failed to read gzip header of %s", archivePath)
		}
		defer gzReader.Close()
		reader = gzReader
	case strings.HasSuffix(archivePath, ".tar.bz2"):
		reader = bzip2.NewReader(handle)
	case strings.HasSuffix(archivePath, ".tar.xz"):
		xzReader, err := xz.NewReader(handle)
		if err != nil {
			return eris.Wrapf(err, "Failed to read xz header of %s", archivePath)
		}
		reader = xzReader
	default:
		return eris.Errorf("Archive format of %s not supported", archivePath)
	}

	return extractTar(reader, destDir, strip)
}

// strippedPath drops the first strip elements from a tar entry name and
// joins the rest below destDir. It returns "" for entries consumed entirely
// by the stripping (the wrapper directory itself) and an error for entries
// whose remaining ".." elements would resolve outside destDir.
func strippedPath(destDir, name string, strip int) (string, error) {
	parts := strings.Split(filepath.Clean(filepath.FromSlash(name)), string(filepath.Separator))
	if len(parts) <= strip {
		return "", nil
	}

	dest := filepath.Join(destDir, strings.Join(parts[strip:], string(filepath.Separator)))
	rel, err := filepath.Rel(destDir, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", eris.Errorf("Archive entry %s resolves outside the destination directory", name)
	}

	return dest, nil
}

func extractTar(r io.Reader, destDir string, strip int) error {
	archive := tar.NewReader(r)

	for {
		item, err := archive.Next()
		if err != nil {
			if err == io.EOF {
				break
			}

			return eris.Wrap(err, "Failed to read archive entry")
		}

		fi := item.FileInfo()
		if fi.IsDir() {
			continue
		}

		dest, err := strippedPath(destDir, item.Name, strip)
		if err != nil {
			return err
		}
		if dest == "" {
			continue
		}

		destParent := filepath.Dir(dest)
		err = os.MkdirAll(destParent, os.FileMode(0770))
		if err != nil {
			return eris.Wrapf(err, "Failed to create directory %s", destParent)
		}

		if item.Typeflag == tar.TypeSymlink {
			err = os.Symlink(item.Linkname, dest)
			if err != nil {
				return eris.Wrapf(err, "Failed to create symlink %s pointing to %s", dest, item.Linkname)
			}
			continue
		}

		destHandle, err := os.Create(dest)
		if err != nil {
			return eris.Wrapf(err, "Failed to create file %s", dest)
		}

		_, err = io.Copy(destHandle, archive)
		if err != nil {
			destHandle.Close()
			return eris.Wrapf(err, "Failed to write extracted file %s", dest)
		}

		err = destHandle.Close()
		if err != nil {
			return eris.Wrapf(err, "Failed to finish writing %s", dest)
		}

		err = os.Chmod(dest, fi.Mode())
		if err != nil {
			return eris.Wrapf(err, "Failed to set permissions on %s", dest)
		}
	}

	return nil
}
