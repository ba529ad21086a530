package pkg

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/ulikunitz/xz"
)

// PackDist archives the named distribution directory below distRoot into
// <distName>.tar.xz in outDir. The archive carries the distribution name as
// its single top-level directory.
func PackDist(distRoot, distName, outDir string) (string, error) {
	outPath := filepath.Join(outDir, distName+".tar.xz")
	handle, err := os.Create(outPath)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to create %s", outPath)
	}
	defer handle.Close()

	xzWriter, err := xz.NewWriter(handle)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to initialize xz stream for %s", outPath)
	}

	tarWriter := tar.NewWriter(xzWriter)
	bar := getProgressBar(-1, "      pack")

	source := filepath.Join(distRoot, distName)
	err = filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "Failed to walk %s", path)
		}

		rel, err := filepath.Rel(distRoot, path)
		if err != nil {
			return eris.Wrapf(err, "Failed to resolve %s", path)
		}

		info, err := entry.Info()
		if err != nil {
			return eris.Wrapf(err, "Failed to stat %s", path)
		}

		link := ""
		if entry.Type()&fs.ModeSymlink != 0 {
			link, err = os.Readlink(path)
			if err != nil {
				return eris.Wrapf(err, "Failed to read symlink %s", path)
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return eris.Wrapf(err, "Failed to build archive entry for %s", path)
		}
		header.Name = filepath.ToSlash(rel)
		if entry.IsDir() {
			header.Name += "/"
		}

		err = tarWriter.WriteHeader(header)
		if err != nil {
			return eris.Wrapf(err, "Failed to write archive entry for %s", path)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		itemHandle, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "Failed to open %s", path)
		}
		defer itemHandle.Close()

		_, err = io.Copy(io.MultiWriter(tarWriter, bar), itemHandle)
		if err != nil {
			return eris.Wrapf(err, "Failed to pack %s", path)
		}

		return nil
	})
	if err != nil {
		return "", err
	}
	bar.Finish()

	err = tarWriter.Close()
	if err != nil {
		return "", eris.Wrapf(err, "Failed to finish archive %s", outPath)
	}

	err = xzWriter.Close()
	if err != nil {
		return "", eris.Wrapf(err, "Failed to finish xz stream for %s", outPath)
	}

	err = handle.Close()
	if err != nil {
		return "", eris.Wrapf(err, "Failed to finish writing %s", outPath)
	}

	return outPath, nil
}
