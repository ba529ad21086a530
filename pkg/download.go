package pkg

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
)

func getProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.DefaultBytes(length, desc)
}

// SnapshotFilename returns the cache filename for a tag. The tag uniquely
// determines the snapshot contents, so the name is the whole cache key.
func SnapshotFilename(tag string) string {
	return tag + ".tar.gz"
}

// FetchSnapshot downloads the source snapshot for the selected tag into the
// workspace cache and returns its path. A file already present in the cache
// short-circuits the network fetch entirely. Downloads go through a temp
// file and are renamed into place so a failed transfer never poisons the
// cache.
func FetchSnapshot(cfg *ReleaseConfig, ws *Workspace, tag string) (string, error) {
	cached := filepath.Join(ws.CacheDir, SnapshotFilename(tag))
	_, err := os.Stat(cached)
	if err == nil {
		PrintSubtask("Using cached snapshot " + cached)
		return cached, nil
	}
	if !eris.Is(err, os.ErrNotExist) {
		return "", eris.Wrapf(err, "Failed to check cache for %s", cached)
	}

	url := ExpandVars(cfg.SnapshotURL, map[string]string{"TAG": tag})
	PrintSubtask("Downloading " + url)

	client := &http.Client{
		Timeout: time.Minute * 30,
	}

	resp, err := client.Get(url)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to start download for %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("Download of %s failed with status %s", url, resp.Status)
	}

	partial := cached + ".part"
	handle, err := os.Create(partial)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to create %s", partial)
	}
	defer func() {
		handle.Close()
		os.Remove(partial)
	}()

	hash := sha256.New()
	bar := getProgressBar(resp.ContentLength, "     download")
	_, err = io.Copy(io.MultiWriter(handle, hash, bar), resp.Body)
	if err != nil {
		return "", eris.Wrapf(err, "Failed during download of %s", url)
	}
	bar.Finish()

	err = handle.Close()
	if err != nil {
		return "", eris.Wrapf(err, "Failed to finish writing %s", partial)
	}

	err = os.Rename(partial, cached)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to move download into cache at %s", cached)
	}

	PrintSubtask("sha256 " + hex.EncodeToString(hash.Sum(nil)))
	return cached, nil
}
