package pkg

import (
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/hashicorp/go-version"
	"github.com/rotisserie/eris"
)

// Pre-release suffixes are never packaged. fio uses -rcN, older projects
// also published alpha tags.
var preReleasePattern = regexp.MustCompile(`(?i)(rc|alpha)[0-9]*$`)

// ListRemoteTags queries the upstream remote for its tag names without
// cloning anything. The result is unfiltered; SelectRelease decides which
// entries qualify.
func ListRemoteTags(upstream string) ([]string, error) {
	rem := git.NewRemote(nil, &gitcfg.RemoteConfig{
		Name: "origin",
		URLs: []string{upstream},
	})

	refs, err := rem.List(&git.ListOptions{})
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to list tags on %s", upstream)
	}

	tags := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Name().IsTag() {
			tags = append(tags, ref.Name().Short())
		}
	}

	return tags, nil
}

// SelectRelease picks the latest stable release from the given tag names.
// Dereferenced-tag markers (^{}), pre-release suffixes and names without the
// expected prefix are discarded; the survivors are ordered by version and
// the maximum wins. An empty result is an error, never an empty tag.
func SelectRelease(prefix string, tags []string) (string, error) {
	var bestTag string
	var bestVer *version.Version

	for _, tag := range tags {
		if strings.HasSuffix(tag, "^{}") {
			continue
		}
		if !strings.HasPrefix(tag, prefix) {
			continue
		}

		raw := strings.TrimPrefix(tag, prefix)
		if preReleasePattern.MatchString(raw) {
			continue
		}

		ver, err := version.NewVersion(raw)
		if err != nil {
			// Not a version-shaped tag (fio has a few oddballs like
			// "fio-HOWTO" era tags); skip instead of failing the run.
			continue
		}
		if ver.Prerelease() != "" {
			continue
		}

		if bestVer == nil || ver.GreaterThan(bestVer) {
			bestTag = tag
			bestVer = ver
		}
	}

	if bestVer == nil {
		return "", eris.Errorf("No release tag with prefix %q found", prefix)
	}

	return bestTag, nil
}
