package pkg

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RepoDescriptor returns the short HEAD hash of the repository containing
// startDir. The descriptor ends up in the distribution name so an archive
// can be traced back to the builder revision that produced it. Outside a
// checkout it falls back to "local".
func RepoDescriptor(startDir string) string {
	repo, err := git.PlainOpenWithOptions(startDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "local"
	}

	head, err := repo.Head()
	if err != nil {
		return "local"
	}

	return head.Hash().String()[:7]
}

// DistName composes the distribution name that doubles as the install prefix
// and the archive's base name: <project>-<version>-dist-g<descriptor>-<arch>.
func DistName(cfg *ReleaseConfig, tag, descriptor string) string {
	release := strings.TrimPrefix(tag, cfg.TagPrefix)
	return fmt.Sprintf("%s-%s-dist-g%s-%s", cfg.Project, release, descriptor, cfg.Arch)
}
