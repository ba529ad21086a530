package pkg

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ConfigName is the file the builder looks for when --config isn't passed.
const ConfigName = "release.yml"

var varMatcher = regexp.MustCompile(`\{([A-Z0-9_]+)\}`)

// StepConfig holds the shell snippets for the configure/compile/install cycle.
type StepConfig struct {
	Configure string `yaml:"configure"`
	Build     string `yaml:"build"`
	Install   string `yaml:"install"`
}

// ReleaseConfig describes the one upstream project this tool packages.
type ReleaseConfig struct {
	Project     string `yaml:"project"`
	Upstream    string `yaml:"upstream"`
	TagPrefix   string `yaml:"tagPrefix"`
	SnapshotURL string `yaml:"snapshotURL"`
	Arch        string `yaml:"arch"`
	// Strip is the number of leading path elements removed during extraction.
	Strip *int `yaml:"strip,omitempty"`

	HostPackages []string   `yaml:"hostPackages"`
	Steps        StepConfig `yaml:"steps"`

	Template      string `yaml:"template"`
	InstallScript string `yaml:"installScript"`

	baseDir string
}

// LoadConfig reads and validates the release config at the given path.
func LoadConfig(path string) (*ReleaseConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "Could not open file %s", path)
	}

	var cfg ReleaseConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to parse %s", path)
	}

	for name, value := range map[string]string{
		"project":     cfg.Project,
		"upstream":    cfg.Upstream,
		"tagPrefix":   cfg.TagPrefix,
		"snapshotURL": cfg.SnapshotURL,
	} {
		if value == "" {
			return nil, eris.Errorf("%s is missing the required %s setting", path, name)
		}
	}

	if cfg.Arch == "" {
		cfg.Arch = "amd64"
	}
	if cfg.Strip == nil {
		one := 1
		cfg.Strip = &one
	}
	if cfg.Template == "" {
		cfg.Template = "install.sh.tmpl"
	}
	if cfg.InstallScript == "" {
		cfg.InstallScript = "install.sh"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to resolve %s", path)
	}
	cfg.baseDir = filepath.Dir(absPath)

	return &cfg, nil
}

// BaseDir returns the directory the config was loaded from. The install
// script template is resolved relative to it.
func (c *ReleaseConfig) BaseDir() string {
	return c.baseDir
}

// TemplatePath returns the absolute path to the install script template.
func (c *ReleaseConfig) TemplatePath() string {
	if filepath.IsAbs(c.Template) {
		return c.Template
	}
	return filepath.Join(c.baseDir, c.Template)
}

// FindConfigFile resolves the release config location. An explicit path wins,
// otherwise the working directory and the executable's directory are checked.
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		_, err := os.Stat(explicit)
		if err != nil {
			return "", eris.Wrapf(err, "Could not find config file %s", explicit)
		}
		return explicit, nil
	}

	candidates := []string{}
	wd, err := os.Getwd()
	if err == nil {
		candidates = append(candidates, filepath.Join(wd, ConfigName))
	}

	exe, err := os.Executable()
	if err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ConfigName))
	}

	for _, candidate := range candidates {
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrapf(err, "Failed to check %s", candidate)
		}
	}

	return "", eris.Errorf("No %s found next to the working directory or the executable", ConfigName)
}

// ExpandVars replaces {NAME} placeholders with the given values. Unknown
// placeholders expand to an empty string.
func ExpandVars(input string, vars map[string]string) string {
	return varMatcher.ReplaceAllStringFunc(input, func(varName string) string {
		value, ok := vars[varName[1:len(varName)-1]]
		if ok {
			return value
		}
		return ""
	})
}
