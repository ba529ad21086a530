package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fiodist/disttool/pkg"
)

func newLogger(debug bool) zerolog.Logger {
	logger := zerolog.New(NewConsoleWriter())
	if debug {
		return logger.Level(zerolog.DebugLevel)
	}

	return logger.Level(zerolog.InfoLevel)
}

func resolveConfig(cmd *cobra.Command) (*pkg.ReleaseConfig, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	path, err := pkg.FindConfigFile(explicit)
	if err != nil {
		return nil, err
	}

	return pkg.LoadConfig(path)
}

func cacheOverrideDir() string {
	return os.Getenv(pkg.CacheDirEnvVar)
}
