package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the TOML configuration file
type AppConfig struct {
	Layout  map[string]matrix.Layout `toml:"layout"`
	Catalog []*model.CatalogEntry    `toml:"catalog"`
}

// Validate checks layout sizes and catalog entries
func (a *AppConfig) Validate() error {
	for name, layout := range a.Layout {
		size, err := matrix.ParseSize(name)
		if err != nil || name == "" {
			return goerr.Wrap(ErrUnknownLayoutSize, "layout table must be sm, md or lg", goerr.V(LayoutSizeKey, name))
		}
		if err := layout.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid layout", goerr.V(LayoutSizeKey, size), goerr.V("error", err.Error()))
		}
	}

	ids := make(map[types.CatalogEntryID]bool)
	for i, entry := range a.Catalog {
		if err := entry.Validate(); err != nil {
			return goerr.Wrap(err, "invalid catalog entry", goerr.V(CatalogIndexKey, i))
		}
		if ids[entry.ID] {
			return goerr.Wrap(ErrDuplicateCatalogID, "catalog entry defined twice", goerr.V(CatalogIDKey, entry.ID))
		}
		ids[entry.ID] = true
	}

	return nil
}

// UseCaseOptions returns the layout overrides of the file
func (a *AppConfig) UseCaseOptions() []usecase.Option {
	var opts []usecase.Option
	for name, layout := range a.Layout {
		opts = append(opts, usecase.WithLayout(matrix.Size(name), layout))
	}
	return opts
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// App holds the CLI flag pointing at the configuration file
type App struct {
	path string
}

func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file (matrix layouts and catalog entries)",
			Sources:     cli.EnvVars("GRXP_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the configuration file, or returns an empty configuration
// when no file is given.
func (a *App) Configure() (*AppConfig, error) {
	if a.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(a.path)
}
