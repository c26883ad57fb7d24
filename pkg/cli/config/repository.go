package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
	"github.com/secmon-lab/grxp/pkg/repository/file"
	"github.com/secmon-lab/grxp/pkg/repository/firestore"
	"github.com/secmon-lab/grxp/pkg/repository/memory"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const (
	BackendFile      = "file"
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	dataDir          string
	projectID        string
	databaseID       string
	collectionPrefix string
}

// DefaultDataDir returns the directory holding the local data file
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "grxp")
	}
	return ".grxp"
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (file, memory or firestore)",
			Value:       BackendFile,
			Category:    "Repository",
			Sources:     cli.EnvVars("GRXP_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory of the data file used by the file backend",
			Value:       DefaultDataDir(),
			Category:    "Repository",
			Sources:     cli.EnvVars("GRXP_DATA_DIR"),
			Destination: &r.dataDir,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("GRXP_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Value:       "(default)",
			Sources:     cli.EnvVars("GRXP_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix of every Firestore collection name",
			Category:    "Repository",
			Sources:     cli.EnvVars("GRXP_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("data_dir", r.dataDir),
		slog.String("project_id", r.projectID),
		slog.String("database_id", r.databaseID),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// CollectionPrefix returns the prefix of the Firestore collection names
func (r *Repository) CollectionPrefix() string {
	return r.collectionPrefix
}

// DataFile returns the path of the file backend document
func (r *Repository) DataFile() string {
	return filepath.Join(r.dataDir, file.DefaultFileName)
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendFile, "":
		repo, err := file.New(r.DataFile())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize file repository")
		}
		logging.From(ctx).Debug("Using file repository", "path", r.DataFile())
		return repo, nil

	case BackendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.From(ctx).Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case BackendMemory:
		logging.From(ctx).Info("Using in-memory repository, data is lost on exit")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown repository backend", goerr.V(BackendKey, r.backend))
	}
}
