package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/service/archive"
	"github.com/urfave/cli/v3"
)

// Archive holds CLI flags for the report bundle destination
type Archive struct {
	dir       string
	gcsBucket string
	gcsPrefix string
}

func (x *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "archive-dir",
			Usage:       "Local directory receiving report bundles",
			Category:    "Archive",
			Sources:     cli.EnvVars("GRXP_ARCHIVE_DIR"),
			Destination: &x.dir,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket receiving report bundles",
			Category:    "Archive",
			Sources:     cli.EnvVars("GRXP_GCS_BUCKET"),
			Destination: &x.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the Cloud Storage bucket",
			Category:    "Archive",
			Sources:     cli.EnvVars("GRXP_GCS_PREFIX"),
			Destination: &x.gcsPrefix,
		},
	}
}

func (x Archive) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dir", x.dir),
		slog.String("gcs_bucket", x.gcsBucket),
		slog.String("gcs_prefix", x.gcsPrefix),
	)
}

// IsConfigured reports whether a destination is set
func (x *Archive) IsConfigured() bool {
	return x.dir != "" || x.gcsBucket != ""
}

// Configure returns the archive service, or nil when no destination is
// set. The returned function releases the service.
func (x *Archive) Configure(ctx context.Context) (archive.Service, func(), error) {
	switch {
	case x.dir != "" && x.gcsBucket != "":
		return nil, nil, ErrConflictingArchives

	case x.gcsBucket != "":
		svc, err := archive.NewGCS(ctx, x.gcsBucket, x.gcsPrefix)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize GCS archive")
		}
		return svc, func() { _ = svc.Close() }, nil

	case x.dir != "":
		svc, err := archive.NewDirectory(x.dir)
		if err != nil {
			return nil, nil, err
		}
		return svc, func() {}, nil

	default:
		return nil, func() {}, nil
	}
}
