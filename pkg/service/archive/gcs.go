package archive

import (
	"context"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"github.com/secmon-lab/grxp/pkg/utils/safe"
)

// GCS uploads files to a Cloud Storage bucket. Credentials come from
// Application Default Credentials.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ Service = &GCS{}

func NewGCS(ctx context.Context, bucket, prefix string) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client")
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (g *GCS) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	objectPath := path.Join(g.prefix, name)
	w := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		safe.Close(ctx, w)
		return "", goerr.Wrap(err, "failed to write GCS object", goerr.V("bucket", g.bucket), goerr.V("object", objectPath))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close GCS object", goerr.V("bucket", g.bucket), goerr.V("object", objectPath))
	}

	uri := fmt.Sprintf("gs://%s/%s", g.bucket, objectPath)
	logging.From(ctx).Info("report uploaded", "uri", uri, "size", len(data))
	return uri, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
