package safe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/secmon-lab/grxp/pkg/utils/logging"
)

// Close closes an io.Closer and logs any error. Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Remove deletes a file and logs any error except the file being already gone
func Remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.From(ctx).Warn("Failed to remove file", slog.String("path", path), slog.Any("error", err))
	}
}
