package cli

import (
	"context"
	"io"
)

// RunForTest runs the application writing command output to w
func RunForTest(ctx context.Context, args []string, w io.Writer) error {
	return newApp("test", w).Run(ctx, args)
}

var GetIndexConfig = getIndexConfig
