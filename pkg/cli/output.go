package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// writeTable prints rows under headers with a rounded border
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if _, err := io.WriteString(w, t.String()+"\n"); err != nil {
		return goerr.Wrap(err, "failed to write table")
	}
	return nil
}

// stdout returns the writer of the root command
func stdout(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// createOutput opens path for writing. An empty path or "-" selects the
// command output.
func createOutput(ctx context.Context, c *cli.Command, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout(c), func() {}, nil
	}

	// #nosec G304 - path is provided by CLI argument
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
	}
	return f, func() { safe.Close(ctx, f) }, nil
}
