package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grxp/pkg/cli"
	"github.com/secmon-lab/grxp/pkg/cli/config"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/usecase"
)

// runner executes commands against one data directory
type runner struct {
	t       *testing.T
	dataDir string
	extra   []string
}

func newRunner(t *testing.T, extra ...string) *runner {
	return &runner{t: t, dataDir: t.TempDir(), extra: extra}
}

func (r *runner) run(args ...string) (string, error) {
	r.t.Helper()
	var buf bytes.Buffer
	full := []string{"grxp", "--log-level", "error", "--data-dir", r.dataDir}
	full = append(full, r.extra...)
	full = append(full, args...)
	err := cli.RunForTest(context.Background(), full, &buf)
	return buf.String(), err
}

func (r *runner) mustRun(args ...string) string {
	r.t.Helper()
	out, err := r.run(args...)
	gt.NoError(r.t, err).Required()
	return out
}

// riskIDFrom extracts the ID line printed by risk commands
func riskIDFrom(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "ID:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	t.Fatalf("no ID in output: %s", out)
	return ""
}

func TestRun_Classify(t *testing.T) {
	r := newRunner(t)

	testCases := []struct {
		severity   string
		likelihood string
		want       string
	}{
		{"4", "C", "UNACCEPTABLE"},
		{"1", "A", "USUAL"},
		{"critical", "rare", "LOW"},
		{"2", "D", "HIGH"},
	}
	for _, tc := range testCases {
		t.Run(tc.severity+tc.likelihood, func(t *testing.T) {
			out := r.mustRun("classify", "-s", tc.severity, "-L", tc.likelihood)
			gt.S(t, out).Contains(tc.want)
		})
	}

	t.Run("invalid severity", func(t *testing.T) {
		_, err := r.run("classify", "-s", "5", "-L", "A")
		gt.Error(t, err).Is(types.ErrInvalidSeverity)
	})
}

func TestRun_RiskLifecycle(t *testing.T) {
	r := newRunner(t)

	out := r.mustRun("risk", "new", "--title", "Autorotation landing", "--experimentation", "Engine off")
	gt.S(t, out).Contains("Autorotation landing")
	id := riskIDFrom(t, out)

	out = r.mustRun("risk", "rate", id, "--phase", "initial", "-s", "4", "-L", "C")
	gt.S(t, out).Contains("UNACCEPTABLE")

	out = r.mustRun("risk", "rate", id, "-s", "1", "-L", "A")
	gt.S(t, out).Contains("USUAL")

	out = r.mustRun("risk", "update", id, "--aircraft", "H145")
	gt.S(t, out).Contains("H145")
	gt.S(t, out).Contains("Autorotation landing")

	out = r.mustRun("risk", "list")
	gt.S(t, out).Contains(id)
	gt.S(t, out).Contains(types.TrendImproved.String())

	out = r.mustRun("matrix", id)
	gt.S(t, out).Contains("●")
	gt.S(t, out).Contains("○")

	svgPath := filepath.Join(t.TempDir(), "matrix.svg")
	r.mustRun("matrix", id, "--svg", svgPath, "--size", "lg")
	data, err := os.ReadFile(svgPath)
	gt.NoError(t, err).Required()
	gt.S(t, string(data)).Contains("<svg")

	r.mustRun("risk", "delete", id)
	_, err = r.run("risk", "show", id)
	gt.Error(t, err).Is(usecase.ErrRiskNotFound)
}

func TestRun_RiskFromCatalog(t *testing.T) {
	r := newRunner(t)

	out := r.mustRun("risk", "new", "--catalog", "cat-2")
	id := riskIDFrom(t, out)
	gt.S(t, out).Contains("Dreaded event:")

	_, err := r.run("risk", "new", "--catalog", "missing")
	gt.Value(t, err).NotNil()

	gt.S(t, r.mustRun("risk", "show", id)).Contains(id)
}

func TestRun_StudyAndSeed(t *testing.T) {
	r := newRunner(t)

	out := r.mustRun("study", "set", "--name", "Tail rotor campaign", "--aircraft", "H160")
	gt.S(t, out).Contains("Tail rotor campaign")
	gt.S(t, r.mustRun("study", "show")).Contains("H160")

	r.mustRun("seed")
	_, err := r.run("seed")
	gt.Error(t, err).Is(usecase.ErrStudyNotEmpty)
	r.mustRun("seed", "--replace")

	out = r.mustRun("synthesis")
	gt.S(t, out).Contains("Tail rotor campaign")

	_, err = r.run("study", "new")
	gt.Error(t, err).Is(cli.ErrNotConfirmed)

	out = r.mustRun("study", "new", "--yes")
	gt.S(t, out).Contains("New study")
	gt.B(t, strings.Contains(r.mustRun("risk", "list"), "Vibration")).False()
}

func TestRun_ExportImport(t *testing.T) {
	r := newRunner(t)
	r.mustRun("seed")
	want := len(usecase.SeedRisks(time.Now()))
	dir := t.TempDir()

	for _, name := range []string{"risks.json", "risks.csv"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			r.mustRun("export", "-o", path)

			other := newRunner(t)
			out := other.mustRun("import", path)
			gt.S(t, out).Contains(fmt.Sprintf("imported %d risk entries", want))

			listed := other.mustRun("risk", "list")
			for _, risk := range usecase.SeedRisks(time.Now()) {
				gt.S(t, listed).Contains(risk.ActivityTitle)
			}
		})
	}

	t.Run("stdout defaults to json", func(t *testing.T) {
		out := r.mustRun("export")
		gt.B(t, strings.HasPrefix(strings.TrimSpace(out), "[")).True()
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := r.run("export", "-o", filepath.Join(dir, "risks.xml"))
		gt.Error(t, err).Is(cli.ErrUnknownDataFormat)
	})

	t.Run("report", func(t *testing.T) {
		path := filepath.Join(dir, "report.pdf")
		r.mustRun("report", "-o", path)
		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		gt.B(t, bytes.HasPrefix(data, []byte("%PDF"))).True()
	})
}

func TestRun_ExportBundle(t *testing.T) {
	t.Run("without archive", func(t *testing.T) {
		r := newRunner(t)
		_, err := r.run("export", "--bundle")
		gt.Error(t, err).Is(usecase.ErrNoArchiver)
	})

	t.Run("to directory", func(t *testing.T) {
		archiveDir := t.TempDir()
		r := newRunner(t, "--archive-dir", archiveDir)
		r.mustRun("seed")

		out := r.mustRun("export", "--bundle")
		for _, name := range []string{"risks.json", "risks.csv", "synthesis.svg", "report.pdf"} {
			gt.S(t, out).Contains(name)
		}
		gt.S(t, out).Contains(archiveDir)
	})

	t.Run("conflicting destinations", func(t *testing.T) {
		r := newRunner(t, "--archive-dir", t.TempDir(), "--gcs-bucket", "bucket")
		_, err := r.run("export", "--bundle")
		gt.Error(t, err).Is(config.ErrConflictingArchives)
	})
}

func TestRun_Catalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	gt.NoError(t, os.WriteFile(path, []byte(`
catalog:
  - id: hot-refuel
    title: Hot refuelling
    category: Ground
    default_severity: 3
    default_likelihood: B
`), 0o600)).Required()

	r := newRunner(t)
	gt.S(t, r.mustRun("catalog", "import", path)).Contains("imported 1")
	gt.S(t, r.mustRun("catalog", "list")).Contains("hot-refuel")

	r.mustRun("catalog", "delete", "hot-refuel")
	gt.B(t, strings.Contains(r.mustRun("catalog", "list"), "hot-refuel")).False()
}

func TestRun_ConfigCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grxp.toml")
	gt.NoError(t, os.WriteFile(path, []byte(`
[[catalog]]
id = "night-flight"
title = "Night flight"
default_severity = 3
default_likelihood = "C"
`), 0o600)).Required()

	r := newRunner(t, "--config", path)
	gt.S(t, r.mustRun("catalog", "list")).Contains("night-flight")
	gt.S(t, r.mustRun("risk", "new", "--catalog", "night-flight")).Contains("Night flight")
}

func TestRun_ValidateCommand(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.toml")
	gt.NoError(t, os.WriteFile(valid, []byte(`
[layout.sm]
cell_size = 30
gap = 6
corner_radius = 10
arrow_size = 8
marker_radius = 3
`), 0o600)).Required()
	invalid := filepath.Join(dir, "invalid.toml")
	gt.NoError(t, os.WriteFile(invalid, []byte(`
[layout.huge]
cell_size = 30
`), 0o600)).Required()

	t.Run("valid config", func(t *testing.T) {
		r := newRunner(t, "--config", valid)
		r.mustRun("validate")
	})

	t.Run("valid config with data check", func(t *testing.T) {
		r := newRunner(t, "--config", valid)
		r.mustRun("seed")
		r.mustRun("validate", "--check-data")
	})

	t.Run("invalid config", func(t *testing.T) {
		r := newRunner(t, "--config", invalid)
		_, err := r.run("validate")
		gt.Error(t, err).Is(config.ErrUnknownLayoutSize)
	})

	t.Run("missing config", func(t *testing.T) {
		r := newRunner(t, "--config", filepath.Join(dir, "none.toml"))
		_, err := r.run("validate")
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})
}

func TestRun_MigrateRequiresProject(t *testing.T) {
	t.Setenv("GRXP_FIRESTORE_PROJECT_ID", "")
	r := newRunner(t)
	_, err := r.run("migrate", "--dry-run")
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}
