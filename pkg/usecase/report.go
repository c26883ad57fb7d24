package usecase

import (
	"bytes"
	"context"
	"io"
	"path"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/service/archive"
	"github.com/secmon-lab/grxp/pkg/service/render"
	"github.com/secmon-lab/grxp/pkg/utils/errutil"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// BundleFile is one file of a report bundle
type BundleFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Bundle is the set of files produced for one study
type Bundle struct {
	CreatedAt time.Time
	Files     []BundleFile
}

type ReportUseCase struct {
	risk      *RiskUseCase
	study     *StudyUseCase
	synthesis *SynthesisUseCase
	data      *DataUseCase
	layouts   map[matrix.Size]matrix.Layout
	archiver  archive.Service
	notifier  *notifier
	now       func() time.Time
}

func NewReportUseCase(risk *RiskUseCase, study *StudyUseCase, synthesis *SynthesisUseCase, data *DataUseCase, layouts map[matrix.Size]matrix.Layout, archiver archive.Service) *ReportUseCase {
	return &ReportUseCase{
		risk:      risk,
		study:     study,
		synthesis: synthesis,
		data:      data,
		layouts:   layouts,
		archiver:  archiver,
		now:       risk.now,
	}
}

// MatrixView returns the matrix of one entry: residual rating as the
// current cell, initial rating as the starting point.
func (uc *ReportUseCase) MatrixView(ctx context.Context, id types.RiskID) (render.MatrixView, error) {
	risk, err := uc.risk.GetRisk(ctx, id)
	if err != nil {
		return render.MatrixView{}, err
	}

	initial := matrix.Cell{Severity: risk.InitialRisk.Severity, Likelihood: risk.InitialRisk.Likelihood}
	return render.MatrixView{
		Current: matrix.Cell{Severity: risk.ResidualRisk.Severity, Likelihood: risk.ResidualRisk.Likelihood},
		Initial: &initial,
		Title:   risk.Title(),
	}, nil
}

func (uc *ReportUseCase) MatrixSVG(ctx context.Context, w io.Writer, id types.RiskID, size matrix.Size) error {
	view, err := uc.MatrixView(ctx, id)
	if err != nil {
		return err
	}
	return render.MatrixSVG(w, resolveLayout(uc.layouts, size), view)
}

func (uc *ReportUseCase) SynthesisSVG(ctx context.Context, w io.Writer, size matrix.Size) error {
	s, err := uc.synthesis.Build(ctx)
	if err != nil {
		return err
	}
	return render.SynthesisSVG(w, resolveLayout(uc.layouts, size), s.Counts())
}

// PDF writes the printable study report
func (uc *ReportUseCase) PDF(ctx context.Context, w io.Writer) error {
	s, err := uc.synthesis.Build(ctx)
	if err != nil {
		return err
	}

	return render.PDFReport(w, &render.Report{
		Study:       s.Study,
		Risks:       s.Risks,
		Counts:      s.Counts(),
		GeneratedAt: uc.now(),
	})
}

// Bundle renders the JSON export, the CSV export, the synthesis matrix and
// the PDF report concurrently.
func (uc *ReportUseCase) Bundle(ctx context.Context) (*Bundle, error) {
	type job struct {
		name        string
		contentType string
		write       func(context.Context, io.Writer) error
	}
	jobs := []job{
		{"risks.json", "application/json", uc.data.ExportJSON},
		{"risks.csv", "text/csv", uc.data.ExportCSV},
		{"synthesis.svg", "image/svg+xml", func(ctx context.Context, w io.Writer) error {
			return uc.SynthesisSVG(ctx, w, matrix.SizeLarge)
		}},
		{"report.pdf", "application/pdf", uc.PDF},
	}

	bundle := &Bundle{
		CreatedAt: uc.now(),
		Files:     make([]BundleFile, len(jobs)),
	}

	eg, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		eg.Go(func() error {
			var buf bytes.Buffer
			if err := j.write(ctx, &buf); err != nil {
				return goerr.Wrap(err, "failed to render bundle file", goerr.V("name", j.name))
			}
			bundle.Files[i] = BundleFile{Name: j.name, ContentType: j.contentType, Data: buf.Bytes()}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return bundle, nil
}

// Publish uploads every file of the bundle under a directory named after
// its creation time and returns the stored locations.
func (uc *ReportUseCase) Publish(ctx context.Context, bundle *Bundle) ([]string, error) {
	if uc.archiver == nil {
		return nil, ErrNoArchiver
	}

	dir := bundle.CreatedAt.UTC().Format("20060102T150405Z")
	locations := make([]string, len(bundle.Files))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(2)
	for i, f := range bundle.Files {
		eg.Go(func() error {
			loc, err := uc.archiver.Upload(egCtx, path.Join(dir, f.Name), f.ContentType, f.Data)
			if err != nil {
				return goerr.Wrap(err, "failed to upload bundle file", goerr.V("name", f.Name))
			}
			locations[i] = loc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("report bundle published", "files", len(locations), "dir", dir)

	if uc.notifier != nil {
		synthesis, err := uc.synthesis.Build(ctx)
		if err != nil {
			_ = errutil.Handle(ctx, err, "failed to summarize study for notification")
			return locations, nil
		}
		uc.notifier.bundlePublished(ctx, synthesis, dir, locations)
	}
	return locations, nil
}

// PublishBundle renders a fresh bundle and publishes it
func (uc *ReportUseCase) PublishBundle(ctx context.Context) ([]string, error) {
	if uc.archiver == nil {
		return nil, ErrNoArchiver
	}
	bundle, err := uc.Bundle(ctx)
	if err != nil {
		return nil, err
	}
	return uc.Publish(ctx, bundle)
}
