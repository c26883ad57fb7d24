package usecase

import (
	"time"

	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/service/archive"
	"github.com/secmon-lab/grxp/pkg/service/slack"
)

type UseCases struct {
	repo     interfaces.Repository
	now      func() time.Time
	layouts  map[matrix.Size]matrix.Layout
	archiver archive.Service
	notifier *notifier

	Risk      *RiskUseCase
	Study     *StudyUseCase
	Catalog   *CatalogUseCase
	Data      *DataUseCase
	Synthesis *SynthesisUseCase
	Report    *ReportUseCase
}

type Option func(*UseCases)

// WithClock replaces the time source used to stamp entries
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithLayout overrides the matrix layout used for the given size
func WithLayout(size matrix.Size, layout matrix.Layout) Option {
	return func(uc *UseCases) {
		uc.layouts[size] = layout
	}
}

// WithArchiver enables uploading report bundles
func WithArchiver(svc archive.Service) Option {
	return func(uc *UseCases) {
		uc.archiver = svc
	}
}

// WithSlackService enables Slack notifications of published bundles and
// of residual ratings turning unacceptable
func WithSlackService(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = &notifier{slack: svc}
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:    repo,
		now:     time.Now,
		layouts: map[matrix.Size]matrix.Layout{},
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Study = NewStudyUseCase(repo, uc.now)
	uc.Risk = NewRiskUseCase(repo, uc.Study, uc.now)
	uc.Risk.notifier = uc.notifier
	uc.Catalog = NewCatalogUseCase(repo)
	uc.Data = NewDataUseCase(repo, uc.now)
	uc.Synthesis = NewSynthesisUseCase(repo, uc.Study)
	uc.Report = NewReportUseCase(uc.Risk, uc.Study, uc.Synthesis, uc.Data, uc.layouts, uc.archiver)
	uc.Report.notifier = uc.notifier

	return uc
}

// Layout returns the configured layout for size, falling back to the preset
func (uc *UseCases) Layout(size matrix.Size) matrix.Layout {
	return resolveLayout(uc.layouts, size)
}

func resolveLayout(layouts map[matrix.Size]matrix.Layout, size matrix.Size) matrix.Layout {
	if l, ok := layouts[size]; ok {
		return l
	}
	return matrix.LayoutFor(size)
}
