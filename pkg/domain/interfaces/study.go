package interfaces

import (
	"context"

	"github.com/secmon-lab/grxp/pkg/domain/model"
)

// StudyRepository stores the single study context
type StudyRepository interface {
	// Get returns the stored context, or nil when none has been saved
	Get(ctx context.Context) (*model.StudyContext, error)

	// Put replaces the stored context
	Put(ctx context.Context, study *model.StudyContext) error
}
