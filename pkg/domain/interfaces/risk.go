package interfaces

import (
	"context"

	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

type RiskRepository interface {
	// Put inserts the entry or replaces the one with the same ID. New
	// entries are appended after existing ones.
	Put(ctx context.Context, risk *model.RiskEntry) error

	// Get retrieves a risk entry by ID
	Get(ctx context.Context, id types.RiskID) (*model.RiskEntry, error)

	// List retrieves all risk entries in insertion order
	List(ctx context.Context) ([]*model.RiskEntry, error)

	// Delete deletes a risk entry by ID
	Delete(ctx context.Context, id types.RiskID) error

	// ReplaceAll drops every stored entry and stores the given ones.
	// Duplicated IDs in risks are rejected and nothing is changed.
	ReplaceAll(ctx context.Context, risks []*model.RiskEntry) error
}
