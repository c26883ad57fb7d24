package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

type riskRepository struct {
	mu    sync.RWMutex
	risks []*model.RiskEntry
}

func newRiskRepository() *riskRepository {
	return &riskRepository{}
}

func (r *riskRepository) indexOf(id types.RiskID) int {
	return slices.IndexFunc(r.risks, func(e *model.RiskEntry) bool { return e.ID == id })
}

func (r *riskRepository) Put(ctx context.Context, risk *model.RiskEntry) error {
	if err := risk.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk entry")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modification
	if i := r.indexOf(risk.ID); i >= 0 {
		r.risks[i] = risk.Copy()
	} else {
		r.risks = append(r.risks, risk.Copy())
	}
	return nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.RiskEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}
	return r.risks[i].Copy(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.RiskEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risks := make([]*model.RiskEntry, 0, len(r.risks))
	for _, risk := range r.risks {
		risks = append(risks, risk.Copy())
	}
	return risks, nil
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}
	r.risks = slices.Delete(r.risks, i, i+1)
	return nil
}

func (r *riskRepository) ReplaceAll(ctx context.Context, risks []*model.RiskEntry) error {
	replaced := make([]*model.RiskEntry, 0, len(risks))
	seen := make(map[types.RiskID]struct{}, len(risks))
	for _, risk := range risks {
		if err := risk.Validate(); err != nil {
			return goerr.Wrap(err, "invalid risk entry")
		}
		if _, ok := seen[risk.ID]; ok {
			return goerr.New("duplicated risk ID", goerr.V("id", risk.ID))
		}
		seen[risk.ID] = struct{}{}
		replaced = append(replaced, risk.Copy())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.risks = replaced
	return nil
}
