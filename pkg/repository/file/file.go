package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/repository/memory"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"github.com/secmon-lab/grxp/pkg/utils/safe"
)

// DefaultFileName is the name of the document written in the data directory
const DefaultFileName = "grxp.json"

// ErrNotFound is returned when an entity does not exist
var ErrNotFound = interfaces.ErrNotFound

// document is the on-disk layout
type document struct {
	Risks   []*model.RiskEntry    `json:"risks"`
	Catalog []*model.CatalogEntry `json:"catalog"`
	Study   *model.StudyContext   `json:"study,omitempty"`
}

// File keeps the whole data set in memory and rewrites a single JSON
// document after every mutation.
type File struct {
	path string
	mu   sync.Mutex

	memMu sync.RWMutex
	mem   *memory.Memory

	risk    *riskRepository
	catalog *catalogRepository
	study   *studyRepository
}

var _ interfaces.Repository = &File{}

// New opens the document at path, creating its directory when needed. A
// missing file is treated as an empty data set.
func New(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, goerr.Wrap(err, "failed to create data directory", goerr.V("path", path))
	}

	var opts []memory.Option
	var doc document

	// #nosec G304 - path is provided by CLI flag
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, goerr.Wrap(err, "failed to read data file", goerr.V("path", path))
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, goerr.Wrap(err, "failed to parse data file", goerr.V("path", path))
		}
		if doc.Catalog != nil {
			opts = append(opts, memory.WithCatalog(doc.Catalog))
		}
	}

	f := &File{
		path: path,
		mem:  memory.New(opts...),
	}
	f.risk = &riskRepository{f: f}
	f.catalog = &catalogRepository{f: f}
	f.study = &studyRepository{f: f}

	ctx := context.Background()
	if err := f.mem.Risk().ReplaceAll(ctx, doc.Risks); err != nil {
		return nil, goerr.Wrap(err, "invalid risk entry in data file", goerr.V("path", path))
	}
	if doc.Study != nil {
		if err := f.mem.Study().Put(ctx, doc.Study); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func (f *File) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *File) Catalog() interfaces.CatalogRepository {
	return f.catalog
}

func (f *File) Study() interfaces.StudyRepository {
	return f.study
}

// Path returns the location of the document
func (f *File) Path() string {
	return f.path
}

func (f *File) Close() error {
	return nil
}

func (f *File) current() *memory.Memory {
	f.memMu.RLock()
	defer f.memMu.RUnlock()
	return f.mem
}

// mutate applies fn to a copy of the data set, rewrites the document from
// that copy and only then makes it current. A failed write leaves the
// previous data set in place. Concurrent mutations are serialized.
func (f *File) mutate(ctx context.Context, fn func(m *memory.Memory) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := clone(ctx, f.current())
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	if err := f.persist(ctx, next); err != nil {
		return err
	}

	f.memMu.Lock()
	f.mem = next
	f.memMu.Unlock()
	return nil
}

func clone(ctx context.Context, src *memory.Memory) (*memory.Memory, error) {
	risks, err := src.Risk().List(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := src.Catalog().List(ctx)
	if err != nil {
		return nil, err
	}
	study, err := src.Study().Get(ctx)
	if err != nil {
		return nil, err
	}

	dst := memory.New(memory.WithCatalog(catalog))
	if err := dst.Risk().ReplaceAll(ctx, risks); err != nil {
		return nil, err
	}
	if study != nil {
		if err := dst.Study().Put(ctx, study); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func (f *File) persist(ctx context.Context, m *memory.Memory) error {
	risks, err := m.Risk().List(ctx)
	if err != nil {
		return err
	}
	catalog, err := m.Catalog().List(ctx)
	if err != nil {
		return err
	}
	study, err := m.Study().Get(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(document{Risks: risks, Catalog: catalog, Study: study}, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal data file")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".grxp-*.json")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("path", f.path))
	}
	defer safe.Remove(ctx, tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write data file", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close data file", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return goerr.Wrap(err, "failed to replace data file", goerr.V("path", f.path))
	}

	logging.From(ctx).Debug("data file written", "path", f.path, "risks", len(risks))
	return nil
}
