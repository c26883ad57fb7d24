package usecase

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"gopkg.in/yaml.v3"
)

// CatalogFormat is the encoding of a catalog file
type CatalogFormat string

const (
	CatalogFormatTOML CatalogFormat = "toml"
	CatalogFormatYAML CatalogFormat = "yaml"
)

// CatalogFormatFromPath guesses the format from a file extension
func CatalogFormatFromPath(path string) (CatalogFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return CatalogFormatTOML, nil
	case ".yaml", ".yml":
		return CatalogFormatYAML, nil
	default:
		return "", goerr.Wrap(ErrUnknownFormat, "unsupported catalog file", goerr.V("path", path))
	}
}

// catalogFile is the layout of an imported catalog: a list of [[catalog]]
// tables in TOML, or a top-level catalog sequence in YAML.
type catalogFile struct {
	Catalog []*model.CatalogEntry `toml:"catalog" yaml:"catalog"`
}

type CatalogUseCase struct {
	repo interfaces.Repository
}

func NewCatalogUseCase(repo interfaces.Repository) *CatalogUseCase {
	return &CatalogUseCase{
		repo: repo,
	}
}

func (uc *CatalogUseCase) ListCatalog(ctx context.Context) ([]*model.CatalogEntry, error) {
	entries, err := uc.repo.Catalog().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list catalog")
	}
	return entries, nil
}

func (uc *CatalogUseCase) GetCatalogEntry(ctx context.Context, id types.CatalogEntryID) (*model.CatalogEntry, error) {
	entry, err := uc.repo.Catalog().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrCatalogEntryNotFound, "catalog entry not found", goerr.V(CatalogIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get catalog entry", goerr.V(CatalogIDKey, id))
	}
	return entry, nil
}

func (uc *CatalogUseCase) SaveCatalogEntry(ctx context.Context, entry *model.CatalogEntry) error {
	if err := entry.Validate(); err != nil {
		return goerr.Wrap(err, "invalid catalog entry")
	}
	if err := uc.repo.Catalog().Put(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to save catalog entry", goerr.V(CatalogIDKey, entry.ID))
	}
	return nil
}

func (uc *CatalogUseCase) DeleteCatalogEntry(ctx context.Context, id types.CatalogEntryID) error {
	if err := uc.repo.Catalog().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrCatalogEntryNotFound, "catalog entry not found", goerr.V(CatalogIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete catalog entry", goerr.V(CatalogIDKey, id))
	}
	return nil
}

// ParseCatalog decodes and validates a catalog file without storing it
func ParseCatalog(data []byte, format CatalogFormat) ([]*model.CatalogEntry, error) {
	var file catalogFile
	switch format {
	case CatalogFormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, goerr.Wrap(ErrInvalidImport, "failed to decode TOML catalog", goerr.V("error", err.Error()))
		}
	case CatalogFormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, goerr.Wrap(ErrInvalidImport, "failed to decode YAML catalog", goerr.V("error", err.Error()))
		}
	default:
		return nil, goerr.Wrap(ErrUnknownFormat, "unsupported catalog format", goerr.V(FormatKey, format))
	}

	seen := make(map[types.CatalogEntryID]struct{}, len(file.Catalog))
	for i, entry := range file.Catalog {
		if entry == nil {
			return nil, goerr.Wrap(ErrInvalidImport, "empty catalog entry", goerr.V("index", i))
		}
		if err := entry.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid catalog entry", goerr.V("index", i))
		}
		if _, ok := seen[entry.ID]; ok {
			return nil, goerr.Wrap(ErrInvalidImport, "duplicated catalog entry ID", goerr.V(CatalogIDKey, entry.ID))
		}
		seen[entry.ID] = struct{}{}
	}
	return file.Catalog, nil
}

// ImportCatalog inserts or replaces every entry of a catalog file. Nothing
// is stored when any entry is invalid.
func (uc *CatalogUseCase) ImportCatalog(ctx context.Context, data []byte, format CatalogFormat) (int, error) {
	entries, err := ParseCatalog(data, format)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if err := uc.repo.Catalog().Put(ctx, entry); err != nil {
			return 0, goerr.Wrap(err, "failed to save catalog entry", goerr.V(CatalogIDKey, entry.ID))
		}
	}

	logging.From(ctx).Info("catalog imported", "format", format, "count", len(entries))
	return len(entries), nil
}
