package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/repository/file"
)

func TestFileReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", file.DefaultFileName)

	repo, err := file.New(path)
	gt.NoError(t, err).Required()

	risk := model.NewRiskEntry(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	risk.ActivityTitle = "Flutter clearance"
	gt.NoError(t, risk.InitialRisk.Rate(types.SeverityCatastrophic, types.LikelihoodOccasional, types.ExposureStrong, types.DetectabilityPoor))
	gt.NoError(t, repo.Risk().Put(ctx, risk))
	gt.NoError(t, repo.Study().Put(ctx, &model.StudyContext{StudyName: "Flutter", Aircraft: "F-WXYZ", Date: "2024-05-01"}))
	gt.NoError(t, repo.Catalog().Delete(ctx, types.CatalogEntryID("cat-1")))
	gt.NoError(t, repo.Close())

	reopened, err := file.New(path)
	gt.NoError(t, err).Required()

	got, err := reopened.Risk().Get(ctx, risk.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ActivityTitle).Equal("Flutter clearance")
	gt.Value(t, got.InitialRisk).Equal(risk.InitialRisk)
	gt.Value(t, got.InitialRisk.Level()).Equal(types.RiskLevelUnacceptable)
	gt.B(t, got.UpdatedAt.Equal(risk.UpdatedAt)).True()

	study, err := reopened.Study().Get(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, study).NotNil().Required()
	gt.Value(t, study.Aircraft).Equal("F-WXYZ")

	catalog, err := reopened.Catalog().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, catalog).Length(len(model.DefaultCatalog()) - 1).Required()
	gt.Value(t, catalog[0].ID).Equal(types.CatalogEntryID("cat-2"))
}

func TestFileMissingDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), file.DefaultFileName)

	repo, err := file.New(path)
	gt.NoError(t, err).Required()
	gt.Value(t, repo.Path()).Equal(path)

	risks, err := repo.Risk().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, risks).Length(0)

	_, err = os.Stat(path)
	gt.B(t, os.IsNotExist(err)).True()
}

func TestFileRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), file.DefaultFileName)
	gt.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := file.New(path)
	gt.Error(t, err)
}

func TestFileRejectsInvalidRating(t *testing.T) {
	path := filepath.Join(t.TempDir(), file.DefaultFileName)
	doc := `{"risks":[{"id":"r1","initialRisk":{"severity":7,"likelihood":"A","exposure":1,"detectability":1},"residualRisk":{"severity":1,"likelihood":"A","exposure":1,"detectability":1}}]}`
	gt.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := file.New(path)
	gt.Error(t, err)
}

func TestFileKeepsStateWhenWriteFails(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), file.DefaultFileName)

	repo, err := file.New(path)
	gt.NoError(t, err).Required()

	kept := model.NewRiskEntry(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	kept.ActivityTitle = "Stall approach"
	gt.NoError(t, repo.Risk().Put(ctx, kept)).Required()

	// a non-empty directory at the document path makes the rename fail
	gt.NoError(t, os.Remove(path)).Required()
	gt.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o750)).Required()

	lost := model.NewRiskEntry(time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC))
	gt.Error(t, repo.Risk().Put(ctx, lost))
	gt.Error(t, repo.Study().Put(ctx, &model.StudyContext{StudyName: "Spin"}))
	gt.Error(t, repo.Risk().Delete(ctx, kept.ID))

	_, err = repo.Risk().Get(ctx, lost.ID)
	gt.Error(t, err).Is(file.ErrNotFound)

	risks, err := repo.Risk().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, risks).Length(1).Required()
	gt.Value(t, risks[0].ActivityTitle).Equal("Stall approach")

	study, err := repo.Study().Get(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, study).Nil()
}
