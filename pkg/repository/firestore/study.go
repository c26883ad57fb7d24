package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const studyDoc = "current"

type studyDocument struct {
	StudyName       string `firestore:"study_name"`
	Aircraft        string `firestore:"aircraft"`
	Date            string `firestore:"date"`
	GlobalSynthesis string `firestore:"global_synthesis"`
}

type studyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newStudyRepository(client *firestore.Client) *studyRepository {
	return &studyRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *studyRepository) studyRef() *firestore.DocumentRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "study")).Doc(studyDoc)
}

func (r *studyRepository) Get(ctx context.Context) (*model.StudyContext, error) {
	doc, err := r.studyRef().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get study context")
	}

	var d studyDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal study context")
	}
	return &model.StudyContext{
		StudyName:       d.StudyName,
		Aircraft:        d.Aircraft,
		Date:            d.Date,
		GlobalSynthesis: d.GlobalSynthesis,
	}, nil
}

func (r *studyRepository) Put(ctx context.Context, study *model.StudyContext) error {
	d := &studyDocument{
		StudyName:       study.StudyName,
		Aircraft:        study.Aircraft,
		Date:            study.Date,
		GlobalSynthesis: study.GlobalSynthesis,
	}
	if _, err := r.studyRef().Set(ctx, d); err != nil {
		return goerr.Wrap(err, "failed to put study context")
	}
	return nil
}
