package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// assessmentDocument stores the computed level for querying only; it is
// never read back.
type assessmentDocument struct {
	Severity      int    `firestore:"severity"`
	Likelihood    string `firestore:"likelihood"`
	Exposure      int    `firestore:"exposure"`
	Detectability int    `firestore:"detectability"`
	ComputedLevel string `firestore:"computed_level"`
}

type riskDocument struct {
	ID                 string             `firestore:"id"`
	Seq                int64              `firestore:"seq"`
	StudyNumber        string             `firestore:"study_number"`
	Experimentation    string             `firestore:"experimentation"`
	ActivityTitle      string             `firestore:"activity_title"`
	Aircraft           string             `firestore:"aircraft"`
	DreadedEvent       string             `firestore:"dreaded_event"`
	MitigationMeasures string             `firestore:"mitigation_measures"`
	Synthesis          string             `firestore:"synthesis"`
	InitialRisk        assessmentDocument `firestore:"initial_risk"`
	ResidualRisk       assessmentDocument `firestore:"residual_risk"`
	UpdatedAt          time.Time          `firestore:"updated_at"`
}

func toAssessmentDocument(a model.Assessment) assessmentDocument {
	return assessmentDocument{
		Severity:      int(a.Severity),
		Likelihood:    string(a.Likelihood),
		Exposure:      int(a.Exposure),
		Detectability: int(a.Detectability),
		ComputedLevel: a.Level().String(),
	}
}

func (d assessmentDocument) toModel() model.Assessment {
	return model.Assessment{
		Severity:      types.Severity(d.Severity),
		Likelihood:    types.Likelihood(d.Likelihood),
		Exposure:      types.Exposure(d.Exposure),
		Detectability: types.Detectability(d.Detectability),
	}
}

func toRiskDocument(risk *model.RiskEntry, seq int64) *riskDocument {
	return &riskDocument{
		ID:                 risk.ID.String(),
		Seq:                seq,
		StudyNumber:        risk.StudyNumber,
		Experimentation:    risk.Experimentation,
		ActivityTitle:      risk.ActivityTitle,
		Aircraft:           risk.Aircraft,
		DreadedEvent:       risk.DreadedEvent,
		MitigationMeasures: risk.MitigationMeasures,
		Synthesis:          risk.Synthesis,
		InitialRisk:        toAssessmentDocument(risk.InitialRisk),
		ResidualRisk:       toAssessmentDocument(risk.ResidualRisk),
		UpdatedAt:          risk.UpdatedAt,
	}
}

func (d *riskDocument) toModel() *model.RiskEntry {
	return &model.RiskEntry{
		ID:                 types.RiskID(d.ID),
		StudyNumber:        d.StudyNumber,
		Experimentation:    d.Experimentation,
		ActivityTitle:      d.ActivityTitle,
		Aircraft:           d.Aircraft,
		DreadedEvent:       d.DreadedEvent,
		MitigationMeasures: d.MitigationMeasures,
		Synthesis:          d.Synthesis,
		InitialRisk:        d.InitialRisk.toModel(),
		ResidualRisk:       d.ResidualRisk.toModel(),
		UpdatedAt:          d.UpdatedAt,
	}
}

// decodeRisk converts a stored document and rejects ratings outside the
// closed enumerations, which would otherwise panic on classification.
func decodeRisk(d *riskDocument) (*model.RiskEntry, error) {
	risk := d.toModel()
	if err := risk.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk document", goerr.V("id", d.ID))
	}
	return risk, nil
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *riskRepository) risksCollection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, RiskCollection))
}

// Put keeps the insertion sequence of an existing entry so List order is stable
func (r *riskRepository) Put(ctx context.Context, risk *model.RiskEntry) error {
	if err := risk.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk entry")
	}

	docRef := r.risksCollection().Doc(risk.ID.String())
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		seq := time.Now().UnixNano()
		doc, err := tx.Get(docRef)
		switch {
		case err == nil:
			var existing riskDocument
			if err := doc.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal risk")
			}
			seq = existing.Seq
		case status.Code(err) != codes.NotFound:
			return goerr.Wrap(err, "failed to get risk")
		}
		return tx.Set(docRef, toRiskDocument(risk, seq))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put risk", goerr.V("id", risk.ID))
	}
	return nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.RiskEntry, error) {
	doc, err := r.risksCollection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var riskDoc riskDocument
	if err := doc.DataTo(&riskDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}
	return decodeRisk(&riskDoc)
}

func (r *riskRepository) List(ctx context.Context) ([]*model.RiskEntry, error) {
	iter := r.risksCollection().OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	risks := []*model.RiskEntry{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var riskDoc riskDocument
		if err := doc.DataTo(&riskDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("doc", doc.Ref.ID))
		}
		risk, err := decodeRisk(&riskDoc)
		if err != nil {
			return nil, err
		}
		risks = append(risks, risk)
	}

	return risks, nil
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) error {
	docRef := r.risksCollection().Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V("id", id))
	}
	return nil
}

// ReplaceAll writes through a BulkWriter and is not atomic. New entries
// are stored before stale ones are deleted, so a failure never drops an
// entry of the new set.
func (r *riskRepository) ReplaceAll(ctx context.Context, risks []*model.RiskEntry) error {
	keep := make(map[string]struct{}, len(risks))
	for _, risk := range risks {
		if err := risk.Validate(); err != nil {
			return goerr.Wrap(err, "invalid risk entry")
		}
		if _, ok := keep[risk.ID.String()]; ok {
			return goerr.New("duplicated risk ID", goerr.V("id", risk.ID))
		}
		keep[risk.ID.String()] = struct{}{}
	}

	existing, err := r.risksCollection().Documents(ctx).GetAll()
	if err != nil {
		return goerr.Wrap(err, "failed to list risks")
	}

	bw := r.client.BulkWriter(ctx)
	defer bw.End()

	base := time.Now().UnixNano()
	jobs := make([]*firestore.BulkWriterJob, 0, len(risks))
	for i, risk := range risks {
		job, err := bw.Set(r.risksCollection().Doc(risk.ID.String()), toRiskDocument(risk, base+int64(i)))
		if err != nil {
			return goerr.Wrap(err, "failed to queue risk", goerr.V("id", risk.ID))
		}
		jobs = append(jobs, job)
	}
	bw.Flush()
	if err := waitJobs(jobs); err != nil {
		return goerr.Wrap(err, "failed to store risks", goerr.V("count", len(risks)))
	}

	jobs = jobs[:0]
	for _, doc := range existing {
		if _, ok := keep[doc.Ref.ID]; ok {
			continue
		}
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			return goerr.Wrap(err, "failed to queue risk deletion", goerr.V("doc", doc.Ref.ID))
		}
		jobs = append(jobs, job)
	}
	bw.Flush()
	if err := waitJobs(jobs); err != nil {
		return goerr.Wrap(err, "failed to delete stale risks")
	}
	return nil
}

func waitJobs(jobs []*firestore.BulkWriterJob) error {
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return err
		}
	}
	return nil
}
