package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/service/render"
)

type classifyResponse struct {
	Severity   types.Severity   `json:"severity"`
	Likelihood types.Likelihood `json:"likelihood"`
	Level      types.RiskLevel  `json:"level"`
	Label      string           `json:"label"`
	Color      string           `json:"color"`
}

func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sev, err := types.ParseSeverity(q.Get("severity"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	lik, err := types.ParseLikelihood(q.Get("likelihood"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	level := types.Classify(sev, lik)
	writeJSON(w, r, http.StatusOK, classifyResponse{
		Severity:   sev,
		Likelihood: lik,
		Level:      level,
		Label:      level.Label(),
		Color:      level.Color(),
	})
}

func (s *Server) listRisksHandler(w http.ResponseWriter, r *http.Request) {
	risks, err := s.uc.Risk.ListRisks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, risks)
}

// createRiskHandler stores the posted entry, or a new entry built from the
// catalog template named by the catalog query parameter.
func (s *Server) createRiskHandler(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("catalog"); id != "" {
		risk, err := s.uc.Risk.CreateFromCatalog(r.Context(), types.CatalogEntryID(id))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, risk)
		return
	}

	var risk model.RiskEntry
	if err := decodeJSON(r, &risk); err != nil {
		writeError(w, r, err)
		return
	}
	risk.ID = ""

	saved, err := s.uc.Risk.SaveRisk(r.Context(), &risk)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, saved)
}

func (s *Server) getRiskHandler(w http.ResponseWriter, r *http.Request) {
	risk, err := s.uc.Risk.GetRisk(r.Context(), types.RiskID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, risk)
}

func (s *Server) updateRiskHandler(w http.ResponseWriter, r *http.Request) {
	id := types.RiskID(chi.URLParam(r, "id"))
	if _, err := s.uc.Risk.GetRisk(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	var risk model.RiskEntry
	if err := decodeJSON(r, &risk); err != nil {
		writeError(w, r, err)
		return
	}
	if risk.ID != "" && risk.ID != id {
		writeError(w, r, goerr.Wrap(ErrBadRequest, "ID in body does not match path", goerr.V("path", id), goerr.V("body", risk.ID)))
		return
	}
	risk.ID = id

	saved, err := s.uc.Risk.SaveRisk(r.Context(), &risk)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, saved)
}

func (s *Server) rateRiskHandler(w http.ResponseWriter, r *http.Request) {
	phase, err := types.ParsePhase(chi.URLParam(r, "phase"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var a model.Assessment
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.Rate(r.Context(), types.RiskID(chi.URLParam(r, "id")), phase,
		a.Severity, a.Likelihood, a.Exposure, a.Detectability)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, risk)
}

func (s *Server) deleteRiskHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Risk.DeleteRisk(r.Context(), types.RiskID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseSize(r *http.Request) (matrix.Size, error) {
	size, err := matrix.ParseSize(r.URL.Query().Get("size"))
	if err != nil {
		return "", goerr.Wrap(ErrBadRequest, "invalid size", goerr.V("error", err.Error()))
	}
	return size, nil
}

func (s *Server) riskMatrixHandler(w http.ResponseWriter, r *http.Request) {
	size, err := parseSize(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.uc.Report.MatrixView(r.Context(), types.RiskID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.MatrixSVG(w, s.uc.Layout(size), view); err != nil {
		writeError(w, r, err)
	}
}
