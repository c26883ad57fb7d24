package http

import (
	"net/http"

	"github.com/secmon-lab/grxp/pkg/domain/model"
)

func (s *Server) getStudyHandler(w http.ResponseWriter, r *http.Request) {
	study, err := s.uc.Study.GetStudy(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, study)
}

func (s *Server) putStudyHandler(w http.ResponseWriter, r *http.Request) {
	var study model.StudyContext
	if err := decodeJSON(r, &study); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.uc.Study.SaveStudy(r.Context(), &study); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, study)
}

// newStudyHandler drops every risk entry and resets the study context
func (s *Server) newStudyHandler(w http.ResponseWriter, r *http.Request) {
	study, err := s.uc.Study.StartNewStudy(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, study)
}
