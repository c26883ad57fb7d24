package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/service/render"
)

// synthesisHandler returns the study synthesis, or only the entries of
// one residual cell when the cell query parameter is set (e.g. cell=4C).
func (s *Server) synthesisHandler(w http.ResponseWriter, r *http.Request) {
	if code := r.URL.Query().Get("cell"); code != "" {
		cell, err := matrix.ParseCell(code)
		if err != nil {
			writeError(w, r, goerr.Wrap(ErrBadRequest, "invalid cell", goerr.V("error", err.Error())))
			return
		}
		risks, err := s.uc.Synthesis.RisksInCell(r.Context(), cell)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, risks)
		return
	}

	synthesis, err := s.uc.Synthesis.Build(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, synthesis)
}

func (s *Server) synthesisSVGHandler(w http.ResponseWriter, r *http.Request) {
	size, err := parseSize(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	synthesis, err := s.uc.Synthesis.Build(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.SynthesisSVG(w, s.uc.Layout(size), synthesis.Counts()); err != nil {
		writeError(w, r, err)
	}
}

func (s *Server) synthesisTextHandler(w http.ResponseWriter, r *http.Request) {
	synthesis, err := s.uc.Synthesis.Build(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := synthesis.WriteText(w); err != nil {
		writeError(w, r, err)
	}
}
