package http

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/secmon-lab/grxp/pkg/utils/logging"
)

type importResponse struct {
	Imported int `json:"imported"`
}

// writeBuffered renders into memory first so that a rendering error can
// still be reported with a proper status code.
func writeBuffered(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := render(r.Context(), &buf); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	if _, err := buf.WriteTo(w); err != nil {
		logging.From(r.Context()).Warn("failed to write response", "error", err)
	}
}

func (s *Server) exportJSONHandler(w http.ResponseWriter, r *http.Request) {
	writeBuffered(w, r, "application/json", "risks.json", s.uc.Data.ExportJSON)
}

func (s *Server) exportCSVHandler(w http.ResponseWriter, r *http.Request) {
	writeBuffered(w, r, "text/csv; charset=utf-8", "risks.csv", s.uc.Data.ExportCSV)
}

func (s *Server) reportPDFHandler(w http.ResponseWriter, r *http.Request) {
	writeBuffered(w, r, "application/pdf", "", s.uc.Report.PDF)
}

func (s *Server) importJSONHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.uc.Data.ImportJSON(r.Context(), r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, importResponse{Imported: n})
}

func (s *Server) importCSVHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.uc.Data.ImportCSV(r.Context(), r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, importResponse{Imported: n})
}
