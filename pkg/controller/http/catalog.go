package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

func (s *Server) listCatalogHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.uc.Catalog.ListCatalog(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

func (s *Server) saveCatalogHandler(w http.ResponseWriter, r *http.Request) {
	var entry model.CatalogEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.uc.Catalog.SaveCatalogEntry(r.Context(), &entry); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entry)
}

func (s *Server) deleteCatalogHandler(w http.ResponseWriter, r *http.Request) {
	id := types.CatalogEntryID(chi.URLParam(r, "id"))
	if err := s.uc.Catalog.DeleteCatalogEntry(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
