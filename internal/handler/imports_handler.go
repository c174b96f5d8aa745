package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"marksbot/internal/service"
)

type ImportsHandler struct {
	ingestService *service.IngestService
}

func NewImportsHandler(ingestService *service.IngestService) *ImportsHandler {
	return &ImportsHandler{ingestService: ingestService}
}

// GetFileImport returns the import summary for a specific file
func (h *ImportsHandler) GetFileImport(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		http.Error(w, "fileName parameter is required", http.StatusBadRequest)
		return
	}

	summary := h.ingestService.GetFileSummary(filepath.Base(fileName))
	if summary == nil {
		http.Error(w, "No import recorded for this file", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// GetAllImports returns the import summaries for all uploaded files
func (h *ImportsHandler) GetAllImports(w http.ResponseWriter, r *http.Request) {
	summaries := h.ingestService.GetAllSummaries()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}
