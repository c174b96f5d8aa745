package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"marksbot/internal/service"
	"marksbot/internal/store"

	"github.com/phuslu/log"
)

type UploadHandler struct {
	ingestService *service.IngestService
}

func NewUploadHandler(ingestService *service.IngestService) *UploadHandler {
	return &UploadHandler{ingestService: ingestService}
}

// UploadPDF ingests one or more marks PDFs from a multipart form. Each
// file is processed synchronously before the response is written; the
// response carries a per-file import summary.
func (h *UploadHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(32 << 20) // 32MB
	if err != nil {
		http.Error(w, "File too large or bad request", http.StatusRequestEntityTooLarge)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	summaries := make([]*service.ImportSummary, 0, len(files))
	failed := 0
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			log.Warn().Err(err).Str("file", header.Filename).Msg("error opening uploaded file")
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			log.Warn().Err(err).Str("file", header.Filename).Msg("error reading uploaded file")
			continue
		}

		summary, err := h.ingestService.IngestPDF(header.Filename, data)
		if errors.Is(err, store.ErrStoreUnavailable) {
			http.Error(w, "Something went wrong. Please try again later.", http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			failed++
		}
		summaries = append(summaries, summary)
	}

	status := http.StatusOK
	if len(summaries) > 0 && failed == len(summaries) {
		// every file was unreadable
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"results": summaries}); err != nil {
		log.Warn().Err(err).Msg("error encoding upload response")
	}
}
