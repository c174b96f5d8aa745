package handler

import (
	"encoding/json"
	"net/http"

	"marksbot/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/phuslu/log"
)

type AskRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Question  string `json:"question" validate:"required"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type AskHandler struct {
	askService *service.AskService
	validate   *validator.Validate
}

func NewAskHandler(askService *service.AskService) *AskHandler {
	return &AskHandler{askService: askService, validate: validator.New()}
}

// Ask answers a student's free-text question. Interpretation never fails
// the request: unknown students, unknown subjects and ambiguous questions
// all come back as 200 with a rendered answer. Only a store failure maps
// to 503.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "student_id and question are required", http.StatusBadRequest)
		return
	}

	answer, err := h.askService.Ask(req.StudentID, req.Question)
	if err != nil {
		// detail already logged at the service layer
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(AskResponse{Answer: "Something went wrong. Please try again later."})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(AskResponse{Answer: answer}); err != nil {
		log.Warn().Err(err).Msg("error encoding ask response")
	}
}
