package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"marksbot/internal/service"
	"marksbot/internal/store"

	"github.com/gorilla/mux"
)

type StudentHandler struct {
	studentService *service.StudentService
}

func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListMarks returns every mark on record for one student, ordered by
// subject name.
func (h *StudentHandler) ListMarks(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["id"]

	marks, err := h.studentService.ListMarks(studentID)
	if errors.Is(err, store.ErrStudentNotFound) {
		http.Error(w, "No record found for student "+studentID, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Something went wrong. Please try again later.", http.StatusServiceUnavailable)
		return
	}

	response := map[string]interface{}{
		"student_id": studentID,
		"marks":      marks,
		"count":      len(marks),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		return
	}
}
