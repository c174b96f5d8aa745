package service

import (
	"marksbot/internal/model"
	"marksbot/internal/store"
)

type StudentService struct {
	store *store.MarkStore
}

func NewStudentService(st *store.MarkStore) *StudentService {
	return &StudentService{store: st}
}

// ListMarks returns a student's marks ordered by subject name.
// store.ErrStudentNotFound passes through for the handler to map to 404.
func (s *StudentService) ListMarks(studentID string) ([]model.MarkRecord, error) {
	seq, err := s.store.QueryAll(studentID)
	if err != nil {
		return nil, err
	}
	var marks []model.MarkRecord
	for rec := range seq {
		marks = append(marks, rec)
	}
	return marks, nil
}
