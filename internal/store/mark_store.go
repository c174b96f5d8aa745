// Package store owns the persisted mark records and the learned subject
// aliases. All other packages read and write through it.
package store

import (
	"errors"
	"fmt"
	"iter"
	"sync"

	"marksbot/internal/model"

	"github.com/phuslu/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrStudentNotFound means the student id has no rows at all.
	ErrStudentNotFound = errors.New("no record found for student")
	// ErrSubjectNotFound means the student exists but has no mark for
	// the requested subject.
	ErrSubjectNotFound = errors.New("no mark for subject on record")
	// ErrStoreUnavailable wraps database connectivity failures, the only
	// fatal error class.
	ErrStoreUnavailable = errors.New("mark store unavailable")
)

type MarkStore struct {
	db *gorm.DB
	// mu serializes upserts; a coarse lock is fine at expected load.
	mu sync.Mutex
}

func NewMarkStore(db *gorm.DB) *MarkStore {
	return &MarkStore{db: db}
}

// Upsert inserts a mark or replaces the existing one for the same
// (student, subject) pair. Replacement is the chosen conflict policy:
// a re-uploaded PDF carries corrections and the latest upload wins.
func (s *MarkStore) Upsert(rec model.MarkRecord) error {
	rec.StudentKey = model.StudentKey(rec.StudentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_key"}, {Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"student_id", "student_name", "subject_raw", "mark", "source_file"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// QueryOne fetches the mark for one student and canonical subject,
// distinguishing an unknown student from a known student without that
// subject.
func (s *MarkStore) QueryOne(studentID, subject string) (*model.MarkRecord, error) {
	key := model.StudentKey(studentID)

	var rec model.MarkRecord
	err := s.db.Where("student_key = ? AND subject = ?", key, subject).First(&rec).Error
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	n, err := s.countFor(key)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrStudentNotFound
	}
	return nil, ErrSubjectNotFound
}

// QueryAll returns a student's marks as a lazy, restartable sequence
// ordered by subject name. Each range over the sequence re-runs the query;
// a scan failure mid-iteration ends the sequence and is logged.
func (s *MarkStore) QueryAll(studentID string) (iter.Seq[model.MarkRecord], error) {
	key := model.StudentKey(studentID)

	n, err := s.countFor(key)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrStudentNotFound
	}

	seq := func(yield func(model.MarkRecord) bool) {
		rows, err := s.db.Model(&model.MarkRecord{}).
			Where("student_key = ?", key).Order("subject").Rows()
		if err != nil {
			log.Error().Err(err).Str("student_id", studentID).Msg("query all marks failed")
			return
		}
		defer rows.Close()
		for rows.Next() {
			var rec model.MarkRecord
			if err := s.db.ScanRows(rows, &rec); err != nil {
				log.Error().Err(err).Msg("scan mark row failed")
				return
			}
			if !yield(rec) {
				return
			}
		}
	}
	return seq, nil
}

// SubjectsFor lists the canonical subjects a student has marks in,
// ordered by name.
func (s *MarkStore) SubjectsFor(studentID string) ([]string, error) {
	var subjects []string
	err := s.db.Model(&model.MarkRecord{}).
		Where("student_key = ?", model.StudentKey(studentID)).
		Order("subject").Distinct().Pluck("subject", &subjects).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return subjects, nil
}

// Subjects lists every canonical subject on record.
func (s *MarkStore) Subjects() ([]string, error) {
	var subjects []string
	err := s.db.Model(&model.MarkRecord{}).
		Order("subject").Distinct().Pluck("subject", &subjects).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return subjects, nil
}

// StudentName returns the first non-empty name recorded for a student.
func (s *MarkStore) StudentName(studentID string) string {
	var names []string
	s.db.Model(&model.MarkRecord{}).
		Where("student_key = ? AND student_name <> ''", model.StudentKey(studentID)).
		Limit(1).Pluck("student_name", &names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func (s *MarkStore) countFor(key string) (int64, error) {
	var n int64
	if err := s.db.Model(&model.MarkRecord{}).Where("student_key = ?", key).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n, nil
}

// SaveAlias persists a learned subject alias. Existing aliases are left
// untouched; the table is append-only.
func (s *MarkStore) SaveAlias(alias, canonical string) error {
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SubjectAlias{Alias: alias, Canonical: canonical}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Aliases loads every persisted subject alias.
func (s *MarkStore) Aliases() (map[string]string, error) {
	var rows []model.SubjectAlias
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	out := make(map[string]string, len(rows))
	for _, a := range rows {
		out[a.Alias] = a.Canonical
	}
	return out, nil
}
