package model

import "strings"

// MarkRecord is one persisted mark. StudentKey is the case-insensitive
// lookup key derived from StudentID; Subject holds the canonical subject
// name while SubjectRaw keeps the text as it appeared in the PDF.
type MarkRecord struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	StudentKey  string  `gorm:"size:64;uniqueIndex:idx_student_subject" json:"-"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name,omitempty"`
	Subject     string  `gorm:"size:128;uniqueIndex:idx_student_subject" json:"subject"`
	SubjectRaw  string  `json:"subject_raw,omitempty"`
	Mark        float64 `json:"mark"`
	SourceFile  string  `json:"source_file,omitempty"`
}

// SubjectAlias maps a normalized surface form to a canonical subject name.
// Rows are append-only; uploads add learned aliases but never remove them.
type SubjectAlias struct {
	ID        uint   `gorm:"primaryKey"`
	Alias     string `gorm:"size:128;uniqueIndex"`
	Canonical string `gorm:"size:128"`
}

// StudentKey normalizes a student id for storage and lookup.
func StudentKey(studentID string) string {
	return strings.ToLower(strings.TrimSpace(studentID))
}
