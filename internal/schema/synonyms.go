package schema

import (
	"regexp"
	"strings"
)

// Canonical field names produced by header mapping.
const (
	FieldStudentID   = "student_id"
	FieldStudentName = "student_name"
	FieldSubject     = "subject"
	FieldMark        = "mark"
)

// headerSynonyms is the declarative table of accepted header spellings.
// Matching runs on NormalizeHeader output, so spacing, case, dashes and
// underscores never matter.
var headerSynonyms = map[string][]string{
	FieldStudentID:   {"student_id", "student id", "roll", "rollno", "roll no", "roll_no", "register", "reg no"},
	FieldStudentName: {"student_name", "student name", "name"},
	FieldSubject:     {"subject", "course", "paper", "sub"},
	FieldMark:        {"mark", "marks", "score", "total"},
}

var squeezeRe = regexp.MustCompile(`[\s\-_]+`)

// NormalizeHeader lowercases a header cell and collapses runs of
// whitespace, dashes and underscores into single spaces.
func NormalizeHeader(s string) string {
	return strings.TrimSpace(squeezeRe.ReplaceAllString(strings.ToLower(s), " "))
}

// CanonicalField maps a raw header cell to its canonical field name.
func CanonicalField(header string) (string, bool) {
	n := NormalizeHeader(header)
	for field, aliases := range headerSynonyms {
		for _, a := range aliases {
			if n == NormalizeHeader(a) {
				return field, true
			}
		}
	}
	return "", false
}

// ColumnMapping is the per-upload mapping from canonical field name to the
// header cell it was detected under. It is built fresh for every PDF and
// never persisted.
type ColumnMapping map[string]string

// MapColumns resolves a header row into a ColumnMapping. The first header
// cell matching a field wins; later duplicates are ignored.
func MapColumns(headers []string) ColumnMapping {
	m := make(ColumnMapping, len(headerSynonyms))
	for _, h := range headers {
		if field, ok := CanonicalField(h); ok {
			if _, seen := m[field]; !seen {
				m[field] = h
			}
		}
	}
	return m
}

// Score counts how many of the required fields a header row resolves.
// Used to pick the most marks-table-like of several candidate tables.
func Score(headers []string) int {
	m := MapColumns(headers)
	score := 0
	for _, f := range []string{FieldStudentID, FieldSubject, FieldMark} {
		if _, ok := m[f]; ok {
			score++
		}
	}
	return score
}

// IsHeaderRow reports whether a row of cells looks like a marks-table
// header: at least one student_id synonym and one mark synonym.
func IsHeaderRow(cells []string) bool {
	m := MapColumns(cells)
	_, hasID := m[FieldStudentID]
	_, hasMark := m[FieldMark]
	return hasID && hasMark
}
