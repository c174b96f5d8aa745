package schema

import (
	"regexp"
	"strconv"
	"strings"

	"marksbot/internal/model"
	"marksbot/internal/subject"

	"github.com/phuslu/log"
)

var markRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseMark extracts a numeric mark from a cell. Decimal commas are
// accepted; the first numeric run wins ("78 / 100" parses as 78).
func ParseMark(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	m := markRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeRow turns one raw row into a MarkRecord. A missing or
// unparsable student_id, subject or mark means the row is skipped, not
// failed: the second return is false and the caller aggregates the skip.
// Marks outside [0, maxMark] are treated the same way.
func NormalizeRow(row map[string]string, cols ColumnMapping, resolver *subject.Resolver, maxMark float64, sourceFile string) (model.MarkRecord, bool) {
	studentID := strings.TrimSpace(row[cols[FieldStudentID]])
	rawSubject := strings.TrimSpace(row[cols[FieldSubject]])
	if studentID == "" || rawSubject == "" {
		log.Debug().Str("file", sourceFile).Msg("skipping row without student id or subject")
		return model.MarkRecord{}, false
	}

	mark, ok := ParseMark(row[cols[FieldMark]])
	if !ok || mark < 0 || mark > maxMark {
		log.Debug().Str("file", sourceFile).Str("student_id", studentID).
			Str("cell", row[cols[FieldMark]]).Msg("skipping row with unparsable or out-of-range mark")
		return model.MarkRecord{}, false
	}

	rec := model.MarkRecord{
		StudentKey:  model.StudentKey(studentID),
		StudentID:   studentID,
		StudentName: strings.TrimSpace(row[cols[FieldStudentName]]),
		Subject:     resolver.Canonicalize(rawSubject),
		SubjectRaw:  rawSubject,
		Mark:        mark,
		SourceFile:  sourceFile,
	}
	return rec, true
}
