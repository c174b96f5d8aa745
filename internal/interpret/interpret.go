// Package interpret turns a free-text student question into a structured
// lookup and renders the answer. One pass, no dialogue memory: every
// question terminates in a renderable string, and only store connectivity
// failures propagate as errors.
package interpret

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"marksbot/internal/store"
	"marksbot/internal/subject"

	"github.com/phuslu/log"
)

type Intent int

const (
	IntentUnknown Intent = iota
	IntentOneMark
	IntentAllMarks
)

// ParsedQuery is the transient result of interpreting one question.
type ParsedQuery struct {
	Intent     Intent
	SubjectRef string // canonical subject, set for IntentOneMark
	StudentID  string
}

// allMarksPhrases mark a request for the full listing.
var allMarksPhrases = []string{
	"all marks",
	"show my marks",
	"my marks",
	"marks list",
	"list my marks",
	"all subjects",
	"overall marks",
}

// stopwords never count as subject candidates on their own.
var stopwords = map[string]bool{
	"my": true, "mark": true, "marks": true, "in": true, "for": true,
	"what": true, "whats": true, "is": true, "the": true, "of": true,
	"me": true, "tell": true, "show": true, "score": true, "did": true,
	"i": true, "get": true, "how": true, "much": true, "please": true,
	"was": true, "a": true, "on": true,
}

var cleanRe = regexp.MustCompile(`[^a-z0-9\s\-_]+`)

// clean lowercases a question and strips punctuation.
func clean(s string) string {
	s = cleanRe.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Join(strings.Fields(s), " ")
}

type Interpreter struct {
	resolver *subject.Resolver
	store    *store.MarkStore
}

func New(resolver *subject.Resolver, st *store.MarkStore) *Interpreter {
	return &Interpreter{resolver: resolver, store: st}
}

// Parse classifies a question into an intent and, for single-mark
// questions, the canonical subject it refers to. A subject that only
// fuzzy-matches below the similarity cutoff leaves the intent Unknown:
// the caller asks for clarification instead of guessing.
func (it *Interpreter) Parse(studentID, question string) ParsedQuery {
	q := ParsedQuery{Intent: IntentUnknown, StudentID: strings.TrimSpace(studentID)}
	t := clean(question)
	if t == "" {
		return q
	}

	for _, phrase := range allMarksPhrases {
		if strings.Contains(t, phrase) {
			q.Intent = IntentAllMarks
			return q
		}
	}

	if canonical, ok := it.findSubject(t); ok {
		q.Intent = IntentOneMark
		q.SubjectRef = canonical
	}
	return q
}

// findSubject scans the question's token n-grams for a subject reference.
// Longest exact alias match wins; otherwise the best fuzzy match above
// the resolver's threshold.
func (it *Interpreter) findSubject(t string) (string, bool) {
	tokens := strings.Fields(t)

	for size := 4; size >= 1; size-- {
		for i := 0; i+size <= len(tokens); i++ {
			gram := tokens[i : i+size]
			if allStopwords(gram) {
				continue
			}
			if canonical, ok := it.resolver.Resolve(strings.Join(gram, " ")); ok {
				return canonical, true
			}
		}
	}

	best := ""
	bestScore := 0.0
	for size := 4; size >= 1; size-- {
		for i := 0; i+size <= len(tokens); i++ {
			gram := tokens[i : i+size]
			if allStopwords(gram) {
				continue
			}
			if canonical, score, ok := it.resolver.FuzzyResolve(strings.Join(gram, " ")); ok && score > bestScore {
				best, bestScore = canonical, score
			}
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

func allStopwords(gram []string) bool {
	for _, g := range gram {
		if !stopwords[g] {
			return false
		}
	}
	return true
}

// Answer interprets a question and renders the reply. The returned error
// is non-nil only for store connectivity failures; every other outcome is
// a user-facing string.
func (it *Interpreter) Answer(studentID, question string) (string, error) {
	q := it.Parse(studentID, question)

	switch q.Intent {
	case IntentAllMarks:
		return it.answerAll(q)
	case IntentOneMark:
		return it.answerOne(q)
	default:
		return "Sorry, I couldn't work out which subject you mean. Try 'my mark in Data Structures' or 'show my marks'.", nil
	}
}

func (it *Interpreter) answerAll(q ParsedQuery) (string, error) {
	marks, err := it.store.QueryAll(q.StudentID)
	if errors.Is(err, store.ErrStudentNotFound) {
		return notFoundReply(q.StudentID), nil
	}
	if err != nil {
		return "", err
	}

	var entries []string
	for rec := range marks {
		entries = append(entries, rec.Subject+": "+formatMark(rec.Mark))
	}
	return "Your marks: " + strings.Join(entries, ", ") + ".", nil
}

func (it *Interpreter) answerOne(q ParsedQuery) (string, error) {
	rec, err := it.store.QueryOne(q.StudentID, q.SubjectRef)
	switch {
	case err == nil:
		return "Your mark in " + rec.Subject + " is " + formatMark(rec.Mark) + ".", nil
	case errors.Is(err, store.ErrStudentNotFound):
		return notFoundReply(q.StudentID), nil
	case errors.Is(err, store.ErrSubjectNotFound):
		subjects, serr := it.store.SubjectsFor(q.StudentID)
		if serr != nil {
			return "", serr
		}
		return "No mark in " + q.SubjectRef + " is on record for you. Subjects on record: " +
			strings.Join(subjects, ", ") + ".", nil
	default:
		log.Error().Err(err).Str("student_id", q.StudentID).Msg("mark lookup failed")
		return "", err
	}
}

// formatMark prints a mark without trailing zeros: 78 stays 78, 65.5
// stays 65.5.
func formatMark(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

func notFoundReply(studentID string) string {
	return "No record found for student " + studentID + ". Please re-check your student id."
}
