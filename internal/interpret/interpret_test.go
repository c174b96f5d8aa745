package interpret_test

import (
	"strings"
	"testing"

	"marksbot/internal/interpret"
	"marksbot/internal/model"
	"marksbot/internal/store"
	"marksbot/internal/subject"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInterpreter(t *testing.T) *interpret.Interpreter {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.MarkRecord{}, &model.SubjectAlias{}))

	s := store.NewMarkStore(db)
	require.NoError(t, s.Upsert(model.MarkRecord{StudentID: "S1", Subject: "Data Structures", SubjectRaw: "ds", Mark: 78}))
	require.NoError(t, s.Upsert(model.MarkRecord{StudentID: "S1", Subject: "DBMS", SubjectRaw: "dbms", Mark: 65}))

	return interpret.New(subject.NewResolver(nil), s)
}

func TestParseIntents(t *testing.T) {
	it := setupInterpreter(t)

	q := it.Parse("S1", "show my marks")
	assert.Equal(t, interpret.IntentAllMarks, q.Intent)

	q = it.Parse("S1", "my mark in ds")
	assert.Equal(t, interpret.IntentOneMark, q.Intent)
	assert.Equal(t, "Data Structures", q.SubjectRef)

	q = it.Parse("S1", "What did I get in Data Structures?")
	assert.Equal(t, interpret.IntentOneMark, q.Intent)
	assert.Equal(t, "Data Structures", q.SubjectRef)

	q = it.Parse("S1", "")
	assert.Equal(t, interpret.IntentUnknown, q.Intent)

	q = it.Parse("S1", "hello there")
	assert.Equal(t, interpret.IntentUnknown, q.Intent)
}

func TestParseFuzzySubject(t *testing.T) {
	it := setupInterpreter(t)

	q := it.Parse("S1", "my mark in data structurs")
	assert.Equal(t, interpret.IntentOneMark, q.Intent)
	assert.Equal(t, "Data Structures", q.SubjectRef)

	// below the similarity threshold no subject is guessed
	q = it.Parse("S1", "my mark in underwater weaving")
	assert.Equal(t, interpret.IntentUnknown, q.Intent)
}

func TestAnswerScenario(t *testing.T) {
	it := setupInterpreter(t)

	answer, err := it.Answer("S1", "my mark in ds")
	require.NoError(t, err)
	assert.Equal(t, "Your mark in Data Structures is 78.", answer)

	answer, err = it.Answer("S1", "show my marks")
	require.NoError(t, err)
	assert.Equal(t, "Your marks: DBMS: 65, Data Structures: 78.", answer)

	answer, err = it.Answer("S2", "my mark in ds")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer, "No record found for student S2."), answer)
	assert.NotContains(t, answer, "78")
}

func TestAnswerUsesCanonicalSubjectName(t *testing.T) {
	it := setupInterpreter(t)

	answer, err := it.Answer("S1", "what is my mark in dbms")
	require.NoError(t, err)
	assert.Contains(t, answer, "DBMS")
	assert.Equal(t, "Your mark in DBMS is 65.", answer)
}

func TestAnswerSubjectNotOnRecord(t *testing.T) {
	it := setupInterpreter(t)

	answer, err := it.Answer("S1", "my mark in operating systems")
	require.NoError(t, err)
	assert.Equal(t, "No mark in Operating Systems is on record for you. Subjects on record: DBMS, Data Structures.", answer)
}

func TestAnswerClarificationNeverInvents(t *testing.T) {
	it := setupInterpreter(t)

	answer, err := it.Answer("S1", "tell me something")
	require.NoError(t, err)
	assert.Contains(t, answer, "show my marks")
	assert.NotContains(t, answer, "78")
	assert.NotContains(t, answer, "65")
}

func TestAnswerAllMarksEntryCount(t *testing.T) {
	it := setupInterpreter(t)

	answer, err := it.Answer("S1", "show my marks")
	require.NoError(t, err)

	list := strings.TrimSuffix(strings.TrimPrefix(answer, "Your marks: "), ".")
	entries := strings.Split(list, ", ")
	assert.Len(t, entries, 2)
	assert.Equal(t, "DBMS: 65", entries[0])
	assert.Equal(t, "Data Structures: 78", entries[1])
}
