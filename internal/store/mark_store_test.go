package store_test

import (
	"testing"

	"marksbot/internal/model"
	"marksbot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) *store.MarkStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.MarkRecord{}, &model.SubjectAlias{}))
	return store.NewMarkStore(db)
}

func seed(t *testing.T, s *store.MarkStore, recs ...model.MarkRecord) {
	t.Helper()
	for _, rec := range recs {
		require.NoError(t, s.Upsert(rec))
	}
}

func TestUpsertReplacesOnConflict(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s,
		model.MarkRecord{StudentID: "S1", Subject: "Data Structures", SubjectRaw: "ds", Mark: 78},
		model.MarkRecord{StudentID: "S1", Subject: "Data Structures", SubjectRaw: "DS", Mark: 82},
	)

	rec, err := s.QueryOne("S1", "Data Structures")
	require.NoError(t, err)
	assert.Equal(t, 82.0, rec.Mark)
	assert.Equal(t, "DS", rec.SubjectRaw)

	subjects, err := s.SubjectsFor("S1")
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
}

func TestLookupsAreCaseAndSpaceInsensitive(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, model.MarkRecord{StudentID: "S1", Subject: "DBMS", Mark: 65})

	rec, err := s.QueryOne("  s1 ", "DBMS")
	require.NoError(t, err)
	assert.Equal(t, 65.0, rec.Mark)

	// different case on upsert hits the same row
	seed(t, s, model.MarkRecord{StudentID: "s1", Subject: "DBMS", Mark: 70})
	rec, err = s.QueryOne("S1", "DBMS")
	require.NoError(t, err)
	assert.Equal(t, 70.0, rec.Mark)
}

func TestQueryOneNotFoundOutcomes(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, model.MarkRecord{StudentID: "S1", Subject: "DBMS", Mark: 65})

	_, err := s.QueryOne("S2", "DBMS")
	assert.ErrorIs(t, err, store.ErrStudentNotFound)

	_, err = s.QueryOne("S1", "Operating Systems")
	assert.ErrorIs(t, err, store.ErrSubjectNotFound)
}

func TestQueryAllOrderedAndRestartable(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s,
		model.MarkRecord{StudentID: "S1", Subject: "Data Structures", Mark: 78},
		model.MarkRecord{StudentID: "S1", Subject: "DBMS", Mark: 65},
	)

	seq, err := s.QueryAll("S1")
	require.NoError(t, err)

	// ranging twice re-runs the query and yields the same ordered rows
	for range 2 {
		var subjects []string
		for rec := range seq {
			subjects = append(subjects, rec.Subject)
		}
		assert.Equal(t, []string{"DBMS", "Data Structures"}, subjects)
	}

	_, err = s.QueryAll("S9")
	assert.ErrorIs(t, err, store.ErrStudentNotFound)
}

func TestQueryAllEarlyBreak(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s,
		model.MarkRecord{StudentID: "S1", Subject: "DBMS", Mark: 65},
		model.MarkRecord{StudentID: "S1", Subject: "Data Structures", Mark: 78},
	)

	seq, err := s.QueryAll("S1")
	require.NoError(t, err)
	count := 0
	for range seq {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestStudentName(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s,
		model.MarkRecord{StudentID: "S1", Subject: "DBMS", Mark: 65},
		model.MarkRecord{StudentID: "S1", StudentName: "Alice", Subject: "Data Structures", Mark: 78},
	)

	assert.Equal(t, "Alice", s.StudentName("s1"))
	assert.Equal(t, "", s.StudentName("S2"))
}

func TestAliasesRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.SaveAlias("algo", "Algorithms"))
	// append-only: saving the same alias again keeps the original
	require.NoError(t, s.SaveAlias("algo", "Something Else"))

	aliases, err := s.Aliases()
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", aliases["algo"])
}
