package subject_test

import (
	"testing"

	"marksbot/internal/subject"

	"github.com/stretchr/testify/assert"
)

type fakePersister struct {
	saved map[string]string
}

func (f *fakePersister) SaveAlias(alias, canonical string) error {
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[alias] = canonical
	return nil
}

func TestResolveSeedAliases(t *testing.T) {
	r := subject.NewResolver(nil)

	canonical, ok := r.Resolve("ds")
	assert.True(t, ok)
	assert.Equal(t, "Data Structures", canonical)

	canonical, ok = r.Resolve("  Data-Structures ")
	assert.True(t, ok)
	assert.Equal(t, "Data Structures", canonical)

	canonical, ok = r.Resolve("DBMS")
	assert.True(t, ok)
	assert.Equal(t, "DBMS", canonical)

	_, ok = r.Resolve("underwater basket weaving")
	assert.False(t, ok)
}

func TestFuzzyResolve(t *testing.T) {
	r := subject.NewResolver(nil)

	// typo within threshold
	canonical, score, ok := r.FuzzyResolve("data structurs")
	assert.True(t, ok)
	assert.Equal(t, "Data Structures", canonical)
	assert.Greater(t, score, 0.7)

	// exact hit short-circuits with score 1
	canonical, score, ok = r.FuzzyResolve("maths")
	assert.True(t, ok)
	assert.Equal(t, "Mathematics", canonical)
	assert.Equal(t, 1.0, score)

	// garbage stays below threshold
	_, _, ok = r.FuzzyResolve("zzzzqqqq")
	assert.False(t, ok)

	// short tokens never fuzzy match
	_, _, ok = r.FuzzyResolve("dz")
	assert.False(t, ok)
}

func TestLearnIsAppendOnly(t *testing.T) {
	p := &fakePersister{}
	r := subject.NewResolver(p)
	v0 := r.Version()

	r.Learn("advanced ds", "Data Structures")
	assert.Equal(t, v0+1, r.Version())
	assert.Equal(t, "Data Structures", p.saved["advanced ds"])

	canonical, ok := r.Resolve("Advanced DS")
	assert.True(t, ok)
	assert.Equal(t, "Data Structures", canonical)

	// an existing alias is never replaced
	r.Learn("advanced ds", "Something Else")
	assert.Equal(t, v0+1, r.Version())
	canonical, _ = r.Resolve("advanced ds")
	assert.Equal(t, "Data Structures", canonical)
}

func TestCanonicalize(t *testing.T) {
	p := &fakePersister{}
	r := subject.NewResolver(p)

	assert.Equal(t, "Data Structures", r.Canonicalize("ds"))
	assert.Equal(t, "Compiler Design", r.Canonicalize("compiler design"))

	// the new canonical is registered and persisted
	canonical, ok := r.Resolve("compiler design")
	assert.True(t, ok)
	assert.Equal(t, "Compiler Design", canonical)
	assert.Equal(t, "Compiler Design", p.saved["compiler design"])
}

func TestLoadDoesNotOverrideSeed(t *testing.T) {
	r := subject.NewResolver(nil)
	r.Load(map[string]string{
		"ds":   "Wrong Name",
		"algo": "Algorithms",
	})

	canonical, _ := r.Resolve("ds")
	assert.Equal(t, "Data Structures", canonical)
	canonical, ok := r.Resolve("algo")
	assert.True(t, ok)
	assert.Equal(t, "Algorithms", canonical)
}
