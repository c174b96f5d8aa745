// Package subject resolves subject surface forms (abbreviations, synonyms,
// typos) to canonical subject names. The resolver is seeded with a static
// alias table and grows append-only as uploads introduce new spellings;
// learned aliases are persisted so resolution survives restarts.
package subject

import (
	"regexp"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/phuslu/log"
)

// minSimilarity is the cutoff below which a fuzzy candidate is rejected
// rather than guessed.
const minSimilarity = 0.70

// fuzzyMinLen guards short tokens: two-letter abbreviations like "ds" are
// one edit away from half the alphabet, so they only match exactly.
const fuzzyMinLen = 4

var seedAliases = map[string]string{
	"ds":                          "Data Structures",
	"data structures":             "Data Structures",
	"data structure":              "Data Structures",
	"dbms":                        "DBMS",
	"database management systems": "DBMS",
	"database management system":  "DBMS",
	"databases":                   "DBMS",
	"os":                          "Operating Systems",
	"operating systems":           "Operating Systems",
	"operating system":            "Operating Systems",
	"cn":                          "Computer Networks",
	"computer networks":           "Computer Networks",
	"oop":                         "Object Oriented Programming",
	"oops":                        "Object Oriented Programming",
	"object oriented programming": "Object Oriented Programming",
	"maths":                       "Mathematics",
	"math":                        "Mathematics",
	"mathematics":                 "Mathematics",
	"ai":                          "Artificial Intelligence",
	"artificial intelligence":     "Artificial Intelligence",
	"ml":                          "Machine Learning",
	"machine learning":            "Machine Learning",
	"se":                          "Software Engineering",
	"software engineering":        "Software Engineering",
}

// Persister saves a learned alias. Implemented by the mark store; nil for
// in-memory resolvers in tests.
type Persister interface {
	SaveAlias(alias, canonical string) error
}

var normRe = regexp.MustCompile(`[\s\-_]+`)

// Normalize is the alias key form: lowercased, trimmed, space runs and
// dash/underscore runs collapsed.
func Normalize(s string) string {
	return strings.TrimSpace(normRe.ReplaceAllString(strings.ToLower(s), " "))
}

type Resolver struct {
	mu        sync.RWMutex
	byAlias   map[string]string
	version   int
	persister Persister
}

func NewResolver(p Persister) *Resolver {
	r := &Resolver{
		byAlias:   make(map[string]string, len(seedAliases)),
		persister: p,
	}
	for alias, canonical := range seedAliases {
		r.byAlias[alias] = canonical
	}
	return r
}

// Load registers previously learned aliases, typically read from the store
// at startup. Seed entries are not overridden.
func (r *Resolver) Load(aliases map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for alias, canonical := range aliases {
		key := Normalize(alias)
		if _, ok := r.byAlias[key]; !ok {
			r.byAlias[key] = canonical
			r.version++
		}
	}
}

// Version increments whenever an alias is added.
func (r *Resolver) Version() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Resolve looks a surface form up exactly (after normalization).
func (r *Resolver) Resolve(s string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.byAlias[Normalize(s)]
	return canonical, ok
}

// FuzzyResolve finds the closest known alias by edit distance. It returns
// ok=false when the best candidate is below the similarity cutoff; a weak
// match is never reported as a hit.
func (r *Resolver) FuzzyResolve(s string) (string, float64, bool) {
	n := Normalize(s)
	if canonical, ok := r.Resolve(n); ok {
		return canonical, 1, true
	}
	if len(n) < fuzzyMinLen {
		return "", 0, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	best := ""
	bestScore := 0.0
	for alias, canonical := range r.byAlias {
		if len(alias) < fuzzyMinLen {
			continue
		}
		dist := levenshtein.ComputeDistance(n, alias)
		denom := len(n)
		if len(alias) > denom {
			denom = len(alias)
		}
		score := 1 - float64(dist)/float64(denom)
		if score > bestScore {
			best, bestScore = canonical, score
		}
	}
	if bestScore < minSimilarity {
		log.Debug().Str("token", n).Float64("best_score", bestScore).Msg("fuzzy subject match below threshold")
		return "", bestScore, false
	}
	return best, bestScore, true
}

// Learn records a new surface form for a canonical subject. Existing
// entries are never replaced; the table only grows.
func (r *Resolver) Learn(raw, canonical string) {
	key := Normalize(raw)
	if key == "" {
		return
	}

	r.mu.Lock()
	if _, ok := r.byAlias[key]; ok {
		r.mu.Unlock()
		return
	}
	r.byAlias[key] = canonical
	r.version++
	r.mu.Unlock()

	if r.persister != nil {
		if err := r.persister.SaveAlias(key, canonical); err != nil {
			log.Warn().Err(err).Str("alias", key).Msg("failed to persist learned alias")
		}
	}
}

// Canonicalize resolves a raw subject cell to its canonical name, learning
// the surface form along the way. Unknown subjects become their own
// canonical, title-cased.
func (r *Resolver) Canonicalize(raw string) string {
	if canonical, ok := r.Resolve(raw); ok {
		r.Learn(raw, canonical)
		return canonical
	}
	canonical := titleCase(Normalize(raw))
	r.Learn(raw, canonical)
	return canonical
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
