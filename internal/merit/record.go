// Package merit defines the core data types shared by the merit query engine:
// the loaded record, the optional-field slot record produced by extractors,
// and the fully resolved lookup key.
package merit

import "strings"

// DefaultProgram is applied when no program can be extracted from an utterance.
const DefaultProgram = "BS"

// Record is one row of the merit dataset.
// Records are loaded once at startup and never mutated afterwards.
type Record struct {
	University   string  `json:"university"`
	Campus       string  `json:"campus"`
	Department   string  `json:"department"`
	Program      string  `json:"program"`
	Year         int     `json:"year"`
	MinimumMerit float64 `json:"minimum_merit"`
	MaximumMerit float64 `json:"maximum_merit"`
}

// Trimmed returns a copy with every string field trimmed and each inner
// whitespace run collapsed to one space, the same shape utterances get
// before they are scanned.
func (r Record) Trimmed() Record {
	r.University = collapseSpace(r.University)
	r.Campus = collapseSpace(r.Campus)
	r.Department = collapseSpace(r.Department)
	r.Program = collapseSpace(r.Program)
	return r
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Query is the fully resolved lookup key for a single request.
// An empty Campus means the user did not name a campus.
type Query struct {
	University string `json:"university"`
	Campus     string `json:"campus,omitempty"`
	Department string `json:"department"`
	Program    string `json:"program"`
	Year       int    `json:"year"`
}

// CampusLike reports whether a stored campus matches the campus text given by the user.
// The match is asymmetric: the given text must be contained in the stored campus,
// so "lahore" matches "Lahore Campus" but not the other way round.
// An empty given campus matches every record.
func CampusLike(recordCampus, given string) bool {
	if given == "" {
		return true
	}
	return strings.Contains(strings.ToLower(recordCampus), strings.ToLower(given))
}

// Matches reports whether the record satisfies q: case-insensitive equality on
// university, department and program, equal year, and a partial campus match.
func (r Record) Matches(q Query) bool {
	return strings.EqualFold(r.University, q.University) &&
		strings.EqualFold(r.Department, q.Department) &&
		strings.EqualFold(r.Program, q.Program) &&
		r.Year == q.Year &&
		CampusLike(r.Campus, q.Campus)
}
