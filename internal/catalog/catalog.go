// Package catalog builds the immutable vocabulary index derived from the merit records.
package catalog

import (
	"slices"
	"strings"

	"github.com/garyellow/merit-linebot-go/internal/merit"
)

// Catalog holds the distinct values seen in the record set.
// Every list is sorted ascending by byte-wise string comparison.
// A Catalog is never mutated after Build and is safe for concurrent use.
type Catalog struct {
	universities []string
	departments  []string
	programs     []string
	campuses     []string
	byUniversity map[string][]string
	records      int
}

// Build indexes records in a single pass.
func Build(records []merit.Record) *Catalog {
	unis := make(map[string]struct{})
	depts := make(map[string]struct{})
	progs := make(map[string]struct{})
	camps := make(map[string]struct{})
	uniCamps := make(map[string]map[string]struct{})

	for _, r := range records {
		unis[r.University] = struct{}{}
		depts[r.Department] = struct{}{}
		progs[r.Program] = struct{}{}
		camps[r.Campus] = struct{}{}

		set, ok := uniCamps[r.University]
		if !ok {
			set = make(map[string]struct{})
			uniCamps[r.University] = set
		}
		set[r.Campus] = struct{}{}
	}

	byUniversity := make(map[string][]string, len(uniCamps))
	for u, set := range uniCamps {
		byUniversity[u] = sortedKeys(set)
	}

	return &Catalog{
		universities: sortedKeys(unis),
		departments:  sortedKeys(depts),
		programs:     sortedKeys(progs),
		campuses:     sortedKeys(camps),
		byUniversity: byUniversity,
		records:      len(records),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Universities returns the sorted distinct universities.
func (c *Catalog) Universities() []string { return slices.Clone(c.universities) }

// Departments returns the sorted distinct departments.
func (c *Catalog) Departments() []string { return slices.Clone(c.departments) }

// Programs returns the sorted distinct programs.
func (c *Catalog) Programs() []string { return slices.Clone(c.programs) }

// Campuses returns the sorted distinct campuses across all universities.
func (c *Catalog) Campuses() []string { return slices.Clone(c.campuses) }

// CampusesOf returns the sorted campuses where university has any record.
// The lookup is exact; an unknown university yields an empty slice.
func (c *Catalog) CampusesOf(university string) []string {
	camps, ok := c.byUniversity[university]
	if !ok {
		return []string{}
	}
	return slices.Clone(camps)
}

// CanonicalUniversity returns the stored spelling of a university name,
// matched case-insensitively.
func (c *Catalog) CanonicalUniversity(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, u := range c.universities {
		if strings.EqualFold(u, name) {
			return u, true
		}
	}
	return "", false
}

// FirstUniversity returns the first university in sorted order, used for example prompts.
func (c *Catalog) FirstUniversity() (string, bool) {
	if len(c.universities) == 0 {
		return "", false
	}
	return c.universities[0], true
}

// Len returns the number of records the catalog was built from.
func (c *Catalog) Len() int { return c.records }
