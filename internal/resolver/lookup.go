package resolver

import (
	"cmp"
	"slices"
	"strings"

	"github.com/garyellow/merit-linebot-go/internal/merit"
)

// Lookup returns every record matching q, sorted by campus, university,
// department, program and minimum merit so the result does not depend on
// storage order.
func (d *Dataset) Lookup(q merit.Query) []merit.Record {
	var hits []merit.Record
	for _, r := range d.records {
		if r.Matches(q) {
			hits = append(hits, r)
		}
	}
	sortRecords(hits)
	return hits
}

func sortRecords(rs []merit.Record) {
	slices.SortStableFunc(rs, func(a, b merit.Record) int {
		return cmp.Or(
			strings.Compare(a.Campus, b.Campus),
			strings.Compare(a.University, b.University),
			strings.Compare(a.Department, b.Department),
			strings.Compare(a.Program, b.Program),
			cmp.Compare(a.MinimumMerit, b.MinimumMerit),
			cmp.Compare(a.MaximumMerit, b.MaximumMerit),
		)
	})
}

// departmentsWhere returns the sorted distinct departments of records accepted by keep.
func (d *Dataset) departmentsWhere(keep func(merit.Record) bool) []string {
	set := make(map[string]struct{})
	for _, r := range d.records {
		if keep(r) {
			set[r.Department] = struct{}{}
		}
	}
	return sortedSet(set)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
