package resolver

import (
	"slices"
	"strconv"
	"strings"

	"github.com/garyellow/merit-linebot-go/internal/merit"
)

// explainMiss builds the reply for a lookup with zero rows. The checks run in
// order and the first one with something to report wins: other years (or other
// campuses when the year exists), other programs, the university's campuses
// and departments, then a generic miss.
func (d *Dataset) explainMiss(q merit.Query) string {
	sameProgram := func(r merit.Record) bool {
		return strings.EqualFold(r.University, q.University) &&
			strings.EqualFold(r.Department, q.Department) &&
			strings.EqualFold(r.Program, q.Program)
	}
	if years := d.yearsWhere(sameProgram); len(years) > 0 {
		if q.Campus != "" && slices.Contains(years, q.Year) {
			// The year exists; only the campus filter emptied the result.
			campuses := d.campusesWhere(func(r merit.Record) bool { return sameProgram(r) && r.Year == q.Year })
			if len(campuses) > 0 {
				return msgNoCampus(q.Year, q.Campus, campuses)
			}
		}
		return msgNoYear(q.Year, years)
	}

	sameDepartment := func(r merit.Record) bool {
		return strings.EqualFold(r.University, q.University) &&
			strings.EqualFold(r.Department, q.Department)
	}
	if progs := d.programsWhere(sameDepartment); len(progs) > 0 {
		return msgNoProgram(q.Program, progs)
	}

	if uni, ok := d.catalog.CanonicalUniversity(q.University); ok {
		depts := d.departmentsWhere(func(r merit.Record) bool { return r.University == uni })
		return msgNoMatch(uni, d.catalog.CampusesOf(uni), depts)
	}

	return msgNothingMatched
}

func (d *Dataset) yearsWhere(keep func(merit.Record) bool) []int {
	var years []int
	for _, r := range d.records {
		if keep(r) && !slices.Contains(years, r.Year) {
			years = append(years, r.Year)
		}
	}
	slices.Sort(years)
	return years
}

func (d *Dataset) programsWhere(keep func(merit.Record) bool) []string {
	set := make(map[string]struct{})
	for _, r := range d.records {
		if keep(r) {
			set[r.Program] = struct{}{}
		}
	}
	return sortedSet(set)
}

func (d *Dataset) campusesWhere(keep func(merit.Record) bool) []string {
	set := make(map[string]struct{})
	for _, r := range d.records {
		if keep(r) && r.Campus != "" {
			set[r.Campus] = struct{}{}
		}
	}
	return sortedSet(set)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
