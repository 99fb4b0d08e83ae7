// Package extract implements the deterministic slot filler used when the
// language model is unavailable and to backfill slots it left empty.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/garyellow/merit-linebot-go/internal/catalog"
	"github.com/garyellow/merit-linebot-go/internal/merit"
	"github.com/garyellow/merit-linebot-go/internal/normalize"
)

// DefaultYear is used when neither configuration nor the utterance supplies a year.
const DefaultYear = 2024

var yearPattern = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)

// Extractor fills slots by substring scanning over ordered vocabularies.
// Scans are first-match-wins: catalog lists in sorted order, alias lists in
// definition order. A shorter name earlier in the order can shadow a longer one.
type Extractor struct {
	catalog     *catalog.Catalog
	aliases     *normalize.AliasTable
	defaultYear int

	universities []string
	departments  []string
	campuses     []string
	deptAliases  []normalize.Alias
	progAliases  []normalize.Alias
}

// New creates an Extractor. A non-positive defaultYear falls back to DefaultYear.
func New(cat *catalog.Catalog, aliases *normalize.AliasTable, defaultYear int) *Extractor {
	if defaultYear <= 0 {
		defaultYear = DefaultYear
	}
	return &Extractor{
		catalog:      cat,
		aliases:      aliases,
		defaultYear:  defaultYear,
		universities: cat.Universities(),
		departments:  cat.Departments(),
		campuses:     cat.Campuses(),
		deptAliases:  aliases.Departments(),
		progAliases:  aliases.Programs(),
	}
}

// DefaultYear returns the year applied when the utterance names none.
func (e *Extractor) DefaultYear() int { return e.defaultYear }

// Extract never fails. Program and year are always present in the result;
// the other slots are present only when found.
func (e *Extractor) Extract(utterance string) merit.Slots {
	msg := normalize.Fold(utterance)

	var slots merit.Slots

	university, uniFound := firstContained(msg, e.universities)
	if uniFound {
		slots.University = merit.Some(university)
	}

	if dept, ok := firstAlias(msg, e.deptAliases); ok {
		slots.Department = merit.Some(dept)
	} else if dept, ok := firstContained(msg, e.departments); ok {
		slots.Department = merit.Some(dept)
	}

	if prog, ok := firstAlias(msg, e.progAliases); ok {
		slots.Program = merit.Some(prog)
	} else {
		slots.Program = merit.Some(merit.DefaultProgram)
	}

	campus, ok := "", false
	if uniFound {
		campus, ok = firstContained(msg, e.catalog.CampusesOf(university))
	}
	if !ok {
		campus, ok = firstContained(msg, e.campuses)
	}
	if ok {
		slots.Campus = merit.Some(campus)
	}

	slots.Year = merit.Some(e.year(msg))
	return slots
}

func (e *Extractor) year(msg string) int {
	m := yearPattern.FindStringSubmatch(msg)
	if m == nil {
		return e.defaultYear
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return e.defaultYear
	}
	return y
}

// firstContained returns the first candidate whose folded text occurs in msg,
// which must already be folded. Blank candidates never match.
func firstContained(msg string, candidates []string) (string, bool) {
	for _, c := range candidates {
		fc := normalize.Fold(c)
		if fc == "" {
			continue
		}
		if strings.Contains(msg, fc) {
			return c, true
		}
	}
	return "", false
}

func firstAlias(msg string, aliases []normalize.Alias) (string, bool) {
	for _, a := range aliases {
		if strings.Contains(msg, a.Key) {
			return a.Canonical, true
		}
	}
	return "", false
}
