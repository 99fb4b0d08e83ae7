package resolver

import (
	"regexp"
	"strings"

	"github.com/garyellow/merit-linebot-go/internal/merit"
)

var listIntentPattern = regexp.MustCompile(`(?i)\b(fields?|departments?|programs?)\b`)

// IsListIntent reports whether text asks for a listing of departments or programs.
func IsListIntent(text string) bool {
	return listIntentPattern.MatchString(text)
}

// answerList lists the departments offered by the university in slots, filtered
// by the optional campus and program. It runs on unmerged, unnormalized slots
// except for the program, which is canonicalized for the comparison.
func (e *Engine) answerList(slots merit.Slots) Answer {
	cat := e.data.catalog

	given, ok := slots.University.Get()
	if !ok {
		example, _ := cat.FirstUniversity()
		return Answer{Text: msgListNeedUniversity(example), Outcome: OutcomeListNeedUniversity}
	}

	university := given
	if canonical, known := cat.CanonicalUniversity(given); known {
		university = canonical
	}
	campus := slots.Campus.Or("")
	program := e.data.aliases.CanonicalProgram(slots.Program.Or(""))

	depts := e.data.departmentsWhere(func(r merit.Record) bool {
		return strings.EqualFold(r.University, university) &&
			merit.CampusLike(r.Campus, campus) &&
			(program == "" || strings.EqualFold(r.Program, program))
	})

	q := merit.Query{University: university, Campus: campus, Program: program}
	if len(depts) == 0 {
		return Answer{Text: msgNoDepartments(university), Outcome: OutcomeList, Query: q}
	}
	return Answer{Text: msgDepartments(university, campus, program, depts), Outcome: OutcomeList, Query: q}
}
