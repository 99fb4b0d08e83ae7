package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/garyellow/merit-linebot-go/internal/merit"
)

const (
	msgNeedUniversityAndDepartment = "Please tell me the university and department."
	msgNothingMatched              = "Sorry, nothing matched."
)

func msgNeedUniversity(example string) string {
	if example == "" {
		return "Missing university."
	}
	return fmt.Sprintf("Missing university. Example: '%s'", example)
}

func msgNeedDepartment(departments []string) string {
	return "Missing department. Try one of: " + strings.Join(departments, ", ")
}

func msgNeedProgram(programs []string) string {
	return "Missing program. Try one of: " + strings.Join(programs, ", ")
}

func msgNoYear(year int, available []int) string {
	return fmt.Sprintf("No data for %d. Available years: %s.", year, joinInts(available))
}

func msgNoCampus(year int, campus string, available []string) string {
	return fmt.Sprintf("No data for %d at %s. Available campuses: %s.", year, campus, strings.Join(available, ", "))
}

func msgNoProgram(program string, available []string) string {
	return fmt.Sprintf("No %s program here. Available: %s.", program, strings.Join(available, ", "))
}

func msgNoMatch(university string, campuses, departments []string) string {
	return fmt.Sprintf("No match found. %s campuses: %s. Departments: %s",
		university, strings.Join(campuses, ", "), strings.Join(departments, ", "))
}

func msgListNeedUniversity(example string) string {
	if example == "" {
		return "Need a university name."
	}
	return fmt.Sprintf("Need a university name. Example: 'What BS fields are in %s?'", example)
}

func msgDepartments(university, campus, program string, departments []string) string {
	var sb strings.Builder
	sb.WriteString("Departments at ")
	sb.WriteString(university)
	if campus != "" {
		sb.WriteString(" (" + campus + ")")
	}
	if program != "" {
		sb.WriteString(" for " + program)
	}
	sb.WriteString(": ")
	sb.WriteString(strings.Join(departments, ", "))
	return sb.String()
}

func msgNoDepartments(university string) string {
	return fmt.Sprintf("Couldn't find departments for %s with given filters.", university)
}

func msgSingle(r merit.Record) string {
	campus := ""
	if r.Campus != "" {
		campus = " (" + r.Campus + ")"
	}
	return fmt.Sprintf("The merit for %s %s at %s%s in %d is: min %s%% / max %s%%.",
		r.Program, r.Department, r.University, campus, r.Year,
		formatMerit(r.MinimumMerit), formatMerit(r.MaximumMerit))
}

func msgAmbiguous(rows []merit.Record) string {
	var sb strings.Builder
	sb.WriteString("Multiple campuses found:")
	for _, r := range rows {
		fmt.Fprintf(&sb, "\n- %s: min %s%% / max %s%%",
			r.Campus, formatMerit(r.MinimumMerit), formatMerit(r.MaximumMerit))
	}
	return sb.String()
}

// formatMerit prints the shortest exact representation: 450, 72.5.
func formatMerit(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
