package resolver

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/garyellow/merit-linebot-go/internal/extract"
	"github.com/garyellow/merit-linebot-go/internal/genai"
	"github.com/garyellow/merit-linebot-go/internal/merit"
)

// Outcome is the terminal state reached for one utterance.
type Outcome string

const (
	OutcomeNeedUniversity     Outcome = "need_university"
	OutcomeNeedDepartment     Outcome = "need_department"
	OutcomeNeedProgram        Outcome = "need_program"
	OutcomeSingle             Outcome = "single"
	OutcomeAmbiguous          Outcome = "ambiguous"
	OutcomeEmpty              Outcome = "empty"
	OutcomeList               Outcome = "list"
	OutcomeListNeedUniversity Outcome = "list_need_university"
)

// Slot sources.
const (
	SourcePrimary  = "primary"
	SourceFallback = "fallback"
)

// Answer is the reply to one utterance plus the data behind it.
// Transports use Text only.
type Answer struct {
	Text    string
	Outcome Outcome
	Query   merit.Query
	Rows    []merit.Record
	Source  string

	// Suggestions are values the user can add to the question to narrow it:
	// departments or programs when one is missing, campuses when ambiguous.
	Suggestions []string
}

// Engine answers utterances against a Dataset. It holds no per-request state
// and is safe for concurrent use.
type Engine struct {
	data     *Dataset
	fallback *extract.Extractor
	primary  *genai.Adapter
}

// NewEngine creates an Engine. primary may be nil to run on the fallback extractor alone.
func NewEngine(data *Dataset, primary *genai.Adapter, defaultYear int) *Engine {
	return &Engine{
		data:     data,
		fallback: extract.New(data.catalog, data.aliases, defaultYear),
		primary:  primary,
	}
}

// Dataset returns the engine's dataset.
func (e *Engine) Dataset() *Dataset { return e.data }

// Answer resolves text into a reply. The language model is called at most once.
func (e *Engine) Answer(ctx context.Context, text string) Answer {
	primary := e.primary.TryExtract(ctx, text, e.data.catalog)
	fallback := e.fallback.Extract(text)

	source := SourceFallback
	routed := fallback
	if primary.OK {
		source = SourcePrimary
		routed = primary.Slots
	}

	if IsListIntent(text) {
		ans := e.answerList(routed)
		ans.Source = source
		e.log(ctx, ans)
		return ans
	}

	merged := primary.Slots.Merge(fallback)
	ans := e.resolve(merged)
	ans.Source = source
	e.log(ctx, ans)
	return ans
}

// resolve walks NEED_UNIVERSITY, NEED_DEPARTMENT, NEED_PROGRAM and LOOKUP.
func (e *Engine) resolve(slots merit.Slots) Answer {
	cat := e.data.catalog
	aliases := e.data.aliases

	university, hasUni := slots.University.Get()
	department, hasDept := slots.Department.Get()
	if hasDept {
		department = aliases.CanonicalDepartment(department)
	}
	program, hasProg := slots.Program.Get()
	if hasProg {
		program = aliases.CanonicalProgram(program)
	}

	q := merit.Query{
		University: university,
		Campus:     slots.Campus.Or(""),
		Department: department,
		Program:    program,
		Year:       slots.Year.Or(e.fallback.DefaultYear()),
	}

	switch {
	case !hasUni && !hasDept:
		return Answer{Text: msgNeedUniversityAndDepartment, Outcome: OutcomeNeedUniversity, Query: q}
	case !hasUni:
		return Answer{Text: msgNeedUniversity(e.example(q)), Outcome: OutcomeNeedUniversity, Query: q}
	case !hasDept:
		depts := cat.Departments()
		return Answer{Text: msgNeedDepartment(depts), Outcome: OutcomeNeedDepartment, Query: q, Suggestions: depts}
	case !hasProg:
		progs := cat.Programs()
		return Answer{Text: msgNeedProgram(progs), Outcome: OutcomeNeedProgram, Query: q, Suggestions: progs}
	}

	rows := e.data.Lookup(q)
	switch len(rows) {
	case 0:
		return Answer{Text: e.data.explainMiss(q), Outcome: OutcomeEmpty, Query: q}
	case 1:
		return Answer{Text: msgSingle(rows[0]), Outcome: OutcomeSingle, Query: q, Rows: rows}
	default:
		return Answer{Text: msgAmbiguous(rows), Outcome: OutcomeAmbiguous, Query: q, Rows: rows, Suggestions: campusesOf(rows)}
	}
}

// example builds a sample question for the missing-university prompt, reusing
// the slots the user did give.
func (e *Engine) example(q merit.Query) string {
	uni, ok := e.data.catalog.FirstUniversity()
	if !ok {
		return ""
	}
	dept := q.Department
	if dept == "" {
		if depts := e.data.catalog.Departments(); len(depts) > 0 {
			dept = depts[0]
		}
	}
	prog := q.Program
	if prog == "" {
		prog = merit.DefaultProgram
	}
	return uni + " " + dept + " " + prog + " " + strconv.Itoa(q.Year)
}

func (e *Engine) log(ctx context.Context, ans Answer) {
	slog.DebugContext(ctx, "query resolved",
		"outcome", string(ans.Outcome),
		"source", ans.Source,
		"university", ans.Query.University,
		"campus", ans.Query.Campus,
		"department", ans.Query.Department,
		"program", ans.Query.Program,
		"year", ans.Query.Year,
		"rows", len(ans.Rows))
}

// campusesOf returns the distinct campuses of rows in first-seen order.
func campusesOf(rows []merit.Record) []string {
	seen := make(map[string]struct{}, len(rows))
	var out []string
	for _, r := range rows {
		if _, ok := seen[r.Campus]; ok || r.Campus == "" {
			continue
		}
		seen[r.Campus] = struct{}{}
		out = append(out, r.Campus)
	}
	return out
}
