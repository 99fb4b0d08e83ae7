package resolver

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/merit-linebot-go/internal/genai"
	"github.com/garyellow/merit-linebot-go/internal/merit"
)

var alphaMain = merit.Record{
	University: "Alpha U", Campus: "Main", Department: "Computing", Program: "BS",
	Year: 2023, MinimumMerit: 450, MaximumMerit: 600,
}

var alphaCity = merit.Record{
	University: "Alpha U", Campus: "City", Department: "Computing", Program: "BS",
	Year: 2023, MinimumMerit: 430, MaximumMerit: 580,
}

type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (s *stubExtractor) Generate(context.Context, string) (string, error) {
	s.calls++
	return s.text, s.err
}
func (s *stubExtractor) Provider() genai.Provider { return genai.ProviderGemini }
func (s *stubExtractor) Model() string            { return "stub" }
func (s *stubExtractor) Close() error             { return nil }

func newEngine(records []merit.Record, ext genai.SlotExtractor) *Engine {
	var adapter *genai.Adapter
	if ext != nil {
		adapter = genai.NewAdapter(ext, time.Second, 2024, nil)
	}
	return NewEngine(NewDataset(records, nil), adapter, 2024)
}

func TestScenarioSingleHit(t *testing.T) {
	t.Parallel()
	e := newEngine([]merit.Record{alphaMain}, nil)

	ans := e.Answer(context.Background(), "Alpha U computing bs 2023")

	assert.Equal(t, OutcomeSingle, ans.Outcome)
	assert.Contains(t, ans.Text, "min 450")
	assert.Contains(t, ans.Text, "max 600")
	assert.Equal(t, "The merit for BS Computing at Alpha U (Main) in 2023 is: min 450% / max 600%.", ans.Text)
	require.Len(t, ans.Rows, 1)
	assert.Equal(t, SourceFallback, ans.Source)
}

func TestScenarioOtherYear(t *testing.T) {
	t.Parallel()
	e := newEngine([]merit.Record{alphaMain}, nil)

	ans := e.Answer(context.Background(), "Alpha U computing bs 2025")

	assert.Equal(t, OutcomeEmpty, ans.Outcome)
	assert.Contains(t, ans.Text, "Available years: 2023.")
	assert.Equal(t, "No data for 2025. Available years: 2023.", ans.Text)
}

func TestScenarioAmbiguousCampuses(t *testing.T) {
	t.Parallel()
	e := newEngine([]merit.Record{alphaMain, alphaCity}, nil)

	ans := e.Answer(context.Background(), "Alpha U computing bs 2023")

	assert.Equal(t, OutcomeAmbiguous, ans.Outcome)
	assert.Equal(t, "Multiple campuses found:\n- City: min 430% / max 580%\n- Main: min 450% / max 600%", ans.Text)
	assert.Len(t, ans.Rows, 2)
	assert.Equal(t, []string{"City", "Main"}, ans.Suggestions)
}

func TestScenarioListIntent(t *testing.T) {
	t.Parallel()
	e := newEngine([]merit.Record{alphaMain}, nil)

	ans := e.Answer(context.Background(), "what fields does Alpha U offer")

	assert.Equal(t, OutcomeList, ans.Outcome)
	assert.Equal(t, "Departments at Alpha U for BS: Computing", ans.Text)
	assert.Empty(t, ans.Rows)
}

func TestCampusNarrowsResult(t *testing.T) {
	t.Parallel()
	e := newEngine([]merit.Record{alphaMain, alphaCity}, nil)

	ans := e.Answer(context.Background(), "Alpha U city computing bs 2023")

	assert.Equal(t, OutcomeSingle, ans.Outcome)
	assert.Equal(t, "City", ans.Query.Campus)
	assert.Contains(t, ans.Text, "(City)")
}

func TestAmbiguityWithPartialCampus(t *testing.T) {
	t.Parallel()
	records := []merit.Record{
		{University: "Alpha U", Campus: "Lahore Campus", Department: "Computing", Program: "BS", Year: 2023, MinimumMerit: 70, MaximumMerit: 80},
		{University: "Alpha U", Campus: "Lahore Cantt", Department: "Computing", Program: "BS", Year: 2023, MinimumMerit: 72.5, MaximumMerit: 81},
	}
	ext := &stubExtractor{text: `{"university":"Alpha U","campus":"lahore","department":"computing","program":"BS","year":2023}`}
	e := newEngine(records, ext)

	ans := e.Answer(context.Background(), "alpha lahore cs")

	assert.Equal(t, OutcomeAmbiguous, ans.Outcome)
	assert.Contains(t, ans.Text, "- Lahore Cantt: min 72.5% / max 81%")
}

func TestNeedPrompts(t *testing.T) {
	t.Parallel()
	e := newEngine([]merit.Record{alphaMain}, nil)
	ctx := context.Background()

	tests := []struct {
		input   string
		outcome Outcome
		text    string
	}{
		{"hello there", OutcomeNeedUniversity, "Please tell me the university and department."},
		{"computing 2023", OutcomeNeedUniversity, "Missing university. Example: 'Alpha U Computing BS 2023'"},
		{"alpha u 2023", OutcomeNeedDepartment, "Missing department. Try one of: Computing"},
	}
	for _, tt := range tests {
		ans := e.Answer(ctx, tt.input)
		assert.Equal(t, tt.outcome, ans.Outcome, tt.input)
		assert.Equal(t, tt.text, ans.Text, tt.input)
	}

	ans := e.resolve(merit.Slots{
		University: merit.Some("Alpha U"),
		Department: merit.Some("Computing"),
		Year:       merit.Some(2023),
	})
	assert.Equal(t, OutcomeNeedProgram, ans.Outcome)
	assert.Equal(t, "Missing program. Try one of: BS", ans.Text)
	assert.Equal(t, []string{"BS"}, ans.Suggestions)

	ans = e.Answer(ctx, "alpha u 2023")
	assert.Equal(t, []string{"Computing"}, ans.Suggestions)
}

func TestExplainMissChain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e := newEngine([]merit.Record{alphaMain}, nil)
	assert.Equal(t, "No MS program here. Available: BS.", e.Answer(ctx, "Alpha U computing ms 2023").Text)
	assert.Equal(t, "No match found. Alpha U campuses: Main. Departments: Computing",
		e.Answer(ctx, "Alpha U electrical 2023").Text)

	ext := &stubExtractor{text: `{"university":"Gamma U","department":"Computing","program":"BS","year":2023}`}
	e = newEngine([]merit.Record{alphaMain}, ext)
	ans := e.Answer(ctx, "gamma computing")
	assert.Equal(t, OutcomeEmpty, ans.Outcome)
	assert.Equal(t, "Sorry, nothing matched.", ans.Text)
}

func TestExplainMissForeignCampus(t *testing.T) {
	t.Parallel()
	betaNorth := merit.Record{
		University: "Beta U", Campus: "North", Department: "Electrical", Program: "MS",
		Year: 2024, MinimumMerit: 70, MaximumMerit: 82,
	}
	e := newEngine([]merit.Record{alphaMain, alphaCity, betaNorth}, nil)

	ans := e.Answer(context.Background(), "alpha u north computing bs 2023")

	assert.Equal(t, OutcomeEmpty, ans.Outcome)
	assert.Equal(t, "North", ans.Query.Campus)
	assert.Equal(t, "No data for 2023 at North. Available campuses: City, Main.", ans.Text)

	ans = e.Answer(context.Background(), "alpha u north computing bs 2025")
	assert.Equal(t, "No data for 2025. Available years: 2023.", ans.Text, "a missing year is still reported first")
}

func TestInnerWhitespaceInStoredNames(t *testing.T) {
	t.Parallel()
	spaced := alphaMain
	spaced.University = "Alpha  U"
	spaced.Department = "Computing "
	e := newEngine([]merit.Record{spaced}, nil)

	ans := e.Answer(context.Background(), "alpha u computing bs 2023")

	require.Equal(t, OutcomeSingle, ans.Outcome)
	assert.Equal(t, "Alpha U", ans.Rows[0].University)
}

func TestPrimaryIsAuthoritative(t *testing.T) {
	t.Parallel()
	ext := &stubExtractor{text: `{"university":"Alpha U","campus":"City","department":"cs","program":"b.s","year":2023}`}
	e := newEngine([]merit.Record{alphaMain, alphaCity}, ext)

	ans := e.Answer(context.Background(), "that cheaper one in town")

	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, SourcePrimary, ans.Source)
	assert.Equal(t, OutcomeSingle, ans.Outcome)
	assert.Equal(t, merit.Query{University: "Alpha U", Campus: "City", Department: "Computing", Program: "BS", Year: 2023}, ans.Query)
}

func TestPrimaryGapsFilledByFallback(t *testing.T) {
	t.Parallel()
	ext := &stubExtractor{text: `{"university":"Alpha U"}`}
	e := newEngine([]merit.Record{alphaMain}, ext)

	ans := e.Answer(context.Background(), "alpha u computing 2023")

	assert.Equal(t, OutcomeSingle, ans.Outcome)
	assert.Equal(t, SourcePrimary, ans.Source)
}

func TestDegradationIsLossless(t *testing.T) {
	t.Parallel()
	records := []merit.Record{alphaMain, alphaCity}
	ctx := context.Background()

	failing := []genai.SlotExtractor{
		&stubExtractor{err: errors.New("503 service unavailable")},
		&stubExtractor{text: "I am not sure what you mean."},
		&stubExtractor{text: `{"university": ]`},
		&stubExtractor{text: `{}`},
	}
	utterances := []string{
		"Alpha U computing bs 2023",
		"Alpha U main computing bs 2023",
		"Alpha U computing bs 2025",
		"what fields does Alpha U offer",
		"computing 2023",
		"",
	}

	baseline := newEngine(records, nil)
	for _, ext := range failing {
		degraded := newEngine(records, ext)
		for _, u := range utterances {
			assert.Equal(t, baseline.Answer(ctx, u), degraded.Answer(ctx, u), "utterance %q", u)
		}
	}
}

func TestLookupOrderIndependent(t *testing.T) {
	t.Parallel()
	records := []merit.Record{
		alphaMain,
		alphaCity,
		{University: "Alpha U", Campus: "North", Department: "Computing", Program: "BS", Year: 2023, MinimumMerit: 400, MaximumMerit: 500},
		{University: "Alpha U", Campus: "Main", Department: "Computing", Program: "BS", Year: 2024, MinimumMerit: 460, MaximumMerit: 610},
		{University: "Alpha U", Campus: "Main", Department: "Electrical", Program: "BS", Year: 2023, MinimumMerit: 300, MaximumMerit: 400},
		{University: "Beta U", Campus: "Main", Department: "Computing", Program: "BS", Year: 2023, MinimumMerit: 500, MaximumMerit: 700},
	}
	q := merit.Query{University: "alpha u", Department: "computing", Program: "bs", Year: 2023}
	want := NewDataset(records, nil).Lookup(q)
	require.Len(t, want, 3)

	rng := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		shuffled := append([]merit.Record(nil), records...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, NewDataset(shuffled, nil).Lookup(q))
	}
}

func TestListIntent(t *testing.T) {
	t.Parallel()

	assert.True(t, IsListIntent("What FIELDS are there"))
	assert.True(t, IsListIntent("programs?"))
	assert.True(t, IsListIntent("list the department"))
	assert.False(t, IsListIntent("departmental merit"))
	assert.False(t, IsListIntent("Alpha U computing bs 2023"))

	records := []merit.Record{
		alphaMain,
		alphaCity,
		{University: "Alpha U", Campus: "Main", Department: "Electrical", Program: "MS", Year: 2023},
	}
	e := newEngine(records, nil)
	ctx := context.Background()

	assert.Equal(t, "Departments at Alpha U (Main) for MS: Electrical",
		e.Answer(ctx, "which programs does alpha u main offer for ms").Text)
	assert.Equal(t, "Couldn't find departments for Alpha U with given filters.",
		e.Answer(ctx, "alpha u city phd programs").Text)
	assert.Equal(t, "Need a university name. Example: 'What BS fields are in Alpha U?'",
		e.Answer(ctx, "which fields exist").Text)

	empty := newEngine(nil, nil)
	ans := empty.Answer(ctx, "list departments")
	assert.Equal(t, OutcomeListNeedUniversity, ans.Outcome)
	assert.Equal(t, "Need a university name.", ans.Text)
}

func TestEmptyDatasetNeverPanics(t *testing.T) {
	t.Parallel()
	e := newEngine(nil, nil)

	for _, in := range []string{"", "   ", "Alpha U computing 2023", "\xff\xfe"} {
		assert.NotPanics(t, func() { e.Answer(context.Background(), in) })
	}
	assert.Equal(t, "Missing university.", e.Answer(context.Background(), "computing").Text)
}
