package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garyellow/merit-linebot-go/internal/catalog"
	"github.com/garyellow/merit-linebot-go/internal/merit"
	"github.com/garyellow/merit-linebot-go/internal/normalize"
)

func newTestExtractor() *Extractor {
	records := []merit.Record{
		{University: "Alpha U", Campus: "Main", Department: "Computing", Program: "BS", Year: 2023},
		{University: "Alpha U", Campus: "Lahore Campus", Department: "Computing", Program: "BS", Year: 2023},
		{University: "Beta Institute", Campus: "North", Department: "Civil", Program: "MS", Year: 2024},
	}
	return New(catalog.Build(records), normalize.Default(), 2024)
}

func TestExtractEmpty(t *testing.T) {
	t.Parallel()
	e := newTestExtractor()

	for _, in := range []string{"", "   ", "\x00\xff"} {
		got := e.Extract(in)
		assert.False(t, got.University.IsSet())
		assert.False(t, got.Campus.IsSet())
		assert.False(t, got.Department.IsSet())
		assert.Equal(t, "BS", got.Program.Or(""))
		assert.Equal(t, 2024, got.Year.Or(0))
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()
	e := newTestExtractor()

	tests := []struct {
		name  string
		input string
		uni   string
		camp  string
		dept  string
		prog  string
		year  int
	}{
		{
			name:  "full query",
			input: "Alpha U computing bs 2023",
			uni:   "Alpha U", dept: "Computing", prog: "BS", year: 2023,
		},
		{
			name:  "alias department and program",
			input: "merit for computer science msc at alpha u lahore campus 2022",
			uni:   "Alpha U", camp: "Lahore Campus", dept: "Computing", prog: "MS", year: 2022,
		},
		{
			name:  "catalog department fallback",
			input: "Beta Institute civil in north",
			uni:   "Beta Institute", camp: "North", dept: "Civil", prog: "BS", year: 2024,
		},
		{
			name:  "global campus without university",
			input: "computing at main",
			camp:  "Main", dept: "Computing", prog: "BS", year: 2024,
		},
		{
			name:  "year must be a whole word",
			input: "alpha u computing 120234",
			uni:   "Alpha U", dept: "Computing", prog: "BS", year: 2024,
		},
		{
			name:  "fullwidth program and year",
			input: "alpha u computing ＭＳ ２０２３",
			uni:   "Alpha U", dept: "Computing", prog: "MS", year: 2023,
		},
		{
			name:  "fullwidth university and campus",
			input: "ＡＬＰＨＡ Ｕ ＬＡＨＯＲＥ campus computing",
			uni:   "Alpha U", camp: "Lahore Campus", dept: "Computing", prog: "BS", year: 2024,
		},
		{
			name:  "first year wins",
			input: "alpha u cs 1999 or 2021",
			uni:   "Alpha U", dept: "Computing", prog: "BS", year: 1999,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := e.Extract(tt.input)
			assert.Equal(t, tt.uni, got.University.Or(""))
			assert.Equal(t, tt.camp, got.Campus.Or(""))
			assert.Equal(t, tt.dept, got.Department.Or(""))
			assert.Equal(t, tt.prog, got.Program.Or(""))
			assert.Equal(t, tt.year, got.Year.Or(0))
		})
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	t.Parallel()
	records := []merit.Record{
		{University: "Tech", Campus: "Main", Department: "Computing", Program: "BS", Year: 2024},
		{University: "Tech University", Campus: "Main", Department: "Computing", Program: "BS", Year: 2024},
	}
	e := New(catalog.Build(records), normalize.Default(), 0)

	got := e.Extract("tech university computing")
	assert.Equal(t, "Tech", got.University.Or(""))
	assert.Equal(t, DefaultYear, e.DefaultYear())
}

func TestExtractCampusPrecedence(t *testing.T) {
	t.Parallel()
	records := []merit.Record{
		{University: "Alpha U", Campus: "City Centre", Department: "Computing", Program: "BS", Year: 2023},
		{University: "Beta U", Campus: "City", Department: "Computing", Program: "BS", Year: 2023},
	}
	e := New(catalog.Build(records), normalize.Default(), 2024)

	tests := []struct {
		name  string
		input string
		uni   string
		camp  string
	}{
		{"own campus beats earlier global match", "alpha u city centre computing", "Alpha U", "City Centre"},
		{"no own campus falls back to global list", "alpha u city computing", "Alpha U", "City"},
		{"no university uses global list", "city centre computing", "", "City"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := e.Extract(tt.input)
			assert.Equal(t, tt.uni, got.University.Or(""))
			assert.Equal(t, tt.camp, got.Campus.Or(""))
		})
	}
}
