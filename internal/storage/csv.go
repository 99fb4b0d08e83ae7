package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	domerrors "github.com/garyellow/merit-linebot-go/internal/errors"
	"github.com/garyellow/merit-linebot-go/internal/merit"
)

// Seed file header names.
const (
	ColUniversity   = "University"
	ColCampus       = "Campus"
	ColDepartment   = "Department"
	ColProgram      = "Program"
	ColYear         = "Year"
	ColMinimumMerit = "Minimum Merit"
	ColMaximumMerit = "Maximum Merit"
)

var requiredColumns = []string{
	ColUniversity, ColCampus, ColDepartment, ColProgram, ColYear, ColMinimumMerit, ColMaximumMerit,
}

// ParseCSV reads seed rows with a named header. Header names are matched
// case-insensitively and may appear in any order; extra columns are ignored.
// A UTF-8 byte order mark is dropped. Any row whose year or merit values do
// not parse aborts the whole load with a *errors.RowError.
func ParseCSV(r io.Reader) ([]merit.Record, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty seed file", domerrors.ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read seed header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := idx[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domerrors.ErrMissingColumn, name)
		}
		cols[name] = i
	}

	var records []merit.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read seed row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		year, err := strconv.Atoi(strings.TrimSpace(row[cols[ColYear]]))
		if err != nil {
			return nil, domerrors.NewRowError(line, ColYear, row[cols[ColYear]], err)
		}
		minMerit, err := strconv.ParseFloat(strings.TrimSpace(row[cols[ColMinimumMerit]]), 64)
		if err != nil {
			return nil, domerrors.NewRowError(line, ColMinimumMerit, row[cols[ColMinimumMerit]], err)
		}
		maxMerit, err := strconv.ParseFloat(strings.TrimSpace(row[cols[ColMaximumMerit]]), 64)
		if err != nil {
			return nil, domerrors.NewRowError(line, ColMaximumMerit, row[cols[ColMaximumMerit]], err)
		}

		records = append(records, merit.Record{
			University:   row[cols[ColUniversity]],
			Campus:       row[cols[ColCampus]],
			Department:   row[cols[ColDepartment]],
			Program:      row[cols[ColProgram]],
			Year:         year,
			MinimumMerit: minMerit,
			MaximumMerit: maxMerit,
		}.Trimmed())
	}

	return records, nil
}
