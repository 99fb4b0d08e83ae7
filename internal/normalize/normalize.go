// Package normalize maps free-text department and program names onto canonical labels.
//
// Lookups are pass-through on miss: unknown input is returned trimmed but otherwise
// unchanged so downstream code can still explain what was not found.
package normalize

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultAliasesYAML []byte

// Alias maps one lookup key to its canonical label.
type Alias struct {
	Key       string `yaml:"key"`
	Canonical string `yaml:"canonical"`
}

// AliasTable holds the department and program synonym lists in definition order.
// It is read-only after construction and safe for concurrent use.
type AliasTable struct {
	departments []Alias
	programs    []Alias
	deptIndex   map[string]string
	progIndex   map[string]string
}

type aliasFile struct {
	Departments []Alias `yaml:"departments"`
	Programs    []Alias `yaml:"programs"`
}

// Fold applies NFKC, Unicode case folding and trimming. Alias keys are
// stored folded, so text scanned for them must be folded the same way.
// Casers are stateful, so each call gets its own.
func Fold(s string) string {
	if n, _, err := transform.String(norm.NFKC, s); err == nil {
		s = n
	}
	return strings.TrimSpace(cases.Fold().String(s))
}

var separatorStripper = strings.NewReplacer("-", "", "_", "", " ", "")

func programKey(s string) string {
	return separatorStripper.Replace(Fold(s))
}

// NewAliasTable builds a table from ordered alias lists.
// Keys are folded on the way in; the first definition of a key wins.
func NewAliasTable(departments, programs []Alias) (*AliasTable, error) {
	t := &AliasTable{
		deptIndex: make(map[string]string, len(departments)),
		progIndex: make(map[string]string, len(programs)),
	}
	for i, a := range departments {
		key := Fold(a.Key)
		canonical := strings.TrimSpace(a.Canonical)
		if key == "" || canonical == "" {
			return nil, fmt.Errorf("department alias %d: key and canonical are required", i)
		}
		t.departments = append(t.departments, Alias{Key: key, Canonical: canonical})
		if _, dup := t.deptIndex[key]; !dup {
			t.deptIndex[key] = canonical
		}
	}
	for i, a := range programs {
		key := Fold(a.Key)
		canonical := strings.TrimSpace(a.Canonical)
		if key == "" || canonical == "" {
			return nil, fmt.Errorf("program alias %d: key and canonical are required", i)
		}
		t.programs = append(t.programs, Alias{Key: key, Canonical: canonical})
		pk := programKey(key)
		if _, dup := t.progIndex[pk]; !dup {
			t.progIndex[pk] = canonical
		}
	}
	return t, nil
}

// Parse decodes an alias table from YAML.
func Parse(data []byte) (*AliasTable, error) {
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse alias table: %w", err)
	}
	return NewAliasTable(f.Departments, f.Programs)
}

// LoadFile reads an alias table from a YAML file on disk.
func LoadFile(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Default returns the built-in alias table.
func Default() *AliasTable {
	t, err := Parse(defaultAliasesYAML)
	if err != nil {
		panic(fmt.Sprintf("normalize: embedded alias table is invalid: %v", err))
	}
	return t
}

// Departments returns the department aliases in definition order. Keys are folded.
func (t *AliasTable) Departments() []Alias {
	return append([]Alias(nil), t.departments...)
}

// Programs returns the program aliases in definition order. Keys are folded.
func (t *AliasTable) Programs() []Alias {
	return append([]Alias(nil), t.programs...)
}

// CanonicalDepartment maps a department synonym to its canonical label.
func (t *AliasTable) CanonicalDepartment(text string) string {
	if text == "" {
		return text
	}
	if v, ok := t.deptIndex[Fold(text)]; ok {
		return v
	}
	return strings.TrimSpace(text)
}

// CanonicalProgram maps a program synonym to its canonical label.
// Hyphens, underscores and spaces are ignored, so "B-S" and "b s" resolve like "bs".
func (t *AliasTable) CanonicalProgram(text string) string {
	if text == "" {
		return text
	}
	if v, ok := t.progIndex[programKey(text)]; ok {
		return v
	}
	return strings.TrimSpace(text)
}
