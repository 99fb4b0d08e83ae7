package genai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/garyellow/merit-linebot-go/internal/merit"
)

// Parse failures. All of them degrade to the deterministic extractor.
var (
	ErrEmptyResponse = errors.New("empty model response")
	ErrNoJSONObject  = errors.New("no JSON object in model response")
	ErrNoSlots       = errors.New("model response has no usable slots")
)

// ParseSlots decodes the span from the first '{' to the last '}' of text.
// Values are validated here: non-string text fields are dropped, and the year
// must be a 19xx or 20xx integer given as a number or numeric string.
func ParseSlots(text string) (merit.Slots, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return merit.Slots{}, ErrEmptyResponse
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return merit.Slots{}, ErrNoJSONObject
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text[start : end+1])))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return merit.Slots{}, fmt.Errorf("decode model response: %w", err)
	}

	slots := merit.Slots{
		University: stringField(raw, "university"),
		Campus:     stringField(raw, "campus"),
		Department: stringField(raw, "department"),
		Program:    stringField(raw, "program"),
		Year:       yearField(raw, "year"),
	}
	if slots.IsEmpty() {
		return merit.Slots{}, ErrNoSlots
	}
	return slots, nil
}

func stringField(raw map[string]any, key string) merit.Optional[string] {
	s, ok := lookup(raw, key).(string)
	if !ok {
		return merit.None[string]()
	}
	return merit.Text(s)
}

func yearField(raw map[string]any, key string) merit.Optional[int] {
	var year int
	switch v := lookup(raw, key).(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) {
			return merit.None[int]()
		}
		year = int(f)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return merit.None[int]()
		}
		year = n
	default:
		return merit.None[int]()
	}
	if year < 1900 || year > 2099 {
		return merit.None[int]()
	}
	return merit.Some(year)
}

// lookup finds key case-insensitively; models occasionally capitalize keys.
func lookup(raw map[string]any, key string) any {
	if v, ok := raw[key]; ok {
		return v
	}
	for k, v := range raw {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}
