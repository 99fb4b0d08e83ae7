package genai

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotSystemPrompt instructs the model to act as a strict slot extractor.
const SlotSystemPrompt = `You extract search fields from questions about university admission merit.
Reply with a single JSON object and nothing else.
Keys: "university", "campus", "department", "program", "year".
Use only values from the provided lists for university, department and program.
Use "" for unknown strings and null for an unknown year.`

// Vocabulary is the set of canonical values the model may choose from.
type Vocabulary struct {
	Universities []string
	Departments  []string
	Programs     []string
	Campuses     []string
}

// BuildPrompt renders the user prompt for one utterance.
func BuildPrompt(utterance string, vocab Vocabulary, defaultYear int) string {
	var sb strings.Builder

	sb.WriteString("From the question, pull:\n")
	fmt.Fprintf(&sb, "- university (one of: %s)\n", quoteList(vocab.Universities))
	fmt.Fprintf(&sb, "- campus (one of: %s; \"\" if none)\n", quoteList(vocab.Campuses))
	fmt.Fprintf(&sb, "- department (canonical to: %s)\n", quoteList(vocab.Departments))
	fmt.Fprintf(&sb, "- program (canonical to: %s, default \"BS\")\n", quoteList(vocab.Programs))
	fmt.Fprintf(&sb, "- year (int, default %d)\n\n", defaultYear)
	sb.WriteString("Return ONLY JSON.\n")
	sb.WriteString("User said:\n\"\"\"")
	sb.WriteString(strings.ReplaceAll(utterance, `"""`, `"`))
	sb.WriteString("\"\"\"\n")

	return sb.String()
}

func quoteList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
