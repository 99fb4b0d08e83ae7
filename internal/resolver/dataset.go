// Package resolver turns an utterance into a merit answer: it merges primary and
// fallback extraction, routes list intents, validates slots, runs the lookup and
// explains misses.
package resolver

import (
	"github.com/garyellow/merit-linebot-go/internal/catalog"
	"github.com/garyellow/merit-linebot-go/internal/merit"
	"github.com/garyellow/merit-linebot-go/internal/normalize"
)

// Dataset is the immutable context built once at startup: the records, the
// catalog derived from them and the alias table. It is shared by pointer
// across requests and never mutated.
type Dataset struct {
	records []merit.Record
	catalog *catalog.Catalog
	aliases *normalize.AliasTable
}

// NewDataset trims every record and indexes the set.
// A nil alias table means normalize.Default().
func NewDataset(records []merit.Record, aliases *normalize.AliasTable) *Dataset {
	if aliases == nil {
		aliases = normalize.Default()
	}
	trimmed := make([]merit.Record, len(records))
	for i, r := range records {
		trimmed[i] = r.Trimmed()
	}
	return &Dataset{
		records: trimmed,
		catalog: catalog.Build(trimmed),
		aliases: aliases,
	}
}

// Catalog returns the vocabulary index.
func (d *Dataset) Catalog() *catalog.Catalog { return d.catalog }

// Aliases returns the alias table.
func (d *Dataset) Aliases() *normalize.AliasTable { return d.aliases }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }
