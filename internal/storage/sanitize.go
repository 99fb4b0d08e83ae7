package storage

import "strings"

var likeEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"%", "\\%",
	"_", "\\_",
)

// sanitizeSearchTerm escapes SQLite LIKE wildcards so user text matches literally.
// Queries using it must declare ESCAPE '\'.
func sanitizeSearchTerm(term string) string {
	return likeEscaper.Replace(term)
}
