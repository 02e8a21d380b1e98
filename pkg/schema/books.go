package schema

import "strings"

// BookSummary is book metadata as returned by the metadata provider, filtered
// to entries with a cover and an English description. Not persisted.
type BookSummary struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Blurb     string `json:"blurb,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ParsedQuery is a free-text search phrase split into structured fields.
type ParsedQuery struct {
	Title  string `json:"title,omitempty" jsonschema_description:"Book title or partial title"`
	Author string `json:"author,omitempty" jsonschema_description:"Author name or partial name"`
}

// ToGoogleQuery renders the Google Books field-prefixed query string. Double
// quotes are stripped from values so they cannot break the quoting syntax.
// Returns "" when both fields are absent.
func (q ParsedQuery) ToGoogleQuery() string {
	var parts []string
	if q.Title != "" {
		safe := strings.ReplaceAll(strings.TrimSpace(q.Title), `"`, "")
		parts = append(parts, `intitle:"`+safe+`"`)
	}
	if q.Author != "" {
		safe := strings.ReplaceAll(strings.TrimSpace(q.Author), `"`, "")
		parts = append(parts, `inauthor:"`+safe+`"`)
	}
	return strings.Join(parts, " ")
}
