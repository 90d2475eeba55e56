package bibtex

import "strings"

// requiredFields maps entry types to their required fields in canonical
// output order. The table is read-only after init; unknown types fall back
// to defaultRequired.
//
// Books are exempt from the doi requirement: many carry only an ISBN and
// Crossref coverage is poor for them, so a missing doi on a book is not a
// gap worth a lookup.
var requiredFields = map[string][]string{
	"article":       {"author", "title", "journal", "year", "doi"},
	"book":          {"author", "title", "publisher", "year"},
	"inproceedings": {"author", "title", "booktitle", "year", "doi"},
	"incollection":  {"author", "title", "booktitle", "publisher", "year", "doi"},
	"techreport":    {"author", "title", "institution", "year", "doi"},
	"phdthesis":     {"author", "title", "school", "year"},
	"mastersthesis": {"author", "title", "school", "year"},
	"misc":          {"author", "title", "year"},
}

// defaultRequired is the fallback schema for unknown entry types.
var defaultRequired = []string{"author", "title", "year"}

// RequiredFields returns the required fields for an entry type in canonical
// order. The returned slice is shared; callers must not modify it.
func RequiredFields(entryType string) []string {
	if fields, ok := requiredFields[strings.ToLower(entryType)]; ok {
		return fields
	}
	return defaultRequired
}

// MissingFields returns the entry's required fields that are not present,
// in canonical order. An empty result means the entry needs no lookup.
func MissingFields(e *Entry) []string {
	var missing []string
	for _, name := range RequiredFields(e.Type) {
		if !e.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
