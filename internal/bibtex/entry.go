// Package bibtex defines the bibliography entry model, the per-type
// required-field schemas, and the parser and formatter for the plain-text
// BibTeX entry grammar.
package bibtex

import "strings"

// Field is a single name/value pair on an entry. Value holds the raw value
// text exactly as it appeared in the source, including its delimiters
// ({...}, "...", or bare), so embedded markup passes through untouched.
type Field struct {
	Name  string
	Value string
}

// Entry represents one bibliography record.
type Entry struct {
	// Type is the entry type tag (article, book, ...), without the leading @.
	Type string
	// Key is the citation key.
	Key string
	// Fields are the entry's fields in their original source order.
	Fields []Field
}

// Has reports whether the entry carries a field with the given name.
// Field names are case-insensitive per BibTeX convention.
func (e *Entry) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Get returns the raw value of the named field.
func (e *Entry) Get(name string) (string, bool) {
	for _, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Set appends a field if no field with that name exists. It never
// overwrites: gap-filling must not replace user-provided values.
// It reports whether the field was added.
func (e *Entry) Set(name, value string) bool {
	if e.Has(name) {
		return false
	}
	e.Fields = append(e.Fields, Field{Name: name, Value: value})
	return true
}

// BareValue returns the named field's value with its outer delimiters and
// any remaining braces stripped, for use in queries and comparisons.
// Returns "" if the field is absent.
func (e *Entry) BareValue(name string) string {
	v, ok := e.Get(name)
	if !ok {
		return ""
	}
	return StripDelimiters(v)
}

// StripDelimiters removes the outer {...} or "..." delimiters from a raw
// field value, plus any interior braces.
func StripDelimiters(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if v[0] == '{' && v[len(v)-1] == '}' {
			v = v[1 : len(v)-1]
		} else if v[0] == '"' && v[len(v)-1] == '"' {
			v = v[1 : len(v)-1]
		}
	}
	v = strings.ReplaceAll(v, "{", "")
	v = strings.ReplaceAll(v, "}", "")
	return strings.TrimSpace(v)
}

// Brace wraps a bare value in braces for insertion as a raw field value.
func Brace(v string) string {
	return "{" + v + "}"
}
