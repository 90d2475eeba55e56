package bibtex

import (
	"strings"
)

// Default indentation parameters.
const (
	DefaultPreIndent  = 4  // Spaces before the field name
	DefaultPostIndent = 16 // Column the '=' is aligned past
)

// Options controls formatter indentation.
type Options struct {
	// PreIndent is the number of spaces before each field name.
	PreIndent int
	// PostIndent is the column width the field name is padded to before
	// the '=' sign.
	PostIndent int
}

// DefaultOptions returns the standard indentation parameters.
func DefaultOptions() Options {
	return Options{PreIndent: DefaultPreIndent, PostIndent: DefaultPostIndent}
}

// Format serializes entries in order. For each entry, schema-required
// fields present on the entry are emitted first in canonical order, then
// the remaining fields in their original relative order.
//
// Output is deterministic: the same entries and options always produce
// byte-identical text. It is also idempotent: re-parsing formatted output
// and formatting it again reproduces it exactly.
func Format(entries []Entry, opts Options) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		formatEntry(&b, e, opts)
	}
	return b.String()
}

func formatEntry(b *strings.Builder, e Entry, opts Options) {
	b.WriteString("@")
	b.WriteString(e.Type)
	b.WriteString("{")
	b.WriteString(e.Key)
	b.WriteString(",\n")

	emitted := make(map[string]bool, len(e.Fields))

	// Schema fields first, in canonical order.
	for _, name := range RequiredFields(e.Type) {
		for _, f := range e.Fields {
			if strings.EqualFold(f.Name, name) {
				writeField(b, f, opts)
				emitted[strings.ToLower(f.Name)] = true
				break
			}
		}
	}

	// Remaining fields in original order.
	for _, f := range e.Fields {
		if !emitted[strings.ToLower(f.Name)] {
			writeField(b, f, opts)
		}
	}

	b.WriteString("}\n")
}

// writeField emits one aligned field line:
// <PreIndent spaces><name><padding>= <value>,
// The name is padded so the '=' lands one column past PostIndent; a name
// longer than PostIndent still gets a single separating space.
func writeField(b *strings.Builder, f Field, opts Options) {
	pad := opts.PostIndent + 1 - len(f.Name)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(strings.Repeat(" ", opts.PreIndent))
	b.WriteString(f.Name)
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString("= ")
	b.WriteString(f.Value)
	b.WriteString(",\n")
}
