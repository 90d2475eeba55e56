package bibtex

import (
	"strings"
	"testing"
)

func TestParse_BasicEntry(t *testing.T) {
	src := `@article{Smith2020,
    author = {Smith, John},
    title  = {A Study of Things},
    year   = {2020},
}`

	entries, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v, want none", errs)
	}
	if len(entries) != 1 {
		t.Fatalf("Parse() returned %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.Type != "article" {
		t.Errorf("Type = %q, want %q", e.Type, "article")
	}
	if e.Key != "Smith2020" {
		t.Errorf("Key = %q, want %q", e.Key, "Smith2020")
	}
	if len(e.Fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(e.Fields))
	}
	if v, _ := e.Get("author"); v != "{Smith, John}" {
		t.Errorf("author = %q, want raw braced value", v)
	}
}

func TestParse_WhitespaceInsensitive(t *testing.T) {
	// Same entry, mangled whitespace: all on one line, then scattered.
	srcs := []string{
		`@article{X,title={T},author={A}}`,
		"@article{X,\n\ttitle\t=\t{T}  ,\n\n   author={A}  ,\n}",
	}

	for _, src := range srcs {
		entries, errs := Parse(src)
		if len(errs) != 0 {
			t.Fatalf("Parse(%q) errors = %v", src, errs)
		}
		if len(entries) != 1 {
			t.Fatalf("Parse(%q) returned %d entries, want 1", src, len(entries))
		}
		if v, _ := entries[0].Get("title"); v != "{T}" {
			t.Errorf("Parse(%q) title = %q, want {T}", src, v)
		}
		if v, _ := entries[0].Get("author"); v != "{A}" {
			t.Errorf("Parse(%q) author = %q, want {A}", src, v)
		}
	}
}

func TestParse_ValueForms(t *testing.T) {
	src := `@article{X,
    title   = {The {BIG} Picture: a {Nested} study},
    journal = "Journal of Tests",
    year    = 2020,
}`

	entries, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}

	tests := []struct {
		field string
		want  string
	}{
		{"title", "{The {BIG} Picture: a {Nested} study}"},
		{"journal", `"Journal of Tests"`},
		{"year", "2020"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := entries[0].Get(tt.field)
			if !ok {
				t.Fatalf("field %q missing", tt.field)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestParse_PreservesEntryOrder(t *testing.T) {
	src := `@article{B, title={b}}
@article{A, title={a}}
@article{C, title={c}}`

	entries, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}

	want := []string{"B", "A", "C"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, key := range want {
		if entries[i].Key != key {
			t.Errorf("entries[%d].Key = %q, want %q (citation order must survive)", i, entries[i].Key, key)
		}
	}
}

func TestParse_MalformedEntryInMiddle(t *testing.T) {
	src := `@article{good1,
    title = {First},
}

@article{bad
    title = {Broken},
}

@article{good2,
    title = {Last},
}`

	entries, errs := Parse(src)

	if len(errs) != 1 {
		t.Fatalf("Parse() errors = %v, want exactly 1", errs)
	}
	if errs[0].Line == 0 {
		t.Error("ParseError should carry a line number")
	}
	if !strings.Contains(errs[0].Error(), "line") {
		t.Errorf("ParseError.Error() = %q, should mention the line", errs[0].Error())
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (bad entry must not abort the file)", len(entries))
	}
	if entries[0].Key != "good1" || entries[1].Key != "good2" {
		t.Errorf("surviving keys = %q, %q, want good1, good2", entries[0].Key, entries[1].Key)
	}
}

func TestParse_UnbalancedBraces(t *testing.T) {
	src := `@article{broken,
    title = {never closed,
}`

	entries, errs := Parse(src)
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want 1", errs)
	}
	if !strings.Contains(errs[0].Message, "broken") {
		t.Errorf("error %q should name the entry", errs[0].Message)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, src := range []string{"", "\n\n", "% just a comment\n"} {
		entries, errs := Parse(src)
		if len(entries) != 0 || len(errs) != 0 {
			t.Errorf("Parse(%q) = %d entries, %d errors, want 0, 0", src, len(entries), len(errs))
		}
	}
}

func TestParse_EntryWithoutFields(t *testing.T) {
	entries, errs := Parse(`@misc{lonely}`)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}
	if len(entries) != 1 || entries[0].Key != "lonely" {
		t.Fatalf("got %+v, want single entry with key lonely", entries)
	}
	if len(entries[0].Fields) != 0 {
		t.Errorf("got %d fields, want 0", len(entries[0].Fields))
	}
}

func TestParse_TrailingComma(t *testing.T) {
	entries, errs := Parse(`@article{X, title={T},}`)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}
	if len(entries) != 1 || len(entries[0].Fields) != 1 {
		t.Fatalf("trailing comma should be tolerated, got %+v", entries)
	}
}

func TestDuplicateKeys(t *testing.T) {
	src := `@article{X, title={a}}
@article{Y, title={b}}
@article{X, title={c}}
@article{X, title={d}}`

	entries, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4 (duplicates are kept)", len(entries))
	}

	dups := DuplicateKeys(entries)
	if len(dups) != 1 || dups[0] != "X" {
		t.Errorf("DuplicateKeys() = %v, want [X]", dups)
	}
}
