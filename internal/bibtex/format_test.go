package bibtex

import (
	"strings"
	"testing"
)

func TestFormat_Alignment(t *testing.T) {
	entries, errs := Parse(`@article{X, title={T}, author={A}}`)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}

	got := Format(entries, DefaultOptions())
	want := "@article{X,\n" +
		"    author           = {A},\n" +
		"    title            = {T},\n" +
		"}\n"

	if got != want {
		t.Errorf("Format() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormat_CustomIndentation(t *testing.T) {
	entries, _ := Parse(`@article{X, title={T}}`)

	got := Format(entries, Options{PreIndent: 2, PostIndent: 8})
	want := "@article{X,\n" +
		"  title    = {T},\n" +
		"}\n"

	if got != want {
		t.Errorf("Format() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormat_CanonicalOrderThenExtras(t *testing.T) {
	// Input order: note, year, title, author, journal, volume.
	// Schema order for article: author, title, journal, year, doi.
	// Extras (note, volume) keep their original relative order.
	src := `@article{X,
    note    = {n},
    year    = {2020},
    title   = {T},
    author  = {A},
    journal = {J},
    volume  = {7},
}`
	entries, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}

	got := Format(entries, DefaultOptions())

	var fieldOrder []string
	for _, line := range strings.Split(got, "\n") {
		trimmed := strings.TrimSpace(line)
		if i := strings.Index(trimmed, " "); i > 0 && strings.Contains(trimmed, "=") {
			fieldOrder = append(fieldOrder, trimmed[:i])
		}
	}

	want := []string{"author", "title", "journal", "year", "note", "volume"}
	if len(fieldOrder) != len(want) {
		t.Fatalf("field order = %v, want %v", fieldOrder, want)
	}
	for i := range want {
		if fieldOrder[i] != want[i] {
			t.Errorf("field[%d] = %q, want %q (order: %v)", i, fieldOrder[i], want[i], fieldOrder)
		}
	}
}

func TestFormat_LongFieldName(t *testing.T) {
	entries, _ := Parse(`@article{X, howpublishedonline = {web}}`)

	got := Format(entries, Options{PreIndent: 4, PostIndent: 8})
	if !strings.Contains(got, "howpublishedonline = {web},") {
		t.Errorf("a name longer than the column should keep one separating space, got:\n%s", got)
	}
}

func TestFormat_MultipleEntries(t *testing.T) {
	src := `@article{A, title={a}} @book{B, title={b}, author={x}, publisher={p}, year={1}}`
	entries, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}

	got := Format(entries, DefaultOptions())

	// Entries separated by exactly one blank line, input order preserved.
	if !strings.Contains(got, "}\n\n@book{B,") {
		t.Errorf("entries should be separated by a blank line, got:\n%s", got)
	}
	if strings.Index(got, "@article{A") > strings.Index(got, "@book{B") {
		t.Error("output order must match input order")
	}
}

func TestFormat_Idempotent(t *testing.T) {
	src := `@ARTICLE{Messy2019,
year={2019},title    = {Some   Title},
      author={Who, Knows},journal="J. Test",
  volume = 12,
}
@misc{other, note = {keep {braces} intact}}`

	opts := DefaultOptions()

	first, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}
	once := Format(first, opts)

	second, errs := Parse(once)
	if len(errs) != 0 {
		t.Fatalf("re-parsing formatted output gave errors = %v", errs)
	}
	twice := Format(second, opts)

	if once != twice {
		t.Errorf("formatting is not idempotent:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

func TestFormat_Deterministic(t *testing.T) {
	entries, _ := Parse(`@article{X, title={T}, author={A}, year={2020}}`)
	opts := DefaultOptions()

	a := Format(entries, opts)
	b := Format(entries, opts)
	if a != b {
		t.Error("same entries and options must produce byte-identical output")
	}
}

func TestFormat_PreservesRawValues(t *testing.T) {
	src := `@article{X, title = {Caf{\'e} {Science} \& Life}}`
	entries, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}

	got := Format(entries, DefaultOptions())
	if !strings.Contains(got, `{Caf{\'e} {Science} \& Life}`) {
		t.Errorf("embedded markup must pass through unmodified, got:\n%s", got)
	}
}
