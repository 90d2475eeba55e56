// Package fill implements the driver: gap detection, resolution of missing
// fields through a Resolver, and the merge policy that never overwrites a
// field the entry already carries.
package fill

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlbertoCuadra/doi-scraper/internal/bibtex"
	"github.com/AlbertoCuadra/doi-scraper/internal/crossref"
	"github.com/AlbertoCuadra/doi-scraper/internal/pdf"
	"github.com/AlbertoCuadra/doi-scraper/internal/storage"
)

// Resolver resolves a bibliographic query to candidate field values.
// crossref.Client is the production implementation.
type Resolver interface {
	Resolve(ctx context.Context, q crossref.Query) (map[string]string, error)
}

// Options configures one processing run.
type Options struct {
	// Format holds the indentation parameters passed to the formatter.
	Format bibtex.Options

	// FormatOnly skips every Resolver call: pure offline reformat.
	FormatOnly bool

	// Resolver fills missing fields. Required unless FormatOnly is set.
	Resolver Resolver

	// Cache, when non-nil, deduplicates identical queries within the run.
	Cache *storage.ResolutionCache

	// Stderr receives per-entry diagnostics. Defaults to os.Stderr.
	Stderr io.Writer
}

// Stats summarizes a run for the end-of-run report.
type Stats struct {
	Total    int `json:"total"`     // Entries parsed
	Complete int `json:"complete"`  // Entries with no missing fields
	Resolved int `json:"resolved"`  // Entries with at least one field filled
	NotFound int `json:"not_found"` // Entries the service had no match for
	Failed   int `json:"failed"`    // Entries hit by transport/API errors
	Skipped  int `json:"skipped"`   // Entries with gaps but no title to query
}

// Report carries everything the CLI surfaces after a run.
type Report struct {
	Stats         Stats               `json:"stats"`
	ParseErrors   []bibtex.ParseError `json:"-"`
	DuplicateKeys []string            `json:"duplicate_keys,omitempty"`
}

// Process parses src, optionally resolves missing fields, and returns the
// formatted output text. Per-entry failures are recovered locally: the
// entry keeps its pre-resolution state and processing continues. The error
// return is non-nil only for misconfiguration, never for entry failures.
func Process(ctx context.Context, src []byte, opts Options) (string, Report, error) {
	if !opts.FormatOnly && opts.Resolver == nil {
		return "", Report{}, fmt.Errorf("no resolver configured")
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	entries, parseErrs := bibtex.Parse(string(src))

	report := Report{
		ParseErrors:   parseErrs,
		DuplicateKeys: bibtex.DuplicateKeys(entries),
	}
	report.Stats.Total = len(entries)

	for _, perr := range parseErrs {
		fmt.Fprintf(opts.Stderr, "warning: skipping malformed entry: %v\n", perr)
	}
	for _, key := range report.DuplicateKeys {
		fmt.Fprintf(opts.Stderr, "warning: duplicate citation key %q\n", key)
	}

	if !opts.FormatOnly {
		for i := range entries {
			resolveEntry(ctx, &entries[i], &opts, &report.Stats)
		}
	}

	return bibtex.Format(entries, opts.Format), report, nil
}

// resolveEntry fills an entry's missing required fields, first from a local
// PDF when one is referenced, then from the Resolver. The entry is mutated
// in place; present fields are never overwritten.
func resolveEntry(ctx context.Context, e *bibtex.Entry, opts *Options, stats *Stats) {
	missing := bibtex.MissingFields(e)
	if len(missing) == 0 {
		stats.Complete++
		return
	}

	filled := false

	if contains(missing, "doi") {
		if doi := doiFromPDF(e, opts.Stderr); doi != "" {
			e.Set("doi", bibtex.Brace(doi))
			filled = true
			missing = bibtex.MissingFields(e)
		}
	}

	if len(missing) == 0 {
		stats.Resolved++
		return
	}

	title := e.BareValue("title")
	if title == "" {
		stats.Skipped++
		fmt.Fprintf(opts.Stderr, "warning: entry %q has gaps but no title to query with\n", e.Key)
		return
	}

	fields, err := resolveQuery(ctx, opts, crossref.Query{
		Author: e.BareValue("author"),
		Title:  title,
		Year:   e.BareValue("year"),
	})
	if err != nil {
		if crossref.IsNotFound(err) {
			stats.NotFound++
			fmt.Fprintf(opts.Stderr, "no match for entry %q (%s)\n", e.Key, title)
		} else {
			stats.Failed++
			fmt.Fprintf(opts.Stderr, "warning: resolving entry %q: %v\n", e.Key, err)
		}
		return
	}

	for _, name := range missing {
		if value, ok := fields[name]; ok && value != "" {
			if e.Set(name, bibtex.Brace(value)) {
				filled = true
			}
		}
	}

	if filled {
		stats.Resolved++
		if doi, ok := fields["doi"]; ok {
			fmt.Fprintf(opts.Stderr, "resolved entry %q -> %s\n", e.Key, doi)
		}
	} else {
		stats.NotFound++
	}
}

// resolveQuery consults the run-scoped cache before the Resolver, so two
// entries with identical author/title/year cost one upstream call.
func resolveQuery(ctx context.Context, opts *Options, q crossref.Query) (map[string]string, error) {
	if opts.Cache != nil {
		if fields, ok, err := opts.Cache.Get(q.Author, q.Title, q.Year); err == nil && ok {
			return fields, nil
		}
	}

	fields, err := opts.Resolver.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(q.Author, q.Title, q.Year, fields); err != nil {
			fmt.Fprintf(opts.Stderr, "warning: caching resolution: %v\n", err)
		}
	}

	return fields, nil
}

// doiFromPDF scans the PDF referenced by the entry's file field, if any.
// Extraction failures are non-fatal; the network path still runs.
func doiFromPDF(e *bibtex.Entry, stderr io.Writer) string {
	path := e.BareValue("file")
	if path == "" || !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return ""
	}

	doi, err := pdf.ExtractDOI(path)
	if err != nil {
		fmt.Fprintf(stderr, "warning: reading PDF for entry %q: %v\n", e.Key, err)
		return ""
	}
	if doi != "" {
		fmt.Fprintf(stderr, "found DOI in PDF for entry %q -> %s\n", e.Key, doi)
	}
	return doi
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
