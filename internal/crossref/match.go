package crossref

import (
	"sort"
	"strconv"
	"strings"
)

// normalizeTitle prepares a title for comparison: lowercase, with en-dashes,
// hyphenation points, and double hyphens folded to a plain '-'.
func normalizeTitle(title string) string {
	title = strings.ToLower(title)
	title = strings.ReplaceAll(title, "–", "-") // en dash
	title = strings.ReplaceAll(title, "‐", "-") // hyphen point
	title = strings.ReplaceAll(title, "--", "-")
	return title
}

// pickWork selects the best candidate for the queried title: candidates are
// considered newest first (by Crossref's created timestamp), and the first
// whose title contains the normalized query title wins. DOIs ending in
// ".vid" are video records masquerading as articles and are rejected.
func pickWork(items []workItem, queryTitle string) *workItem {
	sorted := make([]workItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Created.DateTime > sorted[j].Created.DateTime
	})

	want := normalizeTitle(queryTitle)
	for i := range sorted {
		item := &sorted[i]
		if item.DOI == "" || strings.HasSuffix(item.DOI, ".vid") {
			continue
		}
		if strings.Contains(normalizeTitle(item.title()), want) {
			return item
		}
	}
	return nil
}

// fieldsFromWork maps a matched work onto BibTeX field values. Only fields
// the work actually carries are present in the result.
func fieldsFromWork(w *workItem) map[string]string {
	fields := map[string]string{
		"doi": w.DOI,
	}
	if len(w.ContainerTitle) > 0 && w.ContainerTitle[0] != "" {
		fields["journal"] = w.ContainerTitle[0]
		fields["booktitle"] = w.ContainerTitle[0]
	}
	if year := w.year(); year > 0 {
		fields["year"] = strconv.Itoa(year)
	}
	if w.Volume != "" {
		fields["volume"] = w.Volume
	}
	if w.Issue != "" {
		fields["number"] = w.Issue
	}
	if w.Page != "" {
		fields["pages"] = w.Page
	}
	if w.Publisher != "" {
		fields["publisher"] = w.Publisher
	}
	return fields
}
