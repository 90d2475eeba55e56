// Package pdf extracts DOIs from PDF files referenced by bibliography
// entries, so a local scan can satisfy a gap before any network call.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// maxScanPages limits the scan; the DOI is almost always on the first page.
const maxScanPages = 3

// ExtractDOI extracts a DOI from a PDF file. It searches the first few
// pages for DOI patterns. A missing DOI is not an error.
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := maxScanPages
	if r.NumPage() < pages {
		pages = r.NumPage()
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// findDOI returns the first valid DOI in text, stripped of trailing
// punctuation the pattern tends to swallow.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic shape validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	if strings.HasSuffix(doi, ".vid") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash != -1 && slash < len(doi)-1
}
