package crossref

// Query identifies a bibliographic work to resolve. Title is required;
// Author and Year sharpen the search when present.
type Query struct {
	Author string
	Title  string
	Year   string
}

// worksResponse is the envelope of the /works endpoint.
type worksResponse struct {
	Message struct {
		Items []workItem `json:"items"`
	} `json:"message"`
}

// workItem is one candidate work returned by Crossref.
type workItem struct {
	DOI            string   `json:"DOI"`
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	Volume         string   `json:"volume"`
	Issue          string   `json:"issue"`
	Page           string   `json:"page"`
	Publisher      string   `json:"publisher"`
	Created        struct {
		DateTime string `json:"date-time"`
	} `json:"created"`
	Issued struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
}

// title returns the work's primary title, or "".
func (w *workItem) title() string {
	if len(w.Title) == 0 {
		return ""
	}
	return w.Title[0]
}

// year returns the work's publication year, or 0.
func (w *workItem) year() int {
	if len(w.Issued.DateParts) == 0 || len(w.Issued.DateParts[0]) == 0 {
		return 0
	}
	return w.Issued.DateParts[0][0]
}
