package domain

import "time"

// PageResult is one page's full pipeline outcome. A failed page still
// carries whatever was produced before the failing stage; ImagePath is the
// canonical (resized) image the extraction actually saw, so bbox
// coordinates are always interpreted against it.
type PageResult struct {
	PageNumber   int               `json:"page_number"`
	ImagePath    string            `json:"image_path"`
	Extraction   *ExtractionResult `json:"extraction,omitempty"`
	Artifacts    []string          `json:"artifacts,omitempty"`
	Success      bool              `json:"success"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// ElementCount returns the number of elements extracted for this page.
func (p *PageResult) ElementCount() int {
	if p.Extraction == nil {
		return 0
	}
	return p.Extraction.ElementCount()
}

// DocumentResult is one document's outcome. It is created empty by the
// orchestrator, appended to one PageResult at a time (in page order), and
// frozen once all pages are attempted. Success means the run completed:
// the input validated and expanded to at least one page. Per-page failures
// are surfaced through FailedPages, never through Success.
type DocumentResult struct {
	InputFile    string        `json:"input_file"`
	OutputDir    string        `json:"output_dir"`
	PageCount    int           `json:"page_count"`
	Pages        []PageResult  `json:"pages"`
	TotalTime    time.Duration `json:"total_processing_time"`
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"error_message,omitempty"`
	// MirrorURLs are presigned download links for the combined artifacts,
	// present only when an object-storage mirror is configured.
	MirrorURLs []string `json:"mirror_urls,omitempty"`
}

// TotalElements sums the elements across all pages.
func (d *DocumentResult) TotalElements() int {
	total := 0
	for i := range d.Pages {
		total += d.Pages[i].ElementCount()
	}
	return total
}

// SuccessfulPages counts pages whose full pipeline succeeded.
func (d *DocumentResult) SuccessfulPages() int {
	n := 0
	for i := range d.Pages {
		if d.Pages[i].Success {
			n++
		}
	}
	return n
}

// FailedPages lists the page numbers that failed, in page order.
func (d *DocumentResult) FailedPages() []int {
	var failed []int
	for i := range d.Pages {
		if !d.Pages[i].Success {
			failed = append(failed, d.Pages[i].PageNumber)
		}
	}
	return failed
}

// Combined concatenates each page's elements in page order. Element IDs
// stay page-local; consumers needing a flat id space compose
// (page_number, id).
func (d *DocumentResult) Combined() *CombinedDocument {
	combined := &CombinedDocument{}
	for i := range d.Pages {
		page := &d.Pages[i]
		combined.Pages = append(combined.Pages, CombinedPage{
			PageNumber:   page.PageNumber,
			Elements:     page.Extraction.ElementsOrEmpty(),
			Success:      page.Success,
			ErrorMessage: page.ErrorMessage,
		})
	}
	return combined
}

// Summary flattens the result for the run ledger and the API.
func (d *DocumentResult) Summary() DocumentSummary {
	return DocumentSummary{
		InputFile:     d.InputFile,
		OutputDir:     d.OutputDir,
		PageCount:     d.PageCount,
		SuccessPages:  d.SuccessfulPages(),
		FailedPages:   d.FailedPages(),
		TotalElements: d.TotalElements(),
		TotalTime:     d.TotalTime,
		Success:       d.Success,
		ErrorMessage:  d.ErrorMessage,
	}
}

// ElementsOrEmpty returns the parsed elements, tolerating a nil extraction
// (pages that failed before the extraction stage).
func (r *ExtractionResult) ElementsOrEmpty() []Element {
	if r == nil || r.ParseResult == nil {
		return []Element{}
	}
	return r.ParseResult.Elements
}

// CombinedPage is one page's slice of the combined document output.
type CombinedPage struct {
	PageNumber   int       `json:"page_number"`
	Elements     []Element `json:"elements"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// CombinedDocument is the document-level artifact formed by concatenating
// all pages' elements in page order.
type CombinedDocument struct {
	Pages []CombinedPage `json:"pages"`
}

// DocumentSummary is the flattened per-document record.
type DocumentSummary struct {
	ID            string        `json:"id,omitempty"`
	InputFile     string        `json:"input_file"`
	OutputDir     string        `json:"output_dir"`
	PageCount     int           `json:"page_count"`
	SuccessPages  int           `json:"successful_pages"`
	FailedPages   []int         `json:"failed_pages"`
	TotalElements int           `json:"total_elements"`
	TotalTime     time.Duration `json:"total_processing_time"`
	Success       bool          `json:"success"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	CreatedAt     time.Time     `json:"created_at,omitempty"`
}

// BatchResult holds per-file outcomes in input order.
type BatchResult struct {
	Documents []DocumentResult `json:"documents"`
}

// FailedDocuments lists the input files whose run did not complete.
func (b *BatchResult) FailedDocuments() []string {
	var failed []string
	for i := range b.Documents {
		if !b.Documents[i].Success {
			failed = append(failed, b.Documents[i].InputFile)
		}
	}
	return failed
}
