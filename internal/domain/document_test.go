package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successfulPage(pageNumber, elements int) PageResult {
	els := make([]Element, 0, elements)
	for i := 1; i <= elements; i++ {
		el, _ := NewTextElement(i, "text", "content")
		els = append(els, el)
	}
	return PageResult{
		PageNumber: pageNumber,
		ImagePath:  "page.png",
		Extraction: &ExtractionResult{
			ParseResult: &ParseResult{Elements: els, Format: "plaintext", Success: true},
			Success:     true,
		},
		Success: true,
	}
}

func failedPage(pageNumber int, msg string) PageResult {
	return PageResult{
		PageNumber:   pageNumber,
		ImagePath:    "page.png",
		Extraction:   FailedExtraction("page.png", "model", msg),
		ErrorMessage: msg,
	}
}

func TestDocumentResult_Aggregates(t *testing.T) {
	doc := DocumentResult{
		InputFile: "doc.pdf",
		PageCount: 3,
		Pages: []PageResult{
			successfulPage(1, 2),
			failedPage(2, "extraction failed"),
			successfulPage(3, 5),
		},
		TotalTime: 2 * time.Second,
		Success:   true,
	}

	assert.Equal(t, 7, doc.TotalElements())
	assert.Equal(t, 2, doc.SuccessfulPages())
	assert.Equal(t, []int{2}, doc.FailedPages())
}

// A completed run is a success even when every page failed.
func TestDocumentResult_SuccessIndependentOfPages(t *testing.T) {
	doc := DocumentResult{
		InputFile: "doc.pdf",
		PageCount: 2,
		Pages: []PageResult{
			failedPage(1, "boom"),
			failedPage(2, "boom"),
		},
		Success: true,
	}

	assert.True(t, doc.Success)
	assert.Equal(t, []int{1, 2}, doc.FailedPages())
	assert.Equal(t, 0, doc.TotalElements())
}

func TestDocumentResult_Combined(t *testing.T) {
	doc := DocumentResult{
		PageCount: 3,
		Pages: []PageResult{
			successfulPage(1, 1),
			failedPage(2, "boom"),
			successfulPage(3, 2),
		},
		Success: true,
	}

	combined := doc.Combined()
	require.Len(t, combined.Pages, 3)

	assert.Equal(t, 1, combined.Pages[0].PageNumber)
	assert.Len(t, combined.Pages[0].Elements, 1)
	assert.True(t, combined.Pages[0].Success)

	// Failed pages keep their slot with zero elements.
	assert.Equal(t, 2, combined.Pages[1].PageNumber)
	assert.Empty(t, combined.Pages[1].Elements)
	assert.False(t, combined.Pages[1].Success)
	assert.Equal(t, "boom", combined.Pages[1].ErrorMessage)

	assert.Len(t, combined.Pages[2].Elements, 2)
}

func TestDocumentResult_Summary(t *testing.T) {
	doc := DocumentResult{
		InputFile: "doc.pdf",
		OutputDir: "/out/doc_abc123",
		PageCount: 2,
		Pages: []PageResult{
			successfulPage(1, 3),
			failedPage(2, "boom"),
		},
		TotalTime: 5 * time.Second,
		Success:   true,
	}

	s := doc.Summary()
	assert.Equal(t, "doc.pdf", s.InputFile)
	assert.Equal(t, 2, s.PageCount)
	assert.Equal(t, 1, s.SuccessPages)
	assert.Equal(t, []int{2}, s.FailedPages)
	assert.Equal(t, 3, s.TotalElements)
	assert.Equal(t, 5*time.Second, s.TotalTime)
	assert.True(t, s.Success)
}

func TestBatchResult_FailedDocuments(t *testing.T) {
	batch := BatchResult{Documents: []DocumentResult{
		{InputFile: "a.pdf", Success: true},
		{InputFile: "b.pdf", Success: false, ErrorMessage: "file not found"},
		{InputFile: "c.pdf", Success: true},
	}}

	assert.Equal(t, []string{"b.pdf"}, batch.FailedDocuments())
}

func TestElementsOrEmpty_NilTolerant(t *testing.T) {
	var r *ExtractionResult
	assert.Empty(t, r.ElementsOrEmpty())

	r = &ExtractionResult{}
	assert.Empty(t, r.ElementsOrEmpty())
}
