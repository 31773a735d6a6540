package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagelens/internal/domain"
)

func sampleDocument(t *testing.T) *domain.DocumentResult {
	t.Helper()
	conf := 0.87
	located, err := domain.NewElement(1, "table", domain.BBox{X1: 10, Y1: 20, X2: 30, Y2: 40}, "cells", &conf)
	require.NoError(t, err)
	unlocated, err := domain.NewTextElement(2, "text", "prose, with comma")
	require.NoError(t, err)

	return &domain.DocumentResult{
		InputFile: "doc.pdf",
		PageCount: 2,
		Pages: []domain.PageResult{
			{
				PageNumber: 1,
				Extraction: &domain.ExtractionResult{
					ParseResult: &domain.ParseResult{
						Elements: []domain.Element{located, unlocated},
						Success:  true,
					},
					Success: true,
				},
				Success: true,
			},
			{PageNumber: 2, ErrorMessage: "failed"},
		},
		Success: true,
	}
}

func TestWriter_WriteDocument(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocument(sampleDocument(t)))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, columns, records[0])

	assert.Equal(t, []string{"1", "1", "table", "10", "20", "30", "40", "0.870", "cells"}, records[1])

	// Unlocated elements leave coordinate and confidence columns empty.
	assert.Equal(t, []string{"1", "2", "text", "", "", "", "", "", "prose, with comma"}, records[2])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Q4_2024_Invoices", SanitizeFilename("Q4 2024 / Invoices!"))
	assert.Equal(t, "report", SanitizeFilename("__report__"))
	assert.LessOrEqual(t, len(SanitizeFilename(strings.Repeat("x", 300))), 100)
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("Annual Report", "csv")
	assert.True(t, strings.HasPrefix(name, "Annual_Report_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
