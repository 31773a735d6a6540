package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"pagelens/internal/domain"
)

const elementsSheet = "Elements"
const summarySheet = "Summary"

// WriteWorkbook renders a document result as an Excel workbook with an
// element table and a run summary sheet.
func WriteWorkbook(w io.Writer, doc *domain.DocumentResult) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", elementsSheet)

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(elementsSheet, cell, name); err != nil {
			return fmt.Errorf("header cell %s: %w", cell, err)
		}
	}

	rowIdx := 2
	for i := range doc.Pages {
		page := &doc.Pages[i]
		for _, el := range page.Extraction.ElementsOrEmpty() {
			values := []any{page.PageNumber, el.ID, el.Type, nil, nil, nil, nil, nil, el.Content}
			if el.BBox != nil {
				values[3], values[4] = el.BBox.X1, el.BBox.Y1
				values[5], values[6] = el.BBox.X2, el.BBox.Y2
			}
			if el.Confidence != nil {
				values[7] = *el.Confidence
			}
			for col, v := range values {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
				if err != nil {
					return fmt.Errorf("element cell: %w", err)
				}
				if err := f.SetCellValue(elementsSheet, cell, v); err != nil {
					return fmt.Errorf("element cell %s: %w", cell, err)
				}
			}
			rowIdx++
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	summary := doc.Summary()
	rows := [][2]string{
		{"Input File", summary.InputFile},
		{"Output Directory", summary.OutputDir},
		{"Pages", strconv.Itoa(summary.PageCount)},
		{"Successful Pages", strconv.Itoa(summary.SuccessPages)},
		{"Failed Pages", fmt.Sprintf("%v", summary.FailedPages)},
		{"Total Elements", strconv.Itoa(summary.TotalElements)},
		{"Processing Time", summary.TotalTime.String()},
		{"Success", strconv.FormatBool(summary.Success)},
	}
	for i, row := range rows {
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
