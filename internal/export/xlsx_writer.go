package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"cvscreen/internal/domain"
)

const sheetName = "Results"

// WriteXLSX writes results as a single-sheet workbook to w. The match percentage column is
// stored as a number so spreadsheets can sort it.
func WriteXLSX(w io.Writer, results []domain.CvResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("xlsx: renaming sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: writing header: %w", err)
	}

	for i := range results {
		row := resultToRow(&results[i])
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		values[1] = domain.ParseScore(results[i].ATSScore)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("xlsx: writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("xlsx: freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: writing workbook: %w", err)
	}
	return nil
}
