package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"tonepulse/pkg/contracts/domain"
)

const mergedSheetName = "Merged Data"

// WriteExcelReport renders the differenced merged table as a styled
// workbook next to the CSV artifact, for readers who want to chart the
// series without importing the CSV.
func (w *CSVWriter) WriteExcelReport(rows []domain.DifferencedRow) error {
	fullPath := w.paths.ExcelReport()

	slog.Info("Writing Excel report",
		slog.String("full_path", fullPath),
		slog.Int("row_count", len(rows)))

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", mergedSheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range mergedHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(mergedSheetName, cell, header); err != nil {
			return fmt.Errorf("write header %q: %w", header, err)
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(mergedHeaders), 1)
	if err := f.SetCellStyle(mergedSheetName, "A1", endHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		values := []interface{}{row.Date, row.Sentiment, row.Price, row.DiffSentiment, row.DiffPrice}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(mergedSheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}

	if err := f.SetColWidth(mergedSheetName, "A", "E", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
