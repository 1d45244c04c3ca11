package exporter

import (
	"tonepulse/internal/config"
	"tonepulse/pkg/contracts/domain"
)

// mergedHeaders is the column order of the merged data artifact.
var mergedHeaders = []string{"Date", "V2ToneOut", "Adj Close", "diff_V2ToneOut", "diff_Adj Close"}

// WriteMergedCSV writes the differenced merged table to the results
// directory. The first merged row has no difference and is not part of
// the artifact.
func (w *CSVWriter) WriteMergedCSV(rows []domain.DifferencedRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Date,
			formatFloat(row.Sentiment),
			formatFloat(row.Price),
			formatFloat(row.DiffSentiment),
			formatFloat(row.DiffPrice),
		})
	}
	return w.WriteSimpleCSV(config.MergedCSVName, mergedHeaders, records)
}
