package exporter

import (
	"strconv"
)

// formatFloat renders a float64 for the CSV and JSON artifacts using the
// shortest representation that round-trips, so 2.0 stays "2" and
// 102.35000000000001 does not appear.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
