// Package ingest reads spreadsheet and CSV exports into uniform records
// and writes pipeline output back out, with monetary rounding applied only
// at this boundary.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jinzhepro/jd-bill-filter/internal/bill"
)

// ReadFile parses an uploaded export by file extension.
func ReadFile(name string, r io.Reader) ([]bill.Record, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}

// rowsToRecords zips a header row with data rows, preserving row order.
// Rows with no non-empty cell are skipped.
func rowsToRecords(rows [][]string) []bill.Record {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\xEF\xBB\xBF"))
	}

	records := make([]bill.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		empty := true
		rec := make(bill.Record, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
			rec[h] = cell
		}
		if empty {
			continue
		}
		records = append(records, rec)
	}
	return records
}
