package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jinzhepro/jd-bill-filter/internal/bill"
)

// ReadCSV reads a comma-separated export into records. The first row is
// the header row; a UTF-8 BOM on the first header is stripped.
func ReadCSV(r io.Reader) ([]bill.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsToRecords(rows), nil
}

// writeCSV writes a header row plus data rows, with a BOM so spreadsheet
// applications detect CJK headers as UTF-8.
func writeCSV(w io.Writer, headers []string, rows [][]string) error {
	if _, err := w.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
