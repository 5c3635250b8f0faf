package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	monitoring "storewatch/internal/monitoring/domain"
	reports "storewatch/internal/reports/domain"
)

// EncodeCSV renders report rows into the canonical CSV artifact.
func EncodeCSV(rows []reports.Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(reports.Header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCSV parses a stored artifact back into rows, for re-rendering into
// the export formats.
func DecodeCSV(data []byte) ([]reports.Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = len(reports.Header)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("report artifact: missing header")
	}

	rows := make([]reports.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := reports.Row{StoreID: record[0]}
		if row.Hour, err = decodeResult(record[1:4]); err != nil {
			return nil, err
		}
		if row.Day, err = decodeResult(record[4:7]); err != nil {
			return nil, err
		}
		if row.Week, err = decodeResult(record[7:10]); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeResult(fields []string) (monitoring.Result, error) {
	uptime, err := strconv.Atoi(fields[0])
	if err != nil {
		return monitoring.Result{}, fmt.Errorf("report artifact: bad uptime %q", fields[0])
	}
	downtime, err := strconv.Atoi(fields[1])
	if err != nil {
		return monitoring.Result{}, fmt.Errorf("report artifact: bad downtime %q", fields[1])
	}
	return monitoring.Result{Uptime: uptime, Downtime: downtime, Unit: fields[2]}, nil
}
