package tui

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mickamy/ora-ttc/cursor"
)

type exportFormat int

const (
	exportJSON exportFormat = iota
	exportCSV
)

func (f exportFormat) ext() string {
	if f == exportCSV {
		return "csv"
	}
	return "json"
}

// writeExport renders the fetched rows in the given format and writes them
// to a timestamped file under dir (the current directory if dir is empty),
// returning the path written.
func writeExport(columns []cursor.ColumnDescriptor, rows []cursor.Row, format exportFormat, dir string) (string, error) {
	var content string
	var err error

	switch format {
	case exportJSON:
		content, err = renderJSON(columns, rows)
	case exportCSV:
		content, err = renderCSV(columns, rows)
	}
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("oratncli-%s.%s", time.Now().Format("20060102-150405"), format.ext())
	if dir != "" {
		filename = filepath.Join(dir, filename)
	}

	if err := os.WriteFile(filename, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("tui: write export: %w", err)
	}
	return filename, nil
}

func renderJSON(columns []cursor.ColumnDescriptor, rows []cursor.Row) (string, error) {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]any, len(columns))
		for i, col := range columns {
			if i >= len(row.Cells) {
				continue
			}
			record[col.Name] = cellJSONValue(row.Cells[i])
		}
		out = append(out, record)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("tui: marshal export: %w", err)
	}
	return string(b) + "\n", nil
}

func cellJSONValue(c cursor.Cell) any {
	if c.Kind == cursor.CellNull {
		return nil
	}
	return cellString(c)
}

func renderCSV(columns []cursor.ColumnDescriptor, rows []cursor.Row) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("tui: write csv header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(columns))
		for i := range columns {
			if i < len(row.Cells) {
				record[i] = cellString(row.Cells[i])
			}
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("tui: write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("tui: flush csv: %w", err)
	}
	return sb.String(), nil
}
