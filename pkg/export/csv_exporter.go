package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter flattens the summary sections into a two-column CSV.
type CSVExporter struct{}

// NewCSVExporter constructs a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes one record per row, prefixed with its section title.
func (e *CSVExporter) Render(sections []Section) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("csv requires at least one section")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write([]string{"section", "field", "value"}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, section := range sections {
		for _, row := range section.Rows {
			if err := w.Write([]string{section.Title, row[0], row[1]}); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
