// Package dataset loads the raw restaurant export from CSV. The first
// row is the header; every later row becomes an untyped RawRow keyed by
// the header values, leaving all cleaning to the normalizer.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"bistro_finder/internal/domain"
)

// Load reads every record from path into raw rows.
func Load(path string) ([]domain.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV from r. Rows with more or fewer fields than the
// header are kept; extra fields are dropped and missing ones left unset.
func Read(r io.Reader) ([]domain.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []domain.RawRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		row := make(domain.RawRow, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
