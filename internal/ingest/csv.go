// Package ingest reads advertising records from CSV into the fixed schema.
// It is the only place that deals with raw input: the aggregation layer
// assumes well-typed records with missing values already normalized.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go-ad-stats/internal/model"
	"go-ad-stats/internal/schema"
)

// IngestionError reports an unreadable file or malformed row. It is fatal:
// a run that sees one writes no output.
type IngestionError struct {
	Path string
	Line int
	Err  error
}

func (e *IngestionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ingest %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// ReadRecords reads the whole CSV file at path into memory. The header must
// contain every schema column; extra columns are ignored. An empty cell is
// a missing value. A numeric cell that does not parse fails the whole read.
func ReadRecords(path string) ([]model.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IngestionError{Path: path, Err: err}
	}
	defer file.Close()

	return readAll(path, file)
}

func readAll(path string, r io.Reader) ([]model.Record, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, &IngestionError{Path: path, Err: fmt.Errorf("reading header: %w", err)}
	}
	for i, col := range header {
		header[i] = cleanHeader(col)
	}
	if err := schema.ValidateHeader(header); err != nil {
		return nil, err
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[col] = i
	}

	var records []model.Record
	line := 1
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &IngestionError{Path: path, Line: line, Err: err}
		}

		rec := model.Record{
			Labels:  make(map[string]string),
			Metrics: make(map[string]float64),
		}
		for _, f := range schema.Fields() {
			cell := strings.TrimSpace(row[colIdx[f.Name]])
			if cell == "" {
				continue
			}
			switch f.Kind {
			case schema.Categorical:
				rec.Labels[f.Name] = cell
			case schema.Numeric:
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, &IngestionError{
						Path: path,
						Line: line,
						Err:  fmt.Errorf("column %s: %w", f.Name, err),
					}
				}
				rec.Metrics[f.Name] = v
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// cleanHeader trims whitespace and stray quotes from a header cell.
func cleanHeader(h string) string {
	h = strings.TrimSpace(h)
	return strings.ReplaceAll(h, `"`, "")
}
