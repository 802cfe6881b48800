package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVSource reads a CSV export. The payload is decoded with heuristic
// charset detection before parsing; rows the reader cannot structure are
// discarded individually and surface in Table.BadRows.
type CSVSource struct {
	r io.Reader
}

func NewCSVSource(r io.Reader) *CSVSource {
	return &CSVSource{r: r}
}

func (s *CSVSource) Read(ctx context.Context) (Table, error) {
	raw, err := io.ReadAll(s.r)
	if err != nil {
		return Table{}, fmt.Errorf("read csv payload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}

	reader := csv.NewReader(strings.NewReader(DecodeText(raw)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return Table{}, errors.New("empty csv input")
		}
		return Table{}, fmt.Errorf("read csv header: %w", err)
	}

	table := Table{Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				table.BadRows++
				continue
			}
			return Table{}, fmt.Errorf("read csv row: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
