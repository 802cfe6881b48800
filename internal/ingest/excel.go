package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelSource reads the first worksheet of an .xlsx workbook.
type ExcelSource struct {
	r io.Reader
}

func NewExcelSource(r io.Reader) *ExcelSource {
	return &ExcelSource{r: r}
}

func (s *ExcelSource) Read(ctx context.Context) (Table, error) {
	f, err := excelize.OpenReader(s.r)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return Table{}, err
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Table{}, errors.New("empty workbook sheet")
	}

	return Table{Header: rows[0], Rows: rows[1:]}, nil
}
