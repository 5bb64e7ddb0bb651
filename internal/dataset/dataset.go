package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Row is an ordered, fixed-arity sequence of cells. Rows are never mutated
// after loading.
type Row []Cell

// At returns the cell at the 1-based column position. Positions outside the
// row yield a Null cell.
func (r Row) At(pos int) Cell {
	if pos < 1 || pos > len(r) {
		return Cell{Kind: Null}
	}
	return r[pos-1]
}

// Dataset is a header plus the ordered data rows of one sheet or file.
// All rows share the header's arity.
type Dataset struct {
	Source string
	Sheet  string
	Header []string
	Rows   []Row
}

// Len returns the number of data rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// Arity returns the number of columns.
func (d *Dataset) Arity() int { return len(d.Header) }

// Options controls how a source file is loaded.
type Options struct {
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based XLSX sheet index, used when SheetName is empty.
	// Zero selects the workbook's active sheet.
	SheetIndex int
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	Logger    *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Open loads path, choosing the reader by extension.
func Open(path string, opt Options) (*Dataset, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		return LoadXLSX(path, opt)
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"), strings.HasSuffix(lower, ".txt"):
		return LoadCSV(path, opt)
	}
	return nil, &SourceUnavailableError{Path: path, Err: fmt.Errorf("unsupported file type %q (use .xlsx, .csv or .tsv)", filepath.Ext(path))}
}

// FromRecords builds a Dataset from raw string records. When pad is true,
// rows shorter than the header are padded with Null cells; this matches
// spreadsheet readers that drop trailing empty cells. Rows carrying values
// beyond the header are always malformed.
func FromRecords(source string, header []string, records [][]string, pad bool) (*Dataset, error) {
	if len(header) == 0 {
		return nil, &MalformedSourceError{Path: source, Reason: "missing header row"}
	}
	blank := true
	for _, h := range header {
		if strings.TrimSpace(h) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, &MalformedSourceError{Path: source, Row: 1, Reason: "header row is empty"}
	}
	ncol := len(header)
	ds := &Dataset{
		Source: source,
		Header: append([]string(nil), header...),
		Rows:   make([]Row, 0, len(records)),
	}
	for i, rec := range records {
		sheetRow := i + 2
		if len(rec) > ncol {
			for j := ncol; j < len(rec); j++ {
				if strings.TrimSpace(rec[j]) != "" {
					return nil, &MalformedSourceError{
						Path:   source,
						Row:    sheetRow,
						Reason: fmt.Sprintf("%d columns, header has %d", len(rec), ncol),
					}
				}
			}
			rec = rec[:ncol]
		}
		if len(rec) < ncol && !pad {
			return nil, &MalformedSourceError{
				Path:   source,
				Row:    sheetRow,
				Reason: fmt.Sprintf("%d columns, header has %d", len(rec), ncol),
			}
		}
		row := make(Row, ncol)
		for j := 0; j < ncol; j++ {
			if j < len(rec) {
				row[j] = NewCell(rec[j])
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}
