package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// LoadXLSX reads one worksheet of a workbook. The sheet is chosen by
// opt.SheetName, then opt.SheetIndex (1-based), then the active sheet.
// Raw cell values are read so identifiers stored as numbers keep every digit.
func LoadXLSX(path string, opt Options) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SourceUnavailableError{Path: path, Err: err}
	}
	defer f.Close()

	sheet, err := resolveSheet(f, opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, &SourceUnavailableError{Path: path, Err: err}
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &MalformedSourceError{Path: path, Reason: fmt.Sprintf("read sheet %q: %v", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &MalformedSourceError{Path: path, Reason: fmt.Sprintf("sheet %q has no header row", sheet)}
	}
	ds, err := FromRecords(path, rows[0], rows[1:], true)
	if err != nil {
		return nil, err
	}
	ds.Sheet = sheet
	opt.logger().Debug("loaded workbook",
		zap.String("file", filepath.Base(path)),
		zap.String("sheet", sheet),
		zap.Int("columns", ds.Arity()),
		zap.Int("rows", ds.Len()))
	return ds, nil
}

func resolveSheet(f *excelize.File, name string, index int) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s", name, strings.Join(sheets, ", "))
	}
	if index > 0 {
		if index > len(sheets) {
			return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", index, len(sheets))
		}
		return sheets[index-1], nil
	}
	active := f.GetSheetName(f.GetActiveSheetIndex())
	if active == "" {
		return sheets[0], nil
	}
	return active, nil
}
