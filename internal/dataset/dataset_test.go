package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "policies.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestNewCellClassification(t *testing.T) {
	cases := []struct {
		raw   string
		kind  CellKind
		blank bool
		text  string
	}{
		{"", Null, true, ""},
		{"   ", Text, true, ""},
		{" Acme ", Text, false, "Acme"},
		{"0", Number, false, "0"},
		{"12345678901", Number, false, "12345678901"},
		{"2024-03-01", Date, false, "2024-03-01"},
		{"01.03.2024", Date, false, "01.03.2024"},
	}
	for _, tc := range cases {
		c := NewCell(tc.raw)
		assert.Equal(t, tc.kind, c.Kind, "kind of %q", tc.raw)
		assert.Equal(t, tc.blank, c.Blank(), "blank of %q", tc.raw)
		assert.Equal(t, tc.text, c.Text(), "text of %q", tc.raw)
	}
	assert.True(t, NewCell("").IsNull())
	assert.False(t, NewCell("  ").IsNull())
}

func TestRowAtIsOneBased(t *testing.T) {
	r := Row{NewCell("a"), NewCell("b")}
	assert.Equal(t, "a", r.At(1).Text())
	assert.Equal(t, "b", r.At(2).Text())
	assert.True(t, r.At(0).IsNull())
	assert.True(t, r.At(3).IsNull())
}

func TestFromRecordsPadsShortRows(t *testing.T) {
	ds, err := FromRecords("x.xlsx", []string{"A", "B", "C"}, [][]string{{"1"}, {"1", "2", "3", ""}}, true)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Len(t, ds.Rows[0], 3)
	assert.True(t, ds.Rows[0].At(3).IsNull())
	assert.Len(t, ds.Rows[1], 3)
}

func TestFromRecordsArityMismatch(t *testing.T) {
	_, err := FromRecords("x.csv", []string{"A", "B"}, [][]string{{"1", "2"}, {"1"}}, false)
	var me *MalformedSourceError
	require.True(t, errors.As(err, &me), "got %v", err)
	assert.Equal(t, 3, me.Row)

	_, err = FromRecords("x.xlsx", []string{"A", "B"}, [][]string{{"1", "2", "extra"}}, true)
	require.True(t, errors.As(err, &me), "got %v", err)
	assert.Equal(t, 2, me.Row)
}

func TestFromRecordsRejectsEmptyHeader(t *testing.T) {
	_, err := FromRecords("x.csv", []string{" ", ""}, nil, false)
	var me *MalformedSourceError
	require.True(t, errors.As(err, &me))

	_, err = FromRecords("x.csv", nil, nil, false)
	require.True(t, errors.As(err, &me))
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	body := "\ufeffType,Customer,ID\nBireysel, Acme ,12345\nKurumsal,,\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	ds, err := Open(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Type", "Customer", "ID"}, ds.Header)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "Acme", ds.Rows[0].At(2).Text())
	assert.Equal(t, Number, ds.Rows[0].At(3).Kind)
	assert.True(t, ds.Rows[1].At(2).IsNull())
}

func TestLoadCSVSemicolon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("A;B\n1;2\n"), 0o644))
	ds, err := LoadCSV(path, Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Arity())
	assert.Equal(t, "2", ds.Rows[0].At(2).Text())
}

func TestLoadCSVArityMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B\n1,2\n1,2,3\n"), 0o644))
	_, err := LoadCSV(path, Options{})
	var me *MalformedSourceError
	require.True(t, errors.As(err, &me), "got %v", err)
}

func TestLoadCSVEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := LoadCSV(path, Options{})
	var me *MalformedSourceError
	require.True(t, errors.As(err, &me), "got %v", err)
}

func TestOpenMissingFile(t *testing.T) {
	for _, name := range []string{"nope.xlsx", "nope.csv"} {
		_, err := Open(filepath.Join(t.TempDir(), name), Options{})
		var se *SourceUnavailableError
		require.True(t, errors.As(err, &se), "%s: got %v", name, err)
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := Open("report.pdf", Options{})
	var se *SourceUnavailableError
	require.True(t, errors.As(err, &se), "got %v", err)
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t, "DATA", [][]interface{}{
		{"Müşteri Türü", "MÜŞTERİ", "TCKN"},
		{"Bireysel", "Acme", 12345678901},
		{"Kurumsal", nil, nil},
		{"Bireysel"},
	})

	ds, err := LoadXLSX(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "DATA", ds.Sheet)
	assert.Equal(t, 3, ds.Arity())
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "12345678901", ds.Rows[0].At(3).Text())
	assert.True(t, ds.Rows[1].At(2).IsNull())
	assert.True(t, ds.Rows[2].At(3).IsNull())
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	path := writeWorkbook(t, "Summary", [][]interface{}{{"Note"}, {"x"}})
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	_, err = f.NewSheet("Policies")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Policies", "A1", &[]interface{}{"A", "B"}))
	require.NoError(t, f.SetSheetRow("Policies", "A2", &[]interface{}{"1", "2"}))
	require.NoError(t, f.SetSheetRow("Policies", "A3", &[]interface{}{"3", "4"}))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	ds, err := LoadXLSX(path, Options{SheetName: "policies"})
	require.NoError(t, err)
	assert.Equal(t, "Policies", ds.Sheet)
	assert.Equal(t, 2, ds.Len())

	ds, err = LoadXLSX(path, Options{SheetIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, "Summary", ds.Sheet)

	_, err = LoadXLSX(path, Options{SheetName: "Missing"})
	var se *SourceUnavailableError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Contains(t, err.Error(), "Available sheets: Summary, Policies")

	_, err = LoadXLSX(path, Options{SheetIndex: 5})
	require.True(t, errors.As(err, &se), "got %v", err)
}

func TestLoadXLSXHeaderOnly(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{{"A", "B"}})
	ds, err := LoadXLSX(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestLoadXLSXEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := LoadXLSX(path, Options{})
	var me *MalformedSourceError
	require.True(t, errors.As(err, &me), "got %v", err)
}

func TestLoadXLSXCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	_, err := LoadXLSX(path, Options{})
	var se *SourceUnavailableError
	require.True(t, errors.As(err, &se), "got %v", err)
}
