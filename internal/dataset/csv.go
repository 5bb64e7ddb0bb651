package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LoadCSV reads a delimited text file. The first record is the header;
// every following record must have the header's arity.
func LoadCSV(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceUnavailableError{Path: path, Err: err}
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedSourceError{Path: path, Reason: "missing header row"}
		}
		return nil, malformedFromCSV(path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, malformedFromCSV(path, err)
		}
		records = append(records, rec)
	}
	ds, err := FromRecords(path, header, records, false)
	if err != nil {
		return nil, err
	}
	opt.logger().Debug("loaded csv",
		zap.String("file", filepath.Base(path)),
		zap.String("delimiter", string(delim)),
		zap.Int("columns", ds.Arity()),
		zap.Int("rows", ds.Len()))
	return ds, nil
}

func malformedFromCSV(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &MalformedSourceError{Path: path, Row: pe.Line, Reason: pe.Err.Error()}
	}
	return &SourceUnavailableError{Path: path, Err: fmt.Errorf("read csv: %w", err)}
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
