package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	cfgpkg "github.com/KaramelBytes/dqaudit/internal/config"
	"github.com/KaramelBytes/dqaudit/internal/dataset"
	"github.com/KaramelBytes/dqaudit/internal/quality"
	"github.com/KaramelBytes/dqaudit/internal/report"
	"github.com/KaramelBytes/dqaudit/internal/schema"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// auditSettings is the effective configuration for one audit run after
// flags have been applied over the loaded config.
type auditSettings struct {
	schema     *schema.Schema
	sheetName  string
	sheetIndex int
	delimiter  rune
	format     string
	sampleSize int
	sentinel   string
	concurrent bool
}

// auditFlags are the flags shared by audit and audit-batch.
type auditFlags struct {
	sheetName  string
	sheetIndex int
	delimiter  string
	format     string
	sampleSize int
	sentinel   string
	concurrent bool
}

func (f *auditFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to audit")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (0 = active sheet; used if --sheet-name not provided)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: text|markdown|json|yaml (overrides config)")
	cmd.Flags().IntVar(&f.sampleSize, "sample-size", 0, "number of customer names in the sample section (overrides config)")
	cmd.Flags().StringVar(&f.sentinel, "sentinel", "", "placeholder policy number counted as potential (overrides config)")
	cmd.Flags().BoolVar(&f.concurrent, "concurrent", false, "run the aggregation passes in parallel")
}

func (f *auditFlags) settings(cmd *cobra.Command, c *cfgpkg.Global) (auditSettings, error) {
	s, err := c.ColumnSchema()
	if err != nil {
		return auditSettings{}, fmt.Errorf("column schema: %w", err)
	}
	st := auditSettings{
		schema:     s,
		sheetName:  c.SheetName,
		sheetIndex: c.SheetIndex,
		format:     c.Format,
		sampleSize: c.SampleSize,
		sentinel:   c.Sentinel,
		concurrent: c.Concurrent,
	}
	fl := cmd.Flags()
	if fl.Changed("sheet-name") {
		st.sheetName = f.sheetName
	}
	if fl.Changed("sheet-index") {
		if f.sheetIndex < 0 {
			return auditSettings{}, fmt.Errorf("invalid --sheet-index: %d", f.sheetIndex)
		}
		st.sheetIndex = f.sheetIndex
	}
	if fl.Changed("format") {
		st.format = f.format
	}
	if fl.Changed("sample-size") && f.sampleSize > 0 {
		st.sampleSize = f.sampleSize
	}
	if fl.Changed("sentinel") && strings.TrimSpace(f.sentinel) != "" {
		st.sentinel = f.sentinel
	}
	if fl.Changed("concurrent") {
		st.concurrent = f.concurrent
	}
	if st.delimiter, err = parseDelimiter(f.delimiter); err != nil {
		return auditSettings{}, err
	}
	if err := report.CheckFormat(st.format); err != nil {
		return auditSettings{}, err
	}
	return st, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

// scanFile loads path and runs the full scan. Nothing is rendered here so a
// fatal error never leaves a partial report behind.
func scanFile(path string, st auditSettings) (*dataset.Dataset, *quality.Result, error) {
	start := time.Now()
	ds, err := dataset.Open(path, dataset.Options{
		SheetName:  st.sheetName,
		SheetIndex: st.sheetIndex,
		Delimiter:  st.delimiter,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}
	res, err := quality.Scan(ds, st.schema, quality.ScanOptions{
		Sentinel:   st.sentinel,
		Concurrent: st.concurrent,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("scan complete",
		zap.String("file", filepath.Base(path)),
		zap.Int("rows", res.Rows),
		zap.Bool("concurrent", st.concurrent),
		zap.Duration("elapsed", time.Since(start)))
	return ds, res, nil
}

// auditFile scans path and renders the report in the configured format.
func auditFile(path string, st auditSettings) (*report.Report, []byte, error) {
	ds, res, err := scanFile(path, st)
	if err != nil {
		return nil, nil, err
	}
	rep := report.Build(res, report.Options{
		Source:     filepath.Base(path),
		Sheet:      ds.Sheet,
		SampleSize: st.sampleSize,
	})
	out, err := report.Encode(rep, st.format)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("audit complete",
		zap.String("run_id", rep.ID),
		zap.String("file", rep.Source),
		zap.Int("rows", res.Rows))
	return rep, out, nil
}

func formatExt(format string) string {
	switch strings.ToLower(format) {
	case report.FormatJSON:
		return ".json"
	case report.FormatYAML, "yml":
		return ".yaml"
	case report.FormatMarkdown, "md":
		return ".md"
	}
	return ".txt"
}
