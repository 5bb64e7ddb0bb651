package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dqaudit/internal/dataset"
	"github.com/KaramelBytes/dqaudit/internal/schema"
	"github.com/spf13/cobra"
)

var (
	inRows       int
	inSheetName  string
	inSheetIndex int
	inDelimiter  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the header, column bindings and first rows of an export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		s, err := c.ColumnSchema()
		if err != nil {
			return fmt.Errorf("column schema: %w", err)
		}
		delim, err := parseDelimiter(inDelimiter)
		if err != nil {
			return err
		}
		opt := dataset.Options{
			SheetName:  c.SheetName,
			SheetIndex: c.SheetIndex,
			Delimiter:  delim,
			Logger:     logger,
		}
		if cmd.Flags().Changed("sheet-name") {
			opt.SheetName = inSheetName
		}
		if cmd.Flags().Changed("sheet-index") {
			opt.SheetIndex = inSheetIndex
		}
		ds, err := dataset.Open(args[0], opt)
		if err != nil {
			return err
		}

		byPos := map[int]schema.Field{}
		for f, p := range s.Bindings() {
			byPos[p] = f
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Source: %s\n", ds.Source)
		if ds.Sheet != "" {
			fmt.Fprintf(out, "Sheet: %s\n", ds.Sheet)
		}
		fmt.Fprintf(out, "Columns: %d  Rows: %d\n\n", ds.Arity(), ds.Len())
		for i, h := range ds.Header {
			line := fmt.Sprintf("%2d. %s", i+1, h)
			if f, ok := byPos[i+1]; ok {
				line += fmt.Sprintf("  -> %s", f)
			}
			fmt.Fprintln(out, line)
		}
		if f, ok := s.Fits(ds.Arity()); !ok {
			p, _ := s.PositionOf(f)
			fmt.Fprintf(out, "\n⚠ %s is bound to column %d but the file has %d columns\n", f, p, ds.Arity())
		}

		n := inRows
		if n > ds.Len() {
			n = ds.Len()
		}
		for r := 0; r < n; r++ {
			fmt.Fprintf(out, "\n[row %d]\n", r+2)
			for i, h := range ds.Header {
				v := ds.Rows[r].At(i + 1)
				val := v.Raw
				if v.IsNull() {
					val = "(null)"
				}
				fmt.Fprintf(out, "  %s: %s\n", strings.TrimSpace(h), val)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inRows, "rows", 3, "number of data rows to print")
	inspectCmd.Flags().StringVar(&inSheetName, "sheet-name", "", "XLSX: sheet name to inspect")
	inspectCmd.Flags().IntVar(&inSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (0 = active sheet)")
	inspectCmd.Flags().StringVar(&inDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
}
