package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/dqaudit/internal/quality"
	"github.com/KaramelBytes/dqaudit/internal/report"
	"github.com/KaramelBytes/dqaudit/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	abOutputDir string
	abCombined  bool
	abQuiet     bool
	abFlags     auditFlags
)

var auditBatchCmd = &cobra.Command{
	Use:   "audit-batch <files...>",
	Short: "Audit multiple XLSX/CSV exports with progress, per-file or combined reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}
		st, err := abFlags.settings(cmd, c)
		if err != nil {
			return err
		}
		if abOutputDir != "" {
			if err := utils.EnsureDir(abOutputDir); err != nil {
				return err
			}
		}
		// stdout carries only reports; progress goes to stderr.
		progress := cmd.ErrOrStderr()
		total := len(files)

		if abCombined {
			var merged *quality.Result
			var sources []string
			for i, path := range files {
				if !abQuiet {
					fmt.Fprintf(progress, "[%d/%d] Scanning %s...\n", i+1, total, filepath.Base(path))
				}
				_, res, err := scanFile(path, st)
				if err != nil {
					return fmt.Errorf("%s: %w", filepath.Base(path), err)
				}
				if merged == nil {
					merged = res
				} else {
					merged.Merge(res)
				}
				sources = append(sources, filepath.Base(path))
			}
			rep := report.Build(merged, report.Options{
				Source:     strings.Join(sources, ", "),
				SampleSize: st.sampleSize,
			})
			body, err := report.Encode(rep, st.format)
			if err != nil {
				return err
			}
			logger.Info("combined audit complete",
				zap.String("run_id", rep.ID),
				zap.Int("files", total),
				zap.Int("rows", merged.Rows))
			return emitReport(cmd, "combined", st.format, body)
		}

		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(progress, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			_, body, err := auditFile(path, st)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			base := filepath.Base(path)
			name := utils.SafeBase(strings.TrimSuffix(base, filepath.Ext(base)))
			if st.sheetName != "" {
				name += "__sheet-" + utils.SafeBase(st.sheetName)
			}
			if err := emitReport(cmd, name, st.format, body); err != nil {
				return err
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// emitReport writes body under --output-dir as name plus the format's
// extension, or to stdout when no directory was given. name must already be
// a safe file base.
func emitReport(cmd *cobra.Command, name, format string, body []byte) error {
	out := cmd.OutOrStdout()
	if abOutputDir == "" {
		_, err := out.Write(body)
		return err
	}
	dest := utils.UniquePath(abOutputDir, name, formatExt(format))
	if err := utils.SafeWriteFile(dest, body); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if !abQuiet {
		fmt.Fprintf(out, "✓ Wrote %s\n", dest)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(auditBatchCmd)
	auditBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "directory for per-file reports (stdout if omitted)")
	auditBatchCmd.Flags().BoolVar(&abCombined, "combined", false, "merge all inputs into a single report")
	auditBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	abFlags.register(auditBatchCmd)
}
