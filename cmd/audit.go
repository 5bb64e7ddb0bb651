package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/dqaudit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	auOutputPath string
	auFlags      auditFlags
)

var auditCmd = &cobra.Command{
	Use:   "audit <file>",
	Short: "Audit an XLSX/CSV policy export and print a data quality report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		st, err := auFlags.settings(cmd, c)
		if err != nil {
			return err
		}
		_, out, err := auditFile(args[0], st)
		if err != nil {
			return err
		}
		if auOutputPath != "" {
			if err := utils.EnsureDir(filepath.Dir(auOutputPath)); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(auOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", auOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().StringVarP(&auOutputPath, "output", "o", "", "optional path to write the report")
	auFlags.register(auditCmd)
}
