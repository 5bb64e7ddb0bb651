package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/dqaudit/internal/config"
	"github.com/KaramelBytes/dqaudit/internal/schema"
	"github.com/spf13/cobra"
)

var cfgInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dqaudit configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sentinel: %s\n", c.Sentinel)
		fmt.Fprintf(out, "sample_size: %d\n", c.SampleSize)
		if c.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", c.SheetIndex)
		fmt.Fprintf(out, "format: %s\n", c.Format)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "concurrent: %t\n", c.Concurrent)
		fmt.Fprintln(out, "schema:")
		b := c.Schema.Bindings()
		fields := make([]schema.Field, 0, len(b))
		for f := range b {
			fields = append(fields, f)
		}
		sort.Slice(fields, func(i, j int) bool {
			if b[fields[i]] != b[fields[j]] {
				return b[fields[i]] < b[fields[j]]
			}
			return fields[i] < fields[j]
		})
		for _, f := range fields {
			fmt.Fprintf(out, "  %s: %d\n", f, b[f])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := requireConfig()
		if err != nil {
			return err
		}
		next := *c
		if err := applySetting(&next, key, val); err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if _, err := next.ColumnSchema(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			dir, err := cfgpkg.Dir()
			if err != nil {
				return err
			}
			path = filepath.Join(dir, "config.yaml")
		}
		if _, err := os.Stat(path); err == nil && !cfgInitForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := cfgpkg.Save(cfgpkg.Defaults(), cfgFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote default config to %s\n", path)
		return nil
	},
}

func applySetting(c *cfgpkg.Global, key, val string) error {
	if field, ok := strings.CutPrefix(key, "schema."); ok {
		pos, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid column for %s: %v", key, val)
		}
		return c.Schema.Set(field, pos)
	}
	switch key {
	case "sentinel":
		c.Sentinel = strings.TrimSpace(val)
	case "sample_size":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for sample_size: %w", err)
		}
		c.SampleSize = i
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for sheet_index: %w", err)
		}
		c.SheetIndex = i
	case "format":
		c.Format = strings.ToLower(val)
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "concurrent":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for concurrent: %w", err)
		}
		c.Concurrent = b
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&cfgInitForce, "force", false, "overwrite an existing config file")
}
