package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/dqaudit/internal/utils"
	"gopkg.in/yaml.v3"
)

// Formats accepted by Encode.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatMarkdown, FormatJSON, FormatYAML}

const bannerWidth = 80

// CheckFormat reports whether format is one Encode accepts.
func CheckFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText, FormatMarkdown, "md", FormatJSON, FormatYAML, "yml":
		return nil
	}
	return fmt.Errorf("unsupported format %q (use %s)", format, strings.Join(Formats, "|"))
}

// Encode renders r in the requested format.
func Encode(r *Report, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		var b bytes.Buffer
		if err := r.WriteText(&b); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case FormatMarkdown, "md":
		return []byte(r.Markdown()), nil
	case FormatJSON:
		return utils.PrettyJSON(r)
	case FormatYAML, "yml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	}
	return nil, CheckFormat(format)
}

// WriteText renders the banner-delimited plain text report.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)
	title := "DATA QUALITY REPORT"
	if r.Source != "" {
		title += " - " + r.Source
	}
	if r.Sheet != "" {
		title += fmt.Sprintf(" (sheet: %s)", r.Sheet)
	}
	fmt.Fprintf(&b, "%s\n%s\n%s\n", banner, title, banner)

	for _, s := range r.Sections {
		heading := strings.ToUpper(s.Title)
		switch {
		case s.Key == KeyCustomerSample:
			heading = fmt.Sprintf("%s (first %d of %d)", heading, len(s.Values), s.Total)
		case s.Kind == KindList:
			heading = fmt.Sprintf("%s (%d)", heading, s.Total)
		}
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n", banner, heading, banner)
		switch s.Kind {
		case KindCounts:
			if len(s.Counts) == 0 {
				b.WriteString("  (none)\n")
			}
			for _, c := range s.Counts {
				fmt.Fprintf(&b, "  %s: %d\n", c.Label, c.Value)
			}
		case KindList:
			if len(s.Values) == 0 {
				b.WriteString("  (none)\n")
			}
			for i, v := range s.Values {
				fmt.Fprintf(&b, "%2d. %s\n", i+1, v)
			}
		case KindDistribution:
			if len(s.Distribution) == 0 {
				b.WriteString("  (none)\n")
			}
			for _, d := range s.Distribution {
				fmt.Fprintf(&b, "  %d chars: %3d rows (%5.1f%%)\n", d.Key, d.Count, d.Percent)
			}
		}
	}
	fmt.Fprintf(&b, "\n%s\n", banner)
	_, err := io.WriteString(w, b.String())
	return err
}

// Markdown renders a compact bracketed-section summary.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATA QUALITY REPORT]\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Source))
	}
	if r.Sheet != "" {
		b.WriteString(fmt.Sprintf("Sheet: %s\n", r.Sheet))
	}
	if r.ID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.ID))
	}
	for _, s := range r.Sections {
		b.WriteString(fmt.Sprintf("\n[%s]\n", strings.ToUpper(s.Title)))
		switch s.Kind {
		case KindCounts:
			for _, c := range s.Counts {
				b.WriteString(fmt.Sprintf("- %s: %d\n", c.Label, c.Value))
			}
		case KindList:
			if s.Key == KeyCustomerSample {
				b.WriteString(fmt.Sprintf("showing %d of %d\n", len(s.Values), s.Total))
			} else {
				b.WriteString(fmt.Sprintf("distinct: %d\n", s.Total))
			}
			for i, v := range s.Values {
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, safeVal(v)))
			}
		case KindDistribution:
			if len(s.Distribution) > 0 {
				b.WriteString("| length | rows | % of all rows |\n| --- | --- | --- |\n")
			}
			for _, d := range s.Distribution {
				b.WriteString(fmt.Sprintf("| %d | %d | %.1f%% |\n", d.Key, d.Count, d.Percent))
			}
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
