package dataset

import (
	"strconv"
	"strings"
	"time"
)

// CellKind is the inferred type of a raw cell value.
type CellKind int

const (
	Null CellKind = iota
	Text
	Number
	Date
)

func (k CellKind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Date:
		return "date"
	}
	return "null"
}

// Cell is a single raw value as read from the source.
type Cell struct {
	Kind CellKind
	Raw  string
}

// NewCell classifies raw loader text. Empty text is Null; whitespace-only
// text is kept as Text so that it counts as present for null checks.
func NewCell(raw string) Cell {
	if raw == "" {
		return Cell{Kind: Null}
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return Cell{Kind: Text, Raw: raw}
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return Cell{Kind: Number, Raw: raw}
	}
	if _, ok := parseTimeMaybe(v); ok {
		return Cell{Kind: Date, Raw: raw}
	}
	return Cell{Kind: Text, Raw: raw}
}

// IsNull reports whether the cell holds no value at all.
func (c Cell) IsNull() bool { return c.Kind == Null }

// Blank reports whether the cell is null or empty after trimming.
func (c Cell) Blank() bool { return c.Kind == Null || strings.TrimSpace(c.Raw) == "" }

// Text is the normalized form: surrounding whitespace trimmed. Case is kept.
func (c Cell) Text() string { return strings.TrimSpace(c.Raw) }

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006", "02.01.2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
