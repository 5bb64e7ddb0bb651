package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Field is the semantic name of a column in a policy export.
type Field string

const (
	CustomerType Field = "customer_type"
	CustomerName Field = "customer_name"
	NationalID   Field = "national_id"
	PolicyType   Field = "policy_type"
	PolicyNumber Field = "policy_number"
	StartDate    Field = "start_date"
	EndDate      Field = "end_date"
	Premium      Field = "premium"
	Salesperson  Field = "salesperson"
	Commission   Field = "commission"
	Company      Field = "company"
)

// Fields lists every semantic field in column order of the default layout.
var Fields = []Field{
	CustomerType, CustomerName, NationalID, PolicyType, PolicyNumber,
	StartDate, EndDate, Premium, Salesperson, Commission, Company,
}

// Label returns a human-readable name for the field.
func (f Field) Label() string {
	switch f {
	case CustomerType:
		return "Customer Type"
	case CustomerName:
		return "Customer"
	case NationalID:
		return "National ID"
	case PolicyType:
		return "Policy Type"
	case PolicyNumber:
		return "Policy Number"
	case StartDate:
		return "Start Date"
	case EndDate:
		return "End Date"
	case Premium:
		return "Premium"
	case Salesperson:
		return "Salesperson"
	case Commission:
		return "Commission"
	case Company:
		return "Company"
	}
	return string(f)
}

// UnknownFieldError is returned when a lookup names a field that has no column.
type UnknownFieldError struct {
	Field Field
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q: no column bound", string(e.Field))
}

// DuplicatePositionError is returned when two fields are bound to one column.
type DuplicatePositionError struct {
	Position int
	Fields   []Field
}

func (e *DuplicatePositionError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("column %d bound to more than one field: %s", e.Position, strings.Join(names, ", "))
}

// Schema maps semantic fields to 1-based column positions.
// It is immutable once constructed.
type Schema struct {
	positions map[Field]int
}

// DefaultPositions is the layout of the policy export the tool was built for.
func DefaultPositions() map[Field]int {
	return map[Field]int{
		CustomerType: 1,
		CustomerName: 2,
		NationalID:   3,
		PolicyType:   5,
		PolicyNumber: 6,
		StartDate:    7,
		EndDate:      8,
		Premium:      10,
		Salesperson:  11,
		Commission:   12,
		Company:      13,
	}
}

// Default returns the schema for DefaultPositions.
func Default() *Schema {
	s, _ := New(DefaultPositions())
	return s
}

// New validates the bindings and returns a Schema. Positions must be >= 1
// and distinct.
func New(bindings map[Field]int) (*Schema, error) {
	byPos := make(map[int][]Field, len(bindings))
	pos := make(map[Field]int, len(bindings))
	for f, p := range bindings {
		if p < 1 {
			return nil, fmt.Errorf("field %q: column position must be >= 1, got %d", string(f), p)
		}
		byPos[p] = append(byPos[p], f)
		pos[f] = p
	}
	dups := make([]int, 0)
	for p, fs := range byPos {
		if len(fs) > 1 {
			dups = append(dups, p)
		}
	}
	if len(dups) > 0 {
		sort.Ints(dups)
		fs := byPos[dups[0]]
		sort.Slice(fs, func(i, j int) bool { return fs[i] < fs[j] })
		return nil, &DuplicatePositionError{Position: dups[0], Fields: fs}
	}
	return &Schema{positions: pos}, nil
}

// PositionOf returns the 1-based column bound to field.
func (s *Schema) PositionOf(field Field) (int, error) {
	p, ok := s.positions[field]
	if !ok {
		return 0, &UnknownFieldError{Field: field}
	}
	return p, nil
}

// MaxPosition is the highest bound column; a dataset narrower than this
// cannot satisfy the schema.
func (s *Schema) MaxPosition() int {
	m := 0
	for _, p := range s.positions {
		if p > m {
			m = p
		}
	}
	return m
}

// Bindings returns a copy of the field bindings.
func (s *Schema) Bindings() map[Field]int {
	out := make(map[Field]int, len(s.positions))
	for f, p := range s.positions {
		out[f] = p
	}
	return out
}

// Fits reports whether every bound column lies within arity. When it does
// not, the field bound furthest out is returned.
func (s *Schema) Fits(arity int) (Field, bool) {
	var worst Field
	worstPos := 0
	for f, p := range s.positions {
		if p > arity && (p > worstPos || (p == worstPos && f < worst)) {
			worst, worstPos = f, p
		}
	}
	return worst, worstPos == 0
}
