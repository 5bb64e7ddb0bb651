package quality

import (
	"strings"

	"github.com/KaramelBytes/dqaudit/internal/dataset"
	"github.com/KaramelBytes/dqaudit/internal/schema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSentinel marks a policy that has been quoted but not yet bound.
const DefaultSentinel = "POTANSİYEL"

// Rule names, in report order.
const (
	RuleMissingCustomer = "missing_customer"
	RulePotentialPolicy = "potential_policy"
	RuleMissingDates    = "missing_dates"
	RuleNullPremium     = "null_premium"
	RuleNullCommission  = "null_commission"
)

// RuleNames lists the built-in rules in report order.
var RuleNames = []string{
	RuleMissingCustomer,
	RulePotentialPolicy,
	RuleMissingDates,
	RuleNullPremium,
	RuleNullCommission,
}

// Rule is a named predicate over one row.
type Rule struct {
	Name  string
	Label string
	Match func(dataset.Row) bool
}

// RuleLabel returns the display label of a built-in rule.
func RuleLabel(name string) string {
	switch name {
	case RuleMissingCustomer:
		return "Missing customer name"
	case RulePotentialPolicy:
		return "Potential policy (no policy number)"
	case RuleMissingDates:
		return "Missing start/end date"
	case RuleNullPremium:
		return "Null premium"
	case RuleNullCommission:
		return "Null commission"
	}
	return name
}

// MissingValue reports a cell that is null or empty after trimming.
func MissingValue(c dataset.Cell) bool { return c.Blank() }

// NullValue reports a cell with no value at all. Zero and whitespace are
// present values.
func NullValue(c dataset.Cell) bool { return c.IsNull() }

// SentinelMatcher reports policy numbers that are missing or equal to a
// sentinel, compared with Turkish case rules (i/İ, ı/I). The sentinel is
// upper-cased once. A matcher is not safe for concurrent use.
type SentinelMatcher struct {
	upper cases.Caser
	want  string
}

// NewSentinelMatcher builds a matcher for sentinel, ignoring surrounding
// whitespace.
func NewSentinelMatcher(sentinel string) *SentinelMatcher {
	upper := cases.Upper(language.Turkish)
	return &SentinelMatcher{upper: upper, want: upper.String(strings.TrimSpace(sentinel))}
}

// Match reports whether c is blank or equals the sentinel.
func (m *SentinelMatcher) Match(c dataset.Cell) bool {
	if c.Blank() {
		return true
	}
	return m.upper.String(c.Text()) == m.want
}

// PotentialPolicy is a one-off SentinelMatcher check.
func PotentialPolicy(c dataset.Cell, sentinel string) bool {
	return NewSentinelMatcher(sentinel).Match(c)
}

// MissingDates reports a row lacking either the start or the end date.
func MissingDates(start, end dataset.Cell) bool {
	return start.Blank() || end.Blank()
}

// DefaultRules binds the built-in rules to the schema's columns. An empty
// sentinel falls back to DefaultSentinel.
func DefaultRules(s *schema.Schema, sentinel string) ([]Rule, error) {
	if strings.TrimSpace(sentinel) == "" {
		sentinel = DefaultSentinel
	}
	pos, err := positions(s, schema.CustomerName, schema.PolicyNumber, schema.StartDate, schema.EndDate, schema.Premium, schema.Commission)
	if err != nil {
		return nil, err
	}
	customer, policy, start, end, premium, commission := pos[0], pos[1], pos[2], pos[3], pos[4], pos[5]
	potential := NewSentinelMatcher(sentinel)
	return []Rule{
		{
			Name:  RuleMissingCustomer,
			Label: RuleLabel(RuleMissingCustomer),
			Match: func(r dataset.Row) bool { return MissingValue(r.At(customer)) },
		},
		{
			Name:  RulePotentialPolicy,
			Label: RuleLabel(RulePotentialPolicy),
			Match: func(r dataset.Row) bool { return potential.Match(r.At(policy)) },
		},
		{
			Name:  RuleMissingDates,
			Label: RuleLabel(RuleMissingDates),
			Match: func(r dataset.Row) bool { return MissingDates(r.At(start), r.At(end)) },
		},
		{
			Name:  RuleNullPremium,
			Label: RuleLabel(RuleNullPremium),
			Match: func(r dataset.Row) bool { return NullValue(r.At(premium)) },
		},
		{
			Name:  RuleNullCommission,
			Label: RuleLabel(RuleNullCommission),
			Match: func(r dataset.Row) bool { return NullValue(r.At(commission)) },
		},
	}, nil
}

func positions(s *schema.Schema, fields ...schema.Field) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		p, err := s.PositionOf(f)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
