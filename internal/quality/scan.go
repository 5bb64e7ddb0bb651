package quality

import (
	"fmt"
	"unicode/utf8"

	"github.com/KaramelBytes/dqaudit/internal/dataset"
	"github.com/KaramelBytes/dqaudit/internal/schema"
	"golang.org/x/sync/errgroup"
)

// CategoricalFields are the fields whose distinct values are collected.
var CategoricalFields = []schema.Field{
	schema.Salesperson,
	schema.Company,
	schema.PolicyType,
	schema.CustomerType,
	schema.CustomerName,
}

// CollectCategorical records the normalized value of each field into its own
// set. Blank cells are skipped.
func CollectCategorical(ds *dataset.Dataset, s *schema.Schema, fields []schema.Field) (map[schema.Field]*DistinctSet, error) {
	pos, err := positions(s, fields...)
	if err != nil {
		return nil, err
	}
	sets := make(map[schema.Field]*DistinctSet, len(fields))
	for _, f := range fields {
		sets[f] = NewDistinctSet()
	}
	for _, row := range ds.Rows {
		for i, f := range fields {
			c := row.At(pos[i])
			if c.Blank() {
				continue
			}
			sets[f].Record(c.Text())
		}
	}
	return sets, nil
}

// CollectLengthDistribution counts the character length of the normalized
// value of field. Blank cells are skipped. Length is measured on the trimmed
// text as-is; separators are not stripped.
func CollectLengthDistribution(ds *dataset.Dataset, s *schema.Schema, field schema.Field) (*FrequencyCounter, error) {
	p, err := s.PositionOf(field)
	if err != nil {
		return nil, err
	}
	fc := NewFrequencyCounter()
	for _, row := range ds.Rows {
		c := row.At(p)
		if c.Blank() {
			continue
		}
		fc.Increment(utf8.RuneCountInString(c.Text()))
	}
	return fc, nil
}

// CollectDefects folds every rule over every row. A row may trigger any
// number of rules; each rule counts a row at most once.
func CollectDefects(ds *dataset.Dataset, rules []Rule) *DefectCounter {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	dc := NewDefectCounter(names...)
	for _, row := range ds.Rows {
		for _, r := range rules {
			if r.Match(row) {
				dc.Increment(r.Name)
			}
		}
	}
	return dc
}

// ScanOptions controls a full scan.
type ScanOptions struct {
	// Sentinel is the placeholder policy number; empty means DefaultSentinel.
	Sentinel string
	// IdentifierField is measured for the length distribution; empty means
	// schema.NationalID.
	IdentifierField schema.Field
	// Concurrent runs the three passes in parallel. Each pass still visits
	// every row exactly once.
	Concurrent bool
}

// Result holds the frozen aggregator state of one scan.
type Result struct {
	Rows        int
	Categorical map[schema.Field]*DistinctSet
	IDLengths   *FrequencyCounter
	Defects     *DefectCounter
}

// Merge adds o into r. Scanning A and B separately and merging equals
// scanning A followed by B.
func (r *Result) Merge(o *Result) {
	r.Rows += o.Rows
	for f, set := range o.Categorical {
		if cur, ok := r.Categorical[f]; ok {
			cur.Merge(set)
			continue
		}
		cp := NewDistinctSet()
		cp.Merge(set)
		r.Categorical[f] = cp
	}
	r.IDLengths.Merge(o.IDLengths)
	r.Defects.Merge(o.Defects)
}

// Scan runs categorical collection, the identifier length distribution and
// the defect rules over ds. Schema problems are reported before any row is
// visited.
func Scan(ds *dataset.Dataset, s *schema.Schema, opt ScanOptions) (*Result, error) {
	idField := opt.IdentifierField
	if idField == "" {
		idField = schema.NationalID
	}
	rules, err := DefaultRules(s, opt.Sentinel)
	if err != nil {
		return nil, err
	}
	if _, err := positions(s, append([]schema.Field{idField}, CategoricalFields...)...); err != nil {
		return nil, err
	}
	if f, ok := s.Fits(ds.Arity()); !ok {
		p, _ := s.PositionOf(f)
		return nil, &dataset.MalformedSourceError{
			Path:   ds.Source,
			Row:    1,
			Reason: fmt.Sprintf("header has %d columns but %s is bound to column %d", ds.Arity(), f, p),
		}
	}

	res := &Result{Rows: ds.Len()}
	if !opt.Concurrent {
		if res.Categorical, err = CollectCategorical(ds, s, CategoricalFields); err != nil {
			return nil, err
		}
		if res.IDLengths, err = CollectLengthDistribution(ds, s, idField); err != nil {
			return nil, err
		}
		res.Defects = CollectDefects(ds, rules)
		return res, nil
	}

	var g errgroup.Group
	g.Go(func() error {
		sets, err := CollectCategorical(ds, s, CategoricalFields)
		res.Categorical = sets
		return err
	})
	g.Go(func() error {
		fc, err := CollectLengthDistribution(ds, s, idField)
		res.IDLengths = fc
		return err
	})
	g.Go(func() error {
		res.Defects = CollectDefects(ds, rules)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
