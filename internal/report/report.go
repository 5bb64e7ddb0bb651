package report

import (
	"math"
	"time"

	"github.com/KaramelBytes/dqaudit/internal/quality"
	"github.com/KaramelBytes/dqaudit/internal/schema"
	"github.com/google/uuid"
)

// SectionKind tells which payload a Section carries.
type SectionKind string

const (
	KindCounts       SectionKind = "counts"
	KindList         SectionKind = "list"
	KindDistribution SectionKind = "distribution"
)

// Section keys, in report order.
const (
	KeyOverview       = "overview"
	KeyIDLengths      = "id_lengths"
	KeyCustomerSample = "customer_sample"
	KeyDefects        = "defects"
)

// InventoryKey is the section key for a categorical field inventory.
func InventoryKey(f schema.Field) string { return "inventory." + string(f) }

// InventoryFields are listed in the report, in order. Customer names are
// summarized by the overview count and the sample instead.
var InventoryFields = []schema.Field{
	schema.Salesperson,
	schema.Company,
	schema.PolicyType,
	schema.CustomerType,
}

// DefaultSampleSize is how many customer names the sample section shows.
const DefaultSampleSize = 10

// Report is the ordered, immutable result of one audit.
type Report struct {
	ID          string    `json:"id" yaml:"id"`
	Source      string    `json:"source" yaml:"source"`
	Sheet       string    `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// Section is one titled block of the report.
type Section struct {
	Key          string      `json:"key" yaml:"key"`
	Title        string      `json:"title" yaml:"title"`
	Kind         SectionKind `json:"kind" yaml:"kind"`
	Counts       []Count     `json:"counts,omitempty" yaml:"counts,omitempty"`
	Values       []string    `json:"values,omitempty" yaml:"values,omitempty"`
	Distribution []Share     `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	// Total is the distinct count for lists and the row count for
	// distributions.
	Total int `json:"total" yaml:"total"`
}

// Count is a named scalar.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
}

// Share is one bucket of a distribution with its percentage of all rows.
type Share struct {
	Key     int     `json:"key" yaml:"key"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Options controls report metadata and the sample size.
type Options struct {
	ID         string
	Source     string
	Sheet      string
	SampleSize int
	Now        func() time.Time
}

// Section returns the section with key, or nil.
func (r *Report) Section(key string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Key == key {
			return &r.Sections[i]
		}
	}
	return nil
}

// Build turns frozen scan results into a report. It does no classification of
// its own.
func Build(res *quality.Result, opt Options) *Report {
	id := opt.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}
	sample := opt.SampleSize
	if sample <= 0 {
		sample = DefaultSampleSize
	}
	customers := snapshot(res, schema.CustomerName)

	rep := &Report{ID: id, Source: opt.Source, Sheet: opt.Sheet, GeneratedAt: now().UTC()}
	rep.Sections = append(rep.Sections, Section{
		Key:   KeyOverview,
		Title: "Overview",
		Kind:  KindCounts,
		Counts: []Count{
			{Name: "rows", Label: "Total rows", Value: res.Rows},
			{Name: "distinct_customers", Label: "Distinct customers", Value: len(customers)},
		},
	})
	for _, f := range InventoryFields {
		vals := snapshot(res, f)
		rep.Sections = append(rep.Sections, Section{
			Key:    InventoryKey(f),
			Title:  inventoryTitle(f),
			Kind:   KindList,
			Values: vals,
			Total:  len(vals),
		})
	}
	rep.Sections = append(rep.Sections, Section{
		Key:          KeyIDLengths,
		Title:        "National ID Length Distribution",
		Kind:         KindDistribution,
		Distribution: shares(res.IDLengths, res.Rows),
		Total:        res.Rows,
	})
	head := customers
	if len(head) > sample {
		head = head[:sample]
	}
	rep.Sections = append(rep.Sections, Section{
		Key:    KeyCustomerSample,
		Title:  "Sample Customers",
		Kind:   KindList,
		Values: head,
		Total:  len(customers),
	})
	var defects []Count
	if res.Defects != nil {
		for _, d := range res.Defects.Snapshot() {
			defects = append(defects, Count{Name: d.Rule, Label: quality.RuleLabel(d.Rule), Value: d.Count})
		}
	}
	rep.Sections = append(rep.Sections, Section{
		Key:    KeyDefects,
		Title:  "Data Quality Checks",
		Kind:   KindCounts,
		Counts: defects,
	})
	return rep
}

func snapshot(res *quality.Result, f schema.Field) []string {
	if s, ok := res.Categorical[f]; ok && s != nil {
		return s.Snapshot()
	}
	return []string{}
}

// shares computes each bucket as a percentage of total, rounded to one
// decimal place.
func shares(fc *quality.FrequencyCounter, total int) []Share {
	if fc == nil {
		return nil
	}
	var out []Share
	for _, b := range fc.Snapshot() {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(b.Count)/float64(total)*1000) / 10
		}
		out = append(out, Share{Key: b.Key, Count: b.Count, Percent: pct})
	}
	return out
}

func inventoryTitle(f schema.Field) string {
	switch f {
	case schema.Salesperson:
		return "Salespeople"
	case schema.Company:
		return "Insurance Companies"
	case schema.PolicyType:
		return "Policy Types"
	case schema.CustomerType:
		return "Customer Types"
	}
	return f.Label()
}
