package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/dqaudit/internal/dataset"
	"github.com/KaramelBytes/dqaudit/internal/quality"
	"github.com/KaramelBytes/dqaudit/internal/schema"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func scan(t *testing.T, recs ...map[schema.Field]string) *quality.Result {
	t.Helper()
	s := schema.Default()
	header := make([]string, s.MaxPosition())
	records := make([][]string, 0, len(recs))
	for i := range header {
		header[i] = fmt.Sprintf("C%d", i+1)
	}
	for _, r := range recs {
		row := make([]string, len(header))
		for f, v := range r {
			p, _ := s.PositionOf(f)
			row[p-1] = v
		}
		records = append(records, row)
	}
	ds, err := dataset.FromRecords("policies.xlsx", header, records, false)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	res, err := quality.Scan(ds, s, quality.ScanOptions{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return res
}

func TestBuildSectionOrder(t *testing.T) {
	rep := Build(scan(t), Options{ID: "run-1", Now: fixedNow})
	var keys []string
	for _, s := range rep.Sections {
		keys = append(keys, s.Key)
	}
	want := []string{
		KeyOverview,
		"inventory.salesperson",
		"inventory.company",
		"inventory.policy_type",
		"inventory.customer_type",
		KeyIDLengths,
		KeyCustomerSample,
		KeyDefects,
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEmptyDataset(t *testing.T) {
	rep := Build(scan(t), Options{ID: "run-1", Now: fixedNow})
	ov := rep.Section(KeyOverview)
	want := []Count{
		{Name: "rows", Label: "Total rows", Value: 0},
		{Name: "distinct_customers", Label: "Distinct customers", Value: 0},
	}
	if diff := cmp.Diff(want, ov.Counts); diff != "" {
		t.Fatalf("overview mismatch (-want +got):\n%s", diff)
	}
	if d := rep.Section(KeyIDLengths); len(d.Distribution) != 0 {
		t.Fatalf("expected empty distribution, got %v", d.Distribution)
	}
	def := rep.Section(KeyDefects)
	if len(def.Counts) != len(quality.RuleNames) {
		t.Fatalf("expected %d defect rows, got %d", len(quality.RuleNames), len(def.Counts))
	}
	for _, c := range def.Counts {
		if c.Value != 0 {
			t.Fatalf("%s = %d on empty dataset", c.Name, c.Value)
		}
	}
	out, err := Encode(rep, FormatText)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(out), "Total rows: 0") {
		t.Fatalf("text missing zero rows:\n%s", out)
	}
}

func TestLengthPercentagesAreOfAllRows(t *testing.T) {
	res := scan(t,
		map[schema.Field]string{schema.NationalID: "12345"},
		map[schema.Field]string{schema.NationalID: "123456789012"},
		map[schema.Field]string{},
		map[schema.Field]string{schema.NationalID: "12345"},
	)
	rep := Build(res, Options{Now: fixedNow})
	d := rep.Section(KeyIDLengths)
	want := []Share{{Key: 5, Count: 2, Percent: 50.0}, {Key: 12, Count: 1, Percent: 25.0}}
	if diff := cmp.Diff(want, d.Distribution); diff != "" {
		t.Fatalf("distribution mismatch (-want +got):\n%s", diff)
	}
	if d.Total != 4 {
		t.Fatalf("total = %d, want 4", d.Total)
	}
}

func TestPercentagesRoundToOneDecimal(t *testing.T) {
	res := scan(t,
		map[schema.Field]string{schema.NationalID: "1"},
		map[schema.Field]string{schema.NationalID: "22"},
		map[schema.Field]string{schema.NationalID: "22"},
	)
	d := Build(res, Options{Now: fixedNow}).Section(KeyIDLengths)
	sum := 0.0
	for _, s := range d.Distribution {
		if s.Percent < 0 || s.Percent > 100 {
			t.Fatalf("percent out of range: %v", s)
		}
		sum += s.Percent
	}
	if d.Distribution[0].Percent != 33.3 || d.Distribution[1].Percent != 66.7 {
		t.Fatalf("unexpected rounding: %+v", d.Distribution)
	}
	if math.Abs(sum-100) > float64(len(d.Distribution))*0.05 {
		t.Fatalf("percentages sum to %.2f", sum)
	}
}

func TestCustomerSampleLimitedAndSorted(t *testing.T) {
	var recs []map[schema.Field]string
	for i := 15; i >= 1; i-- {
		recs = append(recs, map[schema.Field]string{schema.CustomerName: fmt.Sprintf("Customer %02d", i)})
	}
	rep := Build(scan(t, recs...), Options{Now: fixedNow})
	s := rep.Section(KeyCustomerSample)
	if len(s.Values) != DefaultSampleSize || s.Total != 15 {
		t.Fatalf("sample = %d of %d", len(s.Values), s.Total)
	}
	if s.Values[0] != "Customer 01" || s.Values[9] != "Customer 10" {
		t.Fatalf("sample not sorted: %v", s.Values)
	}
	if got := rep.Section(KeyOverview).Counts[1].Value; got != 15 {
		t.Fatalf("distinct customers = %d", got)
	}

	small := Build(scan(t, recs...), Options{Now: fixedNow, SampleSize: 3}).Section(KeyCustomerSample)
	if len(small.Values) != 3 {
		t.Fatalf("sample size 3 gave %d", len(small.Values))
	}
}

func TestWriteTextLayout(t *testing.T) {
	res := scan(t,
		map[schema.Field]string{
			schema.CustomerName: "Acme", schema.Salesperson: "Zeynep", schema.Company: "Allianz",
			schema.NationalID: "12345678901", schema.PolicyNumber: "POTANSİYEL",
		},
		map[schema.Field]string{schema.CustomerName: "Beta", schema.Salesperson: "Ali", schema.Premium: "0"},
	)
	rep := Build(res, Options{Source: "DATA.XLSX", Sheet: "Sheet1", Now: fixedNow})
	out, err := Encode(rep, "text")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	text := string(out)
	banner := strings.Repeat("=", 80)
	for _, want := range []string{
		banner,
		"DATA QUALITY REPORT - DATA.XLSX (sheet: Sheet1)\n" + banner + "\n\n" + banner + "\nOVERVIEW\n" + banner + "\n  Total rows: 2\n",
		"Distinct customers: 2",
		"SALESPEOPLE (2)\n" + banner + "\n 1. Ali\n 2. Zeynep\n",
		"POLICY TYPES (0)\n" + banner + "\n  (none)\n",
		"  11 chars:   1 rows ( 50.0%)",
		"SAMPLE CUSTOMERS (first 2 of 2)",
		"Potential policy (no policy number): 2",
		"Null premium: 1",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q:\n%s", want, text)
		}
	}
	order := []string{"OVERVIEW", "SALESPEOPLE", "INSURANCE COMPANIES", "POLICY TYPES", "CUSTOMER TYPES", "NATIONAL ID LENGTH", "SAMPLE CUSTOMERS", "DATA QUALITY CHECKS"}
	last := -1
	for _, h := range order {
		i := strings.Index(text, h)
		if i <= last {
			t.Fatalf("section %q out of order", h)
		}
		last = i
	}
}

func TestEncodeStructured(t *testing.T) {
	rep := Build(scan(t, map[schema.Field]string{schema.CustomerName: "Acme"}), Options{ID: "run-1", Source: "x.csv", Now: fixedNow})

	js, err := Encode(rep, FormatJSON)
	if err != nil {
		t.Fatalf("Encode json: %v", err)
	}
	var back Report
	if err := json.Unmarshal(js, &back); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}
	if back.ID != "run-1" || len(back.Sections) != len(rep.Sections) {
		t.Fatalf("json lost data: %+v", back)
	}

	ym, err := Encode(rep, FormatYAML)
	if err != nil {
		t.Fatalf("Encode yaml: %v", err)
	}
	var node map[string]any
	if err := yaml.Unmarshal(ym, &node); err != nil {
		t.Fatalf("unmarshal yaml: %v", err)
	}
	if node["source"] != "x.csv" {
		t.Fatalf("yaml source = %v", node["source"])
	}

	md, err := Encode(rep, FormatMarkdown)
	if err != nil {
		t.Fatalf("Encode markdown: %v", err)
	}
	if !strings.Contains(string(md), "[DATA QUALITY CHECKS]") {
		t.Fatalf("markdown missing defects:\n%s", md)
	}

	if _, err := Encode(rep, "xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestBuildGeneratesID(t *testing.T) {
	a := Build(scan(t), Options{})
	b := Build(scan(t), Options{})
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
}
