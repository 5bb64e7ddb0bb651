package quality

import "sort"

// DistinctSet collects unique normalized values. Snapshot is sorted so output
// does not depend on row order.
type DistinctSet struct {
	values map[string]struct{}
}

// NewDistinctSet returns an empty set.
func NewDistinctSet() *DistinctSet {
	return &DistinctSet{values: make(map[string]struct{})}
}

// Record adds v to the set.
func (s *DistinctSet) Record(v string) { s.values[v] = struct{}{} }

// Len returns the number of distinct values.
func (s *DistinctSet) Len() int { return len(s.values) }

// Merge adds every value of o to s.
func (s *DistinctSet) Merge(o *DistinctSet) {
	for v := range o.values {
		s.values[v] = struct{}{}
	}
}

// Snapshot returns the values in lexicographic (byte) order.
func (s *DistinctSet) Snapshot() []string {
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Bucket is one entry of a FrequencyCounter snapshot.
type Bucket struct {
	Key   int `json:"key" yaml:"key"`
	Count int `json:"count" yaml:"count"`
}

// FrequencyCounter counts occurrences per integer key.
type FrequencyCounter struct {
	counts map[int]int
}

// NewFrequencyCounter returns an empty counter.
func NewFrequencyCounter() *FrequencyCounter {
	return &FrequencyCounter{counts: make(map[int]int)}
}

// Increment adds one to key.
func (c *FrequencyCounter) Increment(key int) { c.counts[key]++ }

// Sum is the total of all counts.
func (c *FrequencyCounter) Sum() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

// Merge adds every count of o to c.
func (c *FrequencyCounter) Merge(o *FrequencyCounter) {
	for k, v := range o.counts {
		c.counts[k] += v
	}
}

// Snapshot returns buckets sorted by key.
func (c *FrequencyCounter) Snapshot() []Bucket {
	out := make([]Bucket, 0, len(c.counts))
	for k, v := range c.counts {
		out = append(out, Bucket{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DefectCount is one entry of a DefectCounter snapshot.
type DefectCount struct {
	Rule  string `json:"rule" yaml:"rule"`
	Count int    `json:"count" yaml:"count"`
}

// DefectCounter counts rows per defect rule. Rules are registered up front so
// the snapshot keeps their order and reports rules that never fired.
type DefectCounter struct {
	order  []string
	counts map[string]int
}

// NewDefectCounter registers rules in the given order, each at zero.
func NewDefectCounter(rules ...string) *DefectCounter {
	c := &DefectCounter{counts: make(map[string]int, len(rules))}
	for _, r := range rules {
		c.register(r)
	}
	return c
}

func (c *DefectCounter) register(rule string) {
	if _, ok := c.counts[rule]; ok {
		return
	}
	c.order = append(c.order, rule)
	c.counts[rule] = 0
}

// Increment adds one to rule. Unregistered rules are appended to the order.
func (c *DefectCounter) Increment(rule string) {
	c.register(rule)
	c.counts[rule]++
}

// Count returns the current count for rule.
func (c *DefectCounter) Count(rule string) int { return c.counts[rule] }

// Merge adds o into c. Rules unknown to c are appended in o's order.
func (c *DefectCounter) Merge(o *DefectCounter) {
	for _, r := range o.order {
		c.register(r)
		c.counts[r] += o.counts[r]
	}
}

// Snapshot returns counts in rule registration order.
func (c *DefectCounter) Snapshot() []DefectCount {
	out := make([]DefectCount, len(c.order))
	for i, r := range c.order {
		out[i] = DefectCount{Rule: r, Count: c.counts[r]}
	}
	return out
}
