package result

import (
	"math"
	"sort"
)

// Metric is a single named metric value.
type Metric struct {
	Name  string
	Value float64
}

// MetricSet is a validated, immutable collection of named metric values.
// Enumeration order is the construction order; lookup is by exact
// (case-sensitive) name.
type MetricSet struct {
	metrics []Metric
	index   map[string]int
}

// NewMetricSet validates metrics and builds a set preserving their order.
// It fails if the slice is empty, a name is empty or repeated, or a value
// is NaN or infinite.
func NewMetricSet(metrics []Metric) (MetricSet, error) {
	if len(metrics) == 0 {
		return MetricSet{}, validationErrorf("results", "at least one metric is required")
	}
	set := MetricSet{
		metrics: make([]Metric, 0, len(metrics)),
		index:   make(map[string]int, len(metrics)),
	}
	for _, m := range metrics {
		if m.Name == "" {
			return MetricSet{}, validationErrorf("results", "metric name must not be empty")
		}
		if _, dup := set.index[m.Name]; dup {
			return MetricSet{}, validationErrorf("results", "duplicate metric %q", m.Name)
		}
		if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
			return MetricSet{}, validationErrorf("results", "metric %q is not a finite number", m.Name)
		}
		set.index[m.Name] = len(set.metrics)
		set.metrics = append(set.metrics, m)
	}
	return set, nil
}

// MetricSetFromMap builds a set from a name to value map, ordering metrics
// by name so the result is deterministic regardless of map iteration.
func MetricSetFromMap(values map[string]float64) (MetricSet, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	metrics := make([]Metric, 0, len(names))
	for _, name := range names {
		metrics = append(metrics, Metric{Name: name, Value: values[name]})
	}
	return NewMetricSet(metrics)
}

// Len returns the number of metrics in the set.
func (s MetricSet) Len() int { return len(s.metrics) }

// Value looks up a metric by exact name.
func (s MetricSet) Value(name string) (float64, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.metrics[i].Value, true
}

// Metrics returns the metrics in enumeration order. The slice is a copy.
func (s MetricSet) Metrics() []Metric {
	out := make([]Metric, len(s.metrics))
	copy(out, s.metrics)
	return out
}

// Map returns the metrics as a name to value map.
func (s MetricSet) Map() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name] = m.Value
	}
	return out
}
