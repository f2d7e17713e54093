// Package metrics defines named, self-describing computations and a
// registry to look them up by name.
package metrics

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownMetric is returned when a name is not registered.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric is a named computation from In to Out.
type Metric[In, Out any] interface {
	// Name returns the machine-readable identifier (snake_case, unique).
	Name() string

	// DisplayName returns a human-readable name for reports.
	DisplayName() string

	// Description documents what the metric measures and its units.
	Description() string

	// Type returns the metric category (e.g. "summary", "time_series", "ranking").
	Type() string

	// Compute calculates the metric value.
	Compute(input In) (Out, error)
}

// MetricMeta holds the common metadata for a metric.
// Embed this in metric implementations to satisfy metadata methods.
type MetricMeta struct {
	MetricName        string
	MetricDisplayName string
	MetricDescription string
	MetricType        string
}

// Name returns the machine-readable identifier.
func (m MetricMeta) Name() string { return m.MetricName }

// DisplayName returns a human-readable name.
func (m MetricMeta) DisplayName() string { return m.MetricDisplayName }

// Description returns detailed documentation.
func (m MetricMeta) Description() string { return m.MetricDescription }

// Type returns the metric category.
func (m MetricMeta) Type() string { return m.MetricType }

// Func adapts a plain function into a Metric.
type Func[In, Out any] struct {
	MetricMeta

	Fn func(In) (Out, error)
}

// Compute calls Fn.
func (f Func[In, Out]) Compute(input In) (Out, error) { return f.Fn(input) }

// Registry holds metrics sharing the same input and output types, in
// registration order.
type Registry[In, Out any] struct {
	metrics map[string]Metric[In, Out]
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry[In, Out any]() *Registry[In, Out] {
	return &Registry[In, Out]{metrics: make(map[string]Metric[In, Out])}
}

// Register adds m, replacing any metric with the same name.
func (r *Registry[In, Out]) Register(m Metric[In, Out]) {
	if _, exists := r.metrics[m.Name()]; !exists {
		r.order = append(r.order, m.Name())
	}

	r.metrics[m.Name()] = m
}

// Get retrieves a metric by name.
func (r *Registry[In, Out]) Get(name string) (Metric[In, Out], bool) {
	m, ok := r.metrics[name]

	return m, ok
}

// Names returns all registered names in registration order.
func (r *Registry[In, Out]) Names() []string {
	return slices.Clone(r.order)
}

// All returns all registered metrics in registration order.
func (r *Registry[In, Out]) All() []Metric[In, Out] {
	out := make([]Metric[In, Out], 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.metrics[name])
	}

	return out
}

// Compute runs the named metric.
func (r *Registry[In, Out]) Compute(name string, input In) (Out, error) {
	m, ok := r.metrics[name]
	if !ok {
		var zero Out

		return zero, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}

	return m.Compute(input)
}
