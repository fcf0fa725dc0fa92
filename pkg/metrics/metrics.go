// Metrics collection for smoothmotion
//
// Counters, gauges and histograms with Prometheus text exposition. The
// trajectory server exports these on /metrics so a scraper can watch
// evaluation rates and latencies.
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Labels represents metric labels as key-value pairs
type Labels map[string]string

// key generates a stable map key for a label set
func (l Labels) key() string {
	if len(l) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(l[k])
	}
	return sb.String()
}

// format renders labels in Prometheus exposition syntax
func (l Labels) format() string {
	if len(l) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		// %q covers the Prometheus escapes: backslash, quote, newline.
		fmt.Fprintf(&sb, "%s=%q", k, l[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Metric is anything the registry can expose.
type Metric interface {
	Name() string
	Write(sb *strings.Builder)
}

// Counter is a monotonically increasing value.
type Counter struct {
	name, help string
	mu         sync.Mutex
	values     map[string]*counterValue
}

type counterValue struct {
	labels Labels
	count  uint64
}

// NewCounter creates a counter metric.
func NewCounter(name, help string) *Counter {
	return &Counter{name: name, help: help, values: make(map[string]*counterValue)}
}

func (c *Counter) Name() string { return c.name }

// Inc increments the counter by one.
func (c *Counter) Inc(labels Labels) {
	c.Add(labels, 1)
}

// Add increments the counter by delta.
func (c *Counter) Add(labels Labels, delta uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := labels.key()
	v, ok := c.values[k]
	if !ok {
		v = &counterValue{labels: labels}
		c.values[k] = v
	}
	v.count += delta
}

// Get returns the current count for a label set.
func (c *Counter) Get(labels Labels) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[labels.key()]; ok {
		return v.count
	}
	return 0
}

// Write renders the counter in Prometheus text format.
func (c *Counter) Write(sb *strings.Builder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(sb, "# HELP %s %s\n# TYPE %s counter\n", c.name, c.help, c.name)
	for _, v := range sortedValues(c.values) {
		fmt.Fprintf(sb, "%s%s %d\n", c.name, v.labels.format(), v.count)
	}
}

// Gauge is a value that can go up and down.
type Gauge struct {
	name, help string
	mu         sync.Mutex
	values     map[string]*gaugeValue
}

type gaugeValue struct {
	labels Labels
	value  float64
}

// NewGauge creates a gauge metric.
func NewGauge(name, help string) *Gauge {
	return &Gauge{name: name, help: help, values: make(map[string]*gaugeValue)}
}

func (g *Gauge) Name() string { return g.name }

// Set sets the gauge to a value.
func (g *Gauge) Set(labels Labels, value float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.get(labels).value = value
}

// Add adds delta to the gauge.
func (g *Gauge) Add(labels Labels, delta float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.get(labels).value += delta
}

// Inc increments the gauge by one.
func (g *Gauge) Inc(labels Labels) { g.Add(labels, 1) }

// Dec decrements the gauge by one.
func (g *Gauge) Dec(labels Labels) { g.Add(labels, -1) }

// get must be called with the mutex held.
func (g *Gauge) get(labels Labels) *gaugeValue {
	k := labels.key()
	v, ok := g.values[k]
	if !ok {
		v = &gaugeValue{labels: labels}
		g.values[k] = v
	}
	return v
}

// Get returns the current value for a label set.
func (g *Gauge) Get(labels Labels) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.values[labels.key()]; ok {
		return v.value
	}
	return 0
}

// Write renders the gauge in Prometheus text format.
func (g *Gauge) Write(sb *strings.Builder) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintf(sb, "# HELP %s %s\n# TYPE %s gauge\n", g.name, g.help, g.name)
	for _, v := range sortedValues(g.values) {
		fmt.Fprintf(sb, "%s%s %s\n", g.name, v.labels.format(), formatFloat(v.value))
	}
}

// Histogram tracks the distribution of observations in buckets.
type Histogram struct {
	name, help string
	buckets    []float64
	mu         sync.Mutex
	values     map[string]*histogramValue
}

type histogramValue struct {
	labels Labels
	counts []uint64
	sum    float64
	count  uint64
}

// NewHistogram creates a histogram with the given upper bucket bounds.
// Bounds must be sorted ascending; a +Inf bucket is implicit.
func NewHistogram(name, help string, buckets []float64) *Histogram {
	return &Histogram{
		name:    name,
		help:    help,
		buckets: buckets,
		values:  make(map[string]*histogramValue),
	}
}

// ExponentialBuckets returns count bounds starting at start, each factor
// times the previous.
func ExponentialBuckets(start, factor float64, count int) []float64 {
	buckets := make([]float64, count)
	for i := range buckets {
		buckets[i] = start
		start *= factor
	}
	return buckets
}

func (h *Histogram) Name() string { return h.name }

// Observe records one observation.
func (h *Histogram) Observe(labels Labels, value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := labels.key()
	v, ok := h.values[k]
	if !ok {
		v = &histogramValue{labels: labels, counts: make([]uint64, len(h.buckets))}
		h.values[k] = v
	}
	for i, bound := range h.buckets {
		if value <= bound {
			v.counts[i]++
		}
	}
	v.sum += value
	v.count++
}

// Timer returns a function that observes the elapsed seconds when called.
func (h *Histogram) Timer(labels Labels) func() {
	start := time.Now()
	return func() {
		h.Observe(labels, time.Since(start).Seconds())
	}
}

// Count returns the number of observations for a label set.
func (h *Histogram) Count(labels Labels) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.values[labels.key()]; ok {
		return v.count
	}
	return 0
}

// Write renders the histogram in Prometheus text format.
func (h *Histogram) Write(sb *strings.Builder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(sb, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name)
	for _, v := range sortedValues(h.values) {
		for i, bound := range h.buckets {
			le := v.labels.clone()
			le["le"] = formatFloat(bound)
			fmt.Fprintf(sb, "%s_bucket%s %d\n", h.name, le.format(), v.counts[i])
		}
		inf := v.labels.clone()
		inf["le"] = "+Inf"
		fmt.Fprintf(sb, "%s_bucket%s %d\n", h.name, inf.format(), v.count)
		fmt.Fprintf(sb, "%s_sum%s %s\n", h.name, v.labels.format(), formatFloat(v.sum))
		fmt.Fprintf(sb, "%s_count%s %d\n", h.name, v.labels.format(), v.count)
	}
}

func (l Labels) clone() Labels {
	c := make(Labels, len(l)+1)
	for k, v := range l {
		c[k] = v
	}
	return c
}

type labeled interface {
	*counterValue | *gaugeValue | *histogramValue
}

// sortedValues returns map values ordered by label key for stable output.
func sortedValues[V labeled](m map[string]V) []V {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]V, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// Registry holds a set of metrics for exposition.
type Registry struct {
	mu      sync.Mutex
	metrics []Metric
	names   map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds a metric; duplicate names are an error.
func (r *Registry) Register(m Metric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[m.Name()]; ok {
		return fmt.Errorf("metrics: duplicate metric %q", m.Name())
	}
	r.names[m.Name()] = struct{}{}
	r.metrics = append(r.metrics, m)
	return nil
}

// MustRegister is Register that panics on error, for init-time use.
func (r *Registry) MustRegister(m Metric) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Gather renders every registered metric in Prometheus text format.
func (r *Registry) Gather() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sb strings.Builder
	for _, m := range r.metrics {
		m.Write(&sb)
	}
	return sb.String()
}
