package catalog

import (
	"fmt"
	"io"
	"sort"
)

// Key identifies a service within a group. A struct key avoids the
// ambiguity of "group/service" strings when a service name itself
// contains '/'.
type Key struct {
	Group   string
	Service string
}

func (k Key) String() string { return k.Group + "/" + k.Service }

// ProbeFunc reports the number of time series currently available for a
// metric type. Used for the optional once-per-service probe.
type ProbeFunc func(metricType string) (int, error)

// Options control ingestion behavior.
type Options struct {
	// IncludeCustom admits metrics in the "custom" group. When false,
	// custom descriptors are skipped entirely and never appear in any
	// accessor or in rendered output.
	IncludeCustom bool

	// Probe, when non-nil, is called at most once per group/service pair,
	// with the first metric type seen for that pair as the subject. A
	// positive count marks the pair as having time series. This is a
	// heuristic: one metric stands in for the whole service. Probe
	// failures are reported on Diag and do not fail ingestion.
	Probe ProbeFunc

	// Diag receives non-fatal ingestion warnings. Defaults to io.Discard.
	Diag io.Writer
}

// Catalog accumulates classified metric descriptors for one report run.
// It is not safe for concurrent use; ingestion is strictly sequential.
type Catalog struct {
	opts      Options
	services  map[string]map[string]struct{} // group -> set of service names
	metrics   map[Key]map[string]Descriptor  // key -> metric path -> descriptor
	hasSeries map[Key]bool
	ingested  int
}

// New returns an empty Catalog with the given ingestion options.
func New(opts Options) *Catalog {
	if opts.Diag == nil {
		opts.Diag = io.Discard
	}
	return &Catalog{
		opts:      opts,
		services:  make(map[string]map[string]struct{}),
		metrics:   make(map[Key]map[string]Descriptor),
		hasSeries: make(map[Key]bool),
	}
}

// Ingest classifies one descriptor and stores it under its group,
// service, and path. A later descriptor with the same path overwrites an
// earlier one; this should not happen for well-formed input. The
// ingestion count reflects records processed, including skipped custom
// metrics and overwrites, so it matches the number of records read from
// the source.
func (c *Catalog) Ingest(d Descriptor) error {
	c.ingested++

	cls, err := Classify(d.Type)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	if cls.Group == GroupCustom && !c.opts.IncludeCustom {
		return nil
	}

	if _, ok := c.services[cls.Group]; !ok {
		c.services[cls.Group] = make(map[string]struct{})
	}
	c.services[cls.Group][cls.Service] = struct{}{}

	key := Key{Group: cls.Group, Service: cls.Service}
	if _, ok := c.metrics[key]; !ok {
		c.metrics[key] = make(map[string]Descriptor)
		if c.opts.Probe != nil {
			n, err := c.opts.Probe(d.Type)
			switch {
			case err != nil:
				fmt.Fprintf(c.opts.Diag, "Warning: time-series probe for %s failed: %v\n", d.Type, err)
			case n > 0:
				c.hasSeries[key] = true
			}
		}
	}
	c.metrics[key][cls.Path] = d

	return nil
}

// Ingested returns the number of Ingest calls, not the number of unique
// metrics stored.
func (c *Catalog) Ingested() int { return c.ingested }

// Groups returns the group codes seen so far, sorted.
func (c *Catalog) Groups() []string {
	groups := make([]string, 0, len(c.services))
	for g := range c.services {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Services returns the service names seen for a group, sorted.
func (c *Catalog) Services(group string) []string {
	set, ok := c.services[group]
	if !ok {
		return nil
	}
	services := make([]string, 0, len(set))
	for s := range set {
		services = append(services, s)
	}
	sort.Strings(services)
	return services
}

// Paths returns the metric paths stored for a group/service, sorted.
func (c *Catalog) Paths(key Key) []string {
	byPath, ok := c.metrics[key]
	if !ok {
		return nil
	}
	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Metric returns the descriptor stored at a path within a group/service.
func (c *Catalog) Metric(key Key, path string) (Descriptor, bool) {
	d, ok := c.metrics[key][path]
	return d, ok
}

// HasTimeSeries reports whether the probe found time series for a
// group/service. Always false when probing was disabled.
func (c *Catalog) HasTimeSeries(key Key) bool { return c.hasSeries[key] }

// GroupCount summarizes one group.
type GroupCount struct {
	Group    string
	Services int
	Metrics  int
}

// ServiceCount summarizes one group/service.
type ServiceCount struct {
	Key     Key
	Metrics int
}

// Stats is a deterministic summary of the catalog contents. Metric
// counts here are unique stored metrics, unlike Ingested.
type Stats struct {
	Groups         []GroupCount
	Services       []ServiceCount
	TotalMetrics   int
	WithTimeSeries []Key
}

// Stats traverses the catalog in sorted order and counts groups,
// services, and metrics.
func (c *Catalog) Stats() Stats {
	var stats Stats
	for _, g := range c.Groups() {
		services := c.Services(g)
		groupMetrics := 0
		for _, s := range services {
			key := Key{Group: g, Service: s}
			n := len(c.metrics[key])
			stats.Services = append(stats.Services, ServiceCount{Key: key, Metrics: n})
			groupMetrics += n
			if c.hasSeries[key] {
				stats.WithTimeSeries = append(stats.WithTimeSeries, key)
			}
		}
		stats.Groups = append(stats.Groups, GroupCount{Group: g, Services: len(services), Metrics: groupMetrics})
		stats.TotalMetrics += groupMetrics
	}
	return stats
}
