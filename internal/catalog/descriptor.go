package catalog

// Descriptor is a metric descriptor as reported by the monitoring API:
// the metadata of a measurable quantity, independent of any time-series
// data. Descriptors are treated as read-only once fetched.
type Descriptor struct {
	// Type is the full metric type name, e.g.
	// "compute.googleapis.com/instance/cpu/utilization".
	Type        string  `json:"type"`
	DisplayName string  `json:"display_name"`
	MetricKind  string  `json:"metric_kind"`
	ValueType   string  `json:"value_type"`
	Unit        string  `json:"unit,omitempty"`
	Description string  `json:"description,omitempty"`
	Labels      []Label `json:"labels,omitempty"`
}

// Label describes one dimension of a metric. Order within a descriptor
// is meaningful and preserved from the source.
type Label struct {
	Key string `json:"key"`
	// ValueType is empty or "STRING" for the default string labels.
	ValueType   string `json:"value_type,omitempty"`
	Description string `json:"description,omitempty"`
}
