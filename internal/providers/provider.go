// Package providers defines the boundary to metric-catalog backends and
// implements the Cloud Monitoring one.
package providers

import (
	"context"
	"errors"
	"time"

	"github.com/metricdocs/metricdocs/internal/catalog"
)

// ErrUnauthorized indicates the monitoring API rejected a request due to
// invalid, expired, or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ListOptions control a descriptor-listing call.
type ListOptions struct {
	// TypePrefix restricts results to metric types starting with this
	// prefix. Empty means no restriction.
	TypePrefix string

	// MaxPages caps how many result pages are fetched. Zero fetches all
	// pages. When the cap stops pagination early the Listing is marked
	// Truncated.
	MaxPages int
}

// Listing is the result of a descriptor-listing call.
type Listing struct {
	Descriptors []catalog.Descriptor

	// Truncated reports that more result pages existed than were
	// fetched. Callers must surface this; the partial set is still
	// usable.
	Truncated bool
}

// Provider is the boundary to a metric-catalog backend.
type Provider interface {
	// ListMetricDescriptors returns the metric descriptors defined for a
	// project, in arrival order.
	ListMetricDescriptors(ctx context.Context, projectID string, opts ListOptions) (*Listing, error)

	// CountTimeSeries reports how many time series currently exist for
	// one metric type within the interval. Zero means no data; callers
	// must tolerate errors without aborting their run.
	CountTimeSeries(ctx context.Context, projectID, metricType string, start, end time.Time) (int, error)

	// SeriesResourceTypes returns the monitored-resource types of the
	// time series for one metric type, plus a truncation flag when more
	// pages existed.
	SeriesResourceTypes(ctx context.Context, projectID, metricType string, start, end time.Time) ([]string, bool, error)
}

// ProbeWindow returns the default probing interval: thirty days back,
// ending one minute before now. Recent points can lag behind real time,
// so the interval never ends at now exactly.
func ProbeWindow(now time.Time) (start, end time.Time) {
	return now.Add(-30 * 24 * time.Hour), now.Add(-time.Minute)
}
