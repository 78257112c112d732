package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	gcm "google.golang.org/api/monitoring/v3"
	"google.golang.org/api/option"

	"github.com/metricdocs/metricdocs/internal/catalog"
	"github.com/metricdocs/metricdocs/internal/retry"
	"github.com/metricdocs/metricdocs/internal/services/auth"
)

// GCMProvider implements Provider using the Cloud Monitoring v3 REST API.
type GCMProvider struct {
	svc   *gcm.Service
	retry retry.Config
}

// NewGCMProvider creates a GCMProvider with the given client options.
// With no options the client authenticates via Application Default
// Credentials.
func NewGCMProvider(ctx context.Context, opts ...option.ClientOption) (*GCMProvider, error) {
	svc, err := gcm.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create monitoring client: %w", err)
	}
	return &GCMProvider{
		svc:   svc,
		retry: retry.DefaultConfig(),
	}, nil
}

// RegisterGCM registers the Cloud Monitoring backend factory with the
// global registry. Keychain-stored credentials take precedence over
// Application Default Credentials.
func RegisterGCM() {
	Register(DefaultBackend, func(ctx context.Context, store auth.Store) (Provider, error) {
		opts, err := credentialOptions(ctx, store)
		if err != nil {
			return nil, fmt.Errorf("gcm auth: %w", err)
		}
		return NewGCMProvider(ctx, opts...)
	})
}

func credentialOptions(ctx context.Context, store auth.Store) ([]option.ClientOption, error) {
	credentialsJSON, err := store.GetCredentials(auth.DefaultAccount)
	if errors.Is(err, auth.ErrCredentialsNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, []byte(credentialsJSON), gcm.MonitoringReadScope)
	if err != nil {
		return nil, fmt.Errorf("stored credentials: %w", err)
	}
	return []option.ClientOption{option.WithCredentials(creds)}, nil
}

// ValidateCredentials reports whether a service-account JSON blob can
// produce monitoring-scoped credentials. Called by auth login before a
// blob is stored.
func ValidateCredentials(ctx context.Context, credentialsJSON []byte) error {
	if _, err := google.CredentialsFromJSON(ctx, credentialsJSON, gcm.MonitoringReadScope); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}
	return nil
}

func projectResource(projectID string) string {
	return "projects/" + projectID
}

// ListMetricDescriptors pages through the project's metric-descriptor
// catalog. All pages are fetched unless opts.MaxPages caps the walk, in
// which case the listing is marked Truncated when more remained.
func (g *GCMProvider) ListMetricDescriptors(ctx context.Context, projectID string, opts ListOptions) (*Listing, error) {
	name := projectResource(projectID)
	listing := &Listing{}
	pageToken := ""
	pages := 0

	for {
		call := g.svc.Projects.MetricDescriptors.List(name).Context(ctx)
		if opts.TypePrefix != "" {
			call = call.Filter(fmt.Sprintf("metric.type = starts_with(%q)", opts.TypePrefix))
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		var resp *gcm.ListMetricDescriptorsResponse
		err := retry.Do(ctx, g.retry, retry.IsRetryable, func() error {
			var callErr error
			resp, callErr = call.Do()
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("list metric descriptors for %s: %w", name, classifyAPIError(err))
		}

		for _, md := range resp.MetricDescriptors {
			listing.Descriptors = append(listing.Descriptors, toDescriptor(md))
		}
		pages++

		if resp.NextPageToken == "" {
			break
		}
		if opts.MaxPages > 0 && pages >= opts.MaxPages {
			listing.Truncated = true
			break
		}
		pageToken = resp.NextPageToken
	}

	return listing, nil
}

// CountTimeSeries reports the number of time series with data for one
// metric type within the interval. Only the first result page is
// counted; a positive number is all the probe needs.
func (g *GCMProvider) CountTimeSeries(ctx context.Context, projectID, metricType string, start, end time.Time) (int, error) {
	resourceTypes, _, err := g.SeriesResourceTypes(ctx, projectID, metricType, start, end)
	if err != nil {
		return 0, err
	}
	return len(resourceTypes), nil
}

// SeriesResourceTypes lists the monitored-resource types of the time
// series for one metric type. The HEADERS view keeps data points out of
// the response.
func (g *GCMProvider) SeriesResourceTypes(ctx context.Context, projectID, metricType string, start, end time.Time) ([]string, bool, error) {
	call := g.svc.Projects.TimeSeries.List(projectResource(projectID)).Context(ctx).
		Filter(fmt.Sprintf("metric.type = %q", metricType)).
		View("HEADERS").
		IntervalStartTime(start.UTC().Format(time.RFC3339)).
		IntervalEndTime(end.UTC().Format(time.RFC3339)).
		Fields("timeSeries.resource.type", "nextPageToken")

	var resp *gcm.ListTimeSeriesResponse
	err := retry.Do(ctx, g.retry, retry.IsRetryable, func() error {
		var callErr error
		resp, callErr = call.Do()
		return callErr
	})
	if err != nil {
		return nil, false, fmt.Errorf("list time series for %s: %w", metricType, classifyAPIError(err))
	}

	resourceTypes := make([]string, 0, len(resp.TimeSeries))
	for _, series := range resp.TimeSeries {
		if series.Resource != nil {
			resourceTypes = append(resourceTypes, series.Resource.Type)
		}
	}

	return resourceTypes, resp.NextPageToken != "", nil
}

// classifyAPIError maps credential rejections onto ErrUnauthorized while
// keeping the full response detail in the message.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return err
}

// toDescriptor converts an API metric descriptor to the catalog model.
// Label order is preserved.
func toDescriptor(md *gcm.MetricDescriptor) catalog.Descriptor {
	d := catalog.Descriptor{
		Type:        md.Type,
		DisplayName: md.DisplayName,
		MetricKind:  md.MetricKind,
		ValueType:   md.ValueType,
		Unit:        md.Unit,
		Description: md.Description,
	}
	for _, label := range md.Labels {
		d.Labels = append(d.Labels, catalog.Label{
			Key:         label.Key,
			ValueType:   label.ValueType,
			Description: label.Description,
		})
	}
	return d
}
