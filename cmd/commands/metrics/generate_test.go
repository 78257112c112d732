package metrics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/metricdocs/metricdocs/internal/catalog"
	"github.com/metricdocs/metricdocs/internal/config"
	"github.com/metricdocs/metricdocs/internal/database"
	"github.com/metricdocs/metricdocs/internal/history"
	"github.com/metricdocs/metricdocs/internal/providers"
	"github.com/metricdocs/metricdocs/internal/services/auth"
)

// mockProvider implements providers.Provider for CLI testing.
type mockProvider struct {
	listing       *providers.Listing
	listErr       error
	listCalls     []providers.ListOptions
	seriesCount   int
	countErr      error
	probed        []string
	resourceTypes []string
	truncated     bool
}

func (m *mockProvider) ListMetricDescriptors(_ context.Context, projectID string, opts providers.ListOptions) (*providers.Listing, error) {
	m.listCalls = append(m.listCalls, opts)
	return m.listing, m.listErr
}

func (m *mockProvider) CountTimeSeries(_ context.Context, _ string, metricType string, _, _ time.Time) (int, error) {
	m.probed = append(m.probed, metricType)
	return m.seriesCount, m.countErr
}

func (m *mockProvider) SeriesResourceTypes(_ context.Context, _ string, _ string, _, _ time.Time) ([]string, bool, error) {
	return m.resourceTypes, m.truncated, m.countErr
}

// registerMockProvider resets the global registry and registers a mock
// backend factory under the default name. It also points the config and
// run-history database at temp files so a developer's real state cannot
// leak in.
func registerMockProvider(t *testing.T, mock *mockProvider) {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)
	database.SetPath(filepath.Join(t.TempDir(), "metricdocs.db"))
	t.Cleanup(database.ResetPath)
	providers.Reset()
	t.Cleanup(providers.Reset)
	providers.Register(providers.DefaultBackend, func(ctx context.Context, store auth.Store) (providers.Provider, error) {
		return mock, nil
	})
}

func testListing() *providers.Listing {
	return &providers.Listing{
		Descriptors: []catalog.Descriptor{
			{
				Type:        "compute.googleapis.com/instance/cpu/utilization",
				DisplayName: "CPU utilization",
				MetricKind:  "GAUGE",
				ValueType:   "DOUBLE",
				Unit:        "1",
				Description: "Fractional CPU utilization.",
			},
			{
				Type:        "agent.googleapis.com/nginx/requests",
				DisplayName: "Requests",
				MetricKind:  "CUMULATIVE",
				ValueType:   "INT64",
				Description: "Request count.",
			},
			{
				Type:        "custom.googleapis.com/my_metric",
				DisplayName: "My metric",
				MetricKind:  "GAUGE",
				ValueType:   "INT64",
			},
		},
	}
}

// execMetrics runs a metrics subcommand and returns stdout and stderr.
func execMetrics(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestGenerate_HappyPath(t *testing.T) {
	mock := &mockProvider{listing: testListing()}
	registerMockProvider(t, mock)

	stdout, stderr := execMetrics(t, "generate", "--project", "test-project")

	wantFragments := []string{
		"# Metrics list",
		"## Agent metrics {:#agent}",
		"## Google Cloud Platform metrics {:#gcp}",
		"`instance/cpu/utilization` | CPU utilization | GAUGE, DOUBLE, 1 | Fractional CPU utilization.",
	}
	for _, want := range wantFragments {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q", want)
		}
	}

	// Custom metrics are excluded by default.
	if strings.Contains(stdout, "my_metric") {
		t.Error("custom metric rendered without --include-custom")
	}

	// The read count goes to stderr, never stdout.
	if !strings.Contains(stderr, "Read 3 metrics.") {
		t.Errorf("stderr missing read count, got %q", stderr)
	}
	if strings.Contains(stdout, "Read 3 metrics.") {
		t.Error("read count leaked into the page output")
	}
}

func TestGenerate_IncludeCustom(t *testing.T) {
	mock := &mockProvider{listing: testListing()}
	registerMockProvider(t, mock)

	stdout, _ := execMetrics(t, "generate", "--project", "test-project", "--include-custom")

	if !strings.Contains(stdout, "## Custom metrics {:#custom}") {
		t.Error("expected the custom group with --include-custom")
	}
	if !strings.Contains(stdout, "### `none` {:#custom-none}") {
		t.Error("expected the 'none' service heading for the bare custom metric")
	}
}

func TestGenerate_PrefixFilterPassedAndNoted(t *testing.T) {
	mock := &mockProvider{listing: &providers.Listing{}}
	registerMockProvider(t, mock)

	stdout, _ := execMetrics(t, "generate", "--project", "test-project", "--prefix", "agent.googleapis.com")

	if len(mock.listCalls) != 1 || mock.listCalls[0].TypePrefix != "agent.googleapis.com" {
		t.Errorf("prefix not passed to the backend: %+v", mock.listCalls)
	}
	if !strings.Contains(stdout, "restricted to metric types starting with `agent.googleapis.com`") {
		t.Error("expected the restriction note in the page")
	}
}

func TestGenerate_TruncatedListingWarns(t *testing.T) {
	listing := testListing()
	listing.Truncated = true
	mock := &mockProvider{listing: listing}
	registerMockProvider(t, mock)

	stdout, stderr := execMetrics(t, "generate", "--project", "test-project")

	if !strings.Contains(stderr, "results are incomplete") {
		t.Errorf("expected incomplete-results warning on stderr, got %q", stderr)
	}
	// Partial data still renders.
	if !strings.Contains(stdout, "instance/cpu/utilization") {
		t.Error("expected the partial listing to render")
	}
}

func TestGenerate_FetchFailure(t *testing.T) {
	mock := &mockProvider{listErr: fmt.Errorf("listing failed: %w", providers.ErrUnauthorized)}
	registerMockProvider(t, mock)

	stdout, stderr := execMetrics(t, "generate", "--project", "test-project")

	if stdout != "" {
		t.Errorf("expected no page output on fetch failure, got %q", stdout)
	}
	if !strings.Contains(stderr, "unauthorized") {
		t.Errorf("expected the fetch error on stderr, got %q", stderr)
	}
}

func TestGenerate_ProbeTimeseries(t *testing.T) {
	mock := &mockProvider{listing: testListing(), seriesCount: 2}
	registerMockProvider(t, mock)

	execMetrics(t, "generate", "--project", "test-project", "--probe-timeseries")

	// One probe per group/service pair: gcp/compute and agent/nginx.
	if len(mock.probed) != 2 {
		t.Errorf("expected 2 probes, got %v", mock.probed)
	}
}

func TestGenerate_HTMLFormat(t *testing.T) {
	mock := &mockProvider{listing: testListing()}
	registerMockProvider(t, mock)

	stdout, _ := execMetrics(t, "generate", "--project", "test-project", "--format", "html")

	if !strings.Contains(stdout, "<!DOCTYPE html>") {
		t.Error("expected HTML output with --format html")
	}
	if !strings.Contains(stdout, `<h2 id="gcp">`) {
		t.Error("expected HTML group headings")
	}
}

func TestGenerate_FormatFromConfig(t *testing.T) {
	mock := &mockProvider{listing: testListing()}
	registerMockProvider(t, mock)

	cfg := &config.Config{DefaultFormat: "html"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("save config: %v", err)
	}

	stdout, _ := execMetrics(t, "generate", "--project", "test-project")

	if !strings.Contains(stdout, "<!DOCTYPE html>") {
		t.Error("expected the configured default format to apply")
	}
}

func TestGenerate_ProjectFromConfig(t *testing.T) {
	mock := &mockProvider{listing: testListing()}
	registerMockProvider(t, mock)

	cfg := &config.Config{DefaultProject: "configured-project"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("save config: %v", err)
	}

	stdout, _ := execMetrics(t, "generate")

	if !strings.Contains(stdout, "configured-project") {
		t.Error("expected the configured default project in the page header")
	}
}

func TestGenerate_NoProject(t *testing.T) {
	mock := &mockProvider{listing: testListing()}
	registerMockProvider(t, mock)

	_, stderr := execMetrics(t, "generate")

	if !strings.Contains(stderr, "no project specified") {
		t.Errorf("expected missing-project error, got %q", stderr)
	}
	if len(mock.listCalls) != 0 {
		t.Error("backend must not be called without a project")
	}
}

func TestGenerate_RecordsRunHistory(t *testing.T) {
	mock := &mockProvider{listing: testListing()}
	registerMockProvider(t, mock)

	execMetrics(t, "generate", "--project", "test-project")

	repo, err := history.Open()
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer repo.Close()

	records, err := repo.List(10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 run record, got %d", len(records))
	}
	rec := records[0]
	if rec.Command != "generate" || rec.Project != "test-project" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Metrics != 3 {
		t.Errorf("expected 3 metrics recorded, got %d", rec.Metrics)
	}
	if rec.Outcome != history.OutcomeSuccess {
		t.Errorf("expected success outcome, got %q", rec.Outcome)
	}
}

func TestGenerate_RecordsFailedRun(t *testing.T) {
	mock := &mockProvider{listErr: errors.New("backend down")}
	registerMockProvider(t, mock)

	execMetrics(t, "generate", "--project", "test-project")

	repo, err := history.Open()
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer repo.Close()

	records, err := repo.List(10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 run record, got %d", len(records))
	}
	if records[0].Outcome != history.OutcomeError {
		t.Errorf("expected error outcome, got %q", records[0].Outcome)
	}
	if records[0].Detail == "" {
		t.Error("expected the failure detail to be recorded")
	}
}

func TestGenerate_UnknownFormat(t *testing.T) {
	mock := &mockProvider{listing: testListing()}
	registerMockProvider(t, mock)

	_, stderr := execMetrics(t, "generate", "--project", "test-project", "--format", "pdf")

	if !strings.Contains(stderr, `unknown format "pdf"`) {
		t.Errorf("expected unknown-format error, got %q", stderr)
	}
}
