package metrics

import (
	"errors"
	"strings"
	"testing"
)

func TestProbe_Count(t *testing.T) {
	mock := &mockProvider{seriesCount: 7}
	registerMockProvider(t, mock)

	stdout, _ := execMetrics(t, "probe",
		"--project", "test-project",
		"--type", "compute.googleapis.com/instance/cpu/utilization")

	want := "compute.googleapis.com/instance/cpu/utilization has 7 time series\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	if len(mock.probed) != 1 {
		t.Errorf("expected exactly one probe, got %v", mock.probed)
	}
}

func TestProbe_Detail(t *testing.T) {
	mock := &mockProvider{resourceTypes: []string{"gce_instance", "gce_instance"}}
	registerMockProvider(t, mock)

	stdout, _ := execMetrics(t, "probe",
		"--project", "test-project",
		"--type", "compute.googleapis.com/instance/cpu/utilization",
		"--detail")

	if !strings.Contains(stdout, "has 2 time series") {
		t.Errorf("expected series count, got %q", stdout)
	}
	if strings.Count(stdout, "gce_instance") != 2 {
		t.Errorf("expected one line per series, got %q", stdout)
	}
	// Detail mode must not fall back to the plain count call.
	if len(mock.probed) != 0 {
		t.Errorf("CountTimeSeries should not be called with --detail, got %v", mock.probed)
	}
}

func TestProbe_DetailTruncationWarns(t *testing.T) {
	mock := &mockProvider{resourceTypes: []string{"gce_instance"}, truncated: true}
	registerMockProvider(t, mock)

	_, stderr := execMetrics(t, "probe",
		"--project", "test-project",
		"--type", "compute.googleapis.com/instance/cpu/utilization",
		"--detail")

	if !strings.Contains(stderr, "more series exist") {
		t.Errorf("expected truncation warning on stderr, got %q", stderr)
	}
}

func TestProbe_BackendError(t *testing.T) {
	mock := &mockProvider{countErr: errors.New("backend unavailable")}
	registerMockProvider(t, mock)

	stdout, stderr := execMetrics(t, "probe",
		"--project", "test-project",
		"--type", "compute.googleapis.com/instance/cpu/utilization")

	if stdout != "" {
		t.Errorf("expected no output on probe failure, got %q", stdout)
	}
	if !strings.Contains(stderr, "backend unavailable") {
		t.Errorf("expected the backend error on stderr, got %q", stderr)
	}
}

func TestProbe_TypeRequired(t *testing.T) {
	mock := &mockProvider{}
	registerMockProvider(t, mock)

	_, stderr := execMetrics(t, "probe", "--project", "test-project")

	if !strings.Contains(stderr, "type") {
		t.Errorf("expected a missing --type error, got %q", stderr)
	}
}
