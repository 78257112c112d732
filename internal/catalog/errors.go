package catalog

import "errors"

// Sentinel errors for classification failures. Callers classify with
// errors.Is after the usual %w wrapping:
//
//	return fmt.Errorf("ingest descriptor: %w", catalog.ErrMalformedType)
var (
	// ErrMalformedType indicates a metric type name with too few
	// slash-separated segments to split into group, service, and path.
	ErrMalformedType = errors.New("malformed metric type name")

	// ErrUnknownGroup indicates a group code outside the known set
	// (gcp, aws, agent, custom). Callers get an explicit failure rather
	// than a best-effort fallback.
	ErrUnknownGroup = errors.New("unknown metric group")
)
