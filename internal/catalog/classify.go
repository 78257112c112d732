// Package catalog classifies metric type names by provenance and
// accumulates metric descriptors into a group/service/path hierarchy
// ready for deterministic rendering.
package catalog

import (
	"fmt"
	"strings"
)

// Group codes produced by Classify.
const (
	GroupGCP    = "gcp"
	GroupAWS    = "aws"
	GroupAgent  = "agent"
	GroupCustom = "custom"
)

// Classification is the parsed form of a metric type name: which group
// the metric belongs to, the service within the group that emits it, and
// the remaining metric path. The path never starts with '/'.
type Classification struct {
	Group   string
	Service string
	Path    string
}

// Classify splits a metric type name such as
// "compute.googleapis.com/instance/cpu/utilization" into
// ("gcp", "compute", "instance/cpu/utilization").
//
// The first dotted component of the domain decides the group: "agent",
// "aws", and "custom" are recognized explicitly; anything else is taken
// to be a GCP service, which is how metrics from new Google services
// surface. Custom metrics without a service segment
// ("custom.googleapis.com/my_metric") classify with an empty service.
func Classify(metricType string) (Classification, error) {
	segments := strings.Split(metricType, "/")
	if len(segments) < 2 {
		return Classification{}, fmt.Errorf("metric type %q: %w", metricType, ErrMalformedType)
	}

	domainToken := strings.Split(segments[0], ".")[0]
	remainingPath := strings.Join(segments[2:], "/")
	wholePath := strings.Join(segments[1:], "/")

	switch {
	case domainToken == GroupAgent:
		return Classification{Group: GroupAgent, Service: segments[1], Path: remainingPath}, nil
	case domainToken == GroupAWS:
		return Classification{Group: GroupAWS, Service: segments[1], Path: remainingPath}, nil
	case domainToken == GroupCustom && len(segments) > 2:
		return Classification{Group: GroupCustom, Service: segments[1], Path: remainingPath}, nil
	case domainToken == GroupCustom:
		return Classification{Group: GroupCustom, Service: "", Path: wholePath}, nil
	default:
		return Classification{Group: GroupGCP, Service: domainToken, Path: wholePath}, nil
	}
}

// CanonicalPrefix reconstructs the dotted-domain prefix shared by every
// metric type name in a group/service. The result never ends in '/'.
//
//	CanonicalPrefix("gcp", "compute")    == "compute.googleapis.com"
//	CanonicalPrefix("aws", "CloudWatch") == "aws.googleapis.com/CloudWatch"
//	CanonicalPrefix("custom", "")        == "custom.googleapis.com"
//
// Group codes outside the four known ones are a caller error and return
// ErrUnknownGroup.
func CanonicalPrefix(group, service string) (string, error) {
	switch group {
	case GroupAgent, GroupAWS, GroupCustom:
		if service == "" {
			return group + ".googleapis.com", nil
		}
		return group + ".googleapis.com/" + service, nil
	case GroupGCP:
		return service + ".googleapis.com", nil
	default:
		return "", fmt.Errorf("group %q: %w", group, ErrUnknownGroup)
	}
}

// groupHeadings is the fixed title/description table for the four groups.
var groupHeadings = map[string]struct {
	title       string
	description string
}{
	GroupAgent: {
		title:       "Agent metrics",
		description: "Metrics collected by the monitoring agent.",
	},
	GroupAWS: {
		title:       "Amazon Web Services metrics",
		description: "Metrics from Amazon Web Services.",
	},
	GroupCustom: {
		title:       "Custom metrics",
		description: "Custom metrics defined by users.",
	},
	GroupGCP: {
		title:       "Google Cloud Platform metrics",
		description: "Metrics from Google Cloud Platform services.",
	},
}

// GroupInfo returns the page title and description for a group code.
// Unrecognized codes return ErrUnknownGroup; there is deliberately no
// default here.
func GroupInfo(group string) (title, description string, err error) {
	h, ok := groupHeadings[group]
	if !ok {
		return "", "", fmt.Errorf("group %q: %w", group, ErrUnknownGroup)
	}
	return h.title, h.description, nil
}
