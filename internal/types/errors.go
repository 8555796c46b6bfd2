package types

import (
	"fmt"
	"strings"
)

// ProviderError is a transport-level failure from a routing backend: a
// non-OK HTTP status or an SDK-level exception. It escalates to the
// aggregator as a per-provider failure and is never retried here.
type ProviderError struct {
	Provider   Provider
	Status     int    // HTTP status code, 0 for SDK failures
	StatusText string // HTTP status text, empty for SDK failures
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s request failed: %d %s: %s", e.Provider, e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

// TimeoutError is the synthetic failure produced when a provider exceeds its
// timeout budget. To the aggregator it is indistinguishable from any other
// provider failure.
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string { return e.Message }

// AggregateError is raised only when every requested provider failed and
// more than one provider was requested; the single-provider case rethrows
// the original error unchanged.
type AggregateError struct {
	Providers []Provider
	Reasons   []error
}

func (e *AggregateError) Error() string {
	names := make([]string, len(e.Providers))
	for i, p := range e.Providers {
		names[i] = string(p)
	}
	reasons := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		reasons[i] = r.Error()
	}
	return fmt.Sprintf("Failed to calculate route for %s: %s",
		strings.Join(names, ", "), strings.Join(reasons, "; "))
}

// Unwrap exposes the per-provider failures to errors.Is/As.
func (e *AggregateError) Unwrap() []error { return e.Reasons }
