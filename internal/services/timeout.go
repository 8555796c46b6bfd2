package services

import (
	"time"

	"curve-frontend/router-api/internal/types"
)

// WithTimeout races run against a timer. If the timer fires first the call
// fails with a *types.TimeoutError carrying message; the underlying
// operation is not cancelled, it keeps running in its goroutine and its late
// result is discarded.
func WithTimeout(d time.Duration, message string, run func() ([]types.RouteResponse, error)) ([]types.RouteResponse, error) {
	type settled struct {
		routes []types.RouteResponse
		err    error
	}

	done := make(chan settled, 1)
	go func() {
		routes, err := run()
		done <- settled{routes: routes, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case s := <-done:
		return s.routes, s.err
	case <-timer.C:
		return nil, &types.TimeoutError{Message: message}
	}
}
