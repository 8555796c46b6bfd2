package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curve-frontend/router-api/internal/types"
)

func TestWithTimeoutReturnsResultWithinBudget(t *testing.T) {
	routes, err := WithTimeout(time.Second, "curve router timed out", func() ([]types.RouteResponse, error) {
		return []types.RouteResponse{{ID: "r1"}}, nil
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "r1", routes[0].ID)
}

func TestWithTimeoutPassesErrorsThrough(t *testing.T) {
	boom := errors.New("rpc unavailable")
	_, err := WithTimeout(time.Second, "curve router timed out", func() ([]types.RouteResponse, error) {
		return nil, boom
	})
	assert.Equal(t, boom, err)
}

func TestWithTimeoutFiresOnSlowCall(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	defer close(block)

	_, err := WithTimeout(10*time.Millisecond, "odos router timed out after 10ms", func() ([]types.RouteResponse, error) {
		close(started)
		<-block
		return nil, nil
	})

	var timeoutErr *types.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "odos router timed out after 10ms", timeoutErr.Error())

	// The underlying call was started and keeps running detached.
	select {
	case <-started:
	default:
		t.Fatal("wrapped call never started")
	}
}
