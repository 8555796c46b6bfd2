package adapters

import (
	"context"

	"github.com/sirupsen/logrus"

	"curve-frontend/router-api/internal/types"
)

// EnsoAdapter is a placeholder for the Enso route API. It keeps the shared
// adapter contract so the provider can be requested today and wired up
// without touching the aggregator.
//
// TODO: implement against Enso's /route endpoint with the same
// empty-on-no-route / error-on-transport-failure split as the odos adapter.
type EnsoAdapter struct {
	*BaseAdapter
}

func NewEnsoAdapter(baseURL string, logger *logrus.Logger) *EnsoAdapter {
	return &EnsoAdapter{BaseAdapter: NewBaseAdapter(types.ProviderEnso, baseURL, logger)}
}

func (a *EnsoAdapter) Name() types.Provider { return types.ProviderEnso }

// FetchRoutes currently returns no routes unconditionally.
func (a *EnsoAdapter) FetchRoutes(ctx context.Context, query *types.RoutesQuery) ([]types.RouteResponse, error) {
	return []types.RouteResponse{}, nil
}
