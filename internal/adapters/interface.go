// Package adapters implements one adapter per routing backend. Each adapter
// translates the canonical query into its provider's native call and maps
// the native response back into the canonical route shape.
package adapters

import (
	"context"

	"curve-frontend/router-api/internal/types"
)

// Adapter is the shared contract of every routing backend. FetchRoutes
// returns an empty slice, not an error, when the provider legitimately has
// no route: required inputs missing, or the pathfinder found no path. Errors
// are reserved for transport failures and SDK exceptions.
type Adapter interface {
	Name() types.Provider
	FetchRoutes(ctx context.Context, query *types.RoutesQuery) ([]types.RouteResponse, error)
}
