// Package curvesdk declares the interfaces of the on-chain AMM router SDK
// the curve adapter delegates to. The SDK itself is an external collaborator;
// this package only fixes the surface the adapter consumes and caches one
// client per chain.
package curvesdk

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"curve-frontend/router-api/internal/types"
)

// RouteHop is one hop of a route returned by the SDK's pathfinder.
type RouteHop struct {
	PoolID     string
	InputCoin  types.Address
	OutputCoin types.Address
}

// BestRoute is the result of the SDK's best-route-and-output search. An
// empty Hops slice means the pathfinder found no route.
type BestRoute struct {
	Hops   []RouteHop
	Output decimal.Decimal // destination token units
}

// Pool exposes the pool metadata the curve adapter needs per hop.
type Pool interface {
	Name() string
	IsStableswap() bool
	// StoredRates returns the on-chain stored exchange rate per pool coin;
	// greater than 1 for oracle/ERC4626-wrapped tokens.
	StoredRates(ctx context.Context) (map[types.Address]decimal.Decimal, error)
}

// Client is the per-chain SDK instance.
type Client interface {
	// GetPool resolves a pool id from a route hop to its pool object.
	GetPool(ctx context.Context, poolID string) (Pool, error)
	// BestRouteAndOutput searches for the best route converting amountIn
	// (source token units) of tokenIn into tokenOut.
	BestRouteAndOutput(ctx context.Context, tokenIn, tokenOut types.Address, amountIn decimal.Decimal) (*BestRoute, error)
	// Required back-solves the input amount needed to receive amountOut
	// (destination token units) of tokenOut.
	Required(ctx context.Context, tokenIn, tokenOut types.Address, amountOut decimal.Decimal) (decimal.Decimal, error)
	// PriceImpact estimates the percentage price impact of the swap.
	PriceImpact(ctx context.Context, tokenIn, tokenOut types.Address, amountIn decimal.Decimal) (float64, error)
	// Decimals returns the token's decimals from the network constants.
	Decimals(token types.Address) (int, error)
}

// Factory builds an SDK client for a chain, typically connecting it to the
// chain's RPC endpoint.
type Factory func(ctx context.Context, chainID uint64) (Client, error)

// Registry hands out SDK clients, building each chain's client once and
// reusing it across requests.
type Registry struct {
	mu      sync.Mutex
	factory Factory
	clients map[uint64]Client
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{factory: factory, clients: make(map[uint64]Client)}
}

// Client returns the cached SDK client for chainID, creating it on first
// use. Failed creations are not cached so a transient RPC outage does not
// poison the registry.
func (r *Registry) Client(ctx context.Context, chainID uint64) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if client, ok := r.clients[chainID]; ok {
		return client, nil
	}
	if r.factory == nil {
		return nil, fmt.Errorf("no curve sdk client configured for chain %d", chainID)
	}
	client, err := r.factory(ctx, chainID)
	if err != nil {
		return nil, fmt.Errorf("curve sdk client for chain %d: %w", chainID, err)
	}
	r.clients[chainID] = client
	return client, nil
}
