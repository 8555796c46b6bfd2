// Package services implements the route aggregation core: concurrent
// fan-out to the requested providers, an all-settle join, partial-failure
// handling and deterministic ranking of the merged results.
package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"curve-frontend/router-api/internal/adapters"
	"curve-frontend/router-api/internal/types"
	"curve-frontend/router-api/pkg/cache"
)

// Aggregator fans a swap query out to the requested providers and merges
// their routes, best output first.
type Aggregator struct {
	adapters map[types.Provider]adapters.Adapter
	timeout  time.Duration
	cache    cache.RouteCache
	logger   *logrus.Logger
}

func NewAggregator(adapterSet map[types.Provider]adapters.Adapter, timeout time.Duration, routeCache cache.RouteCache, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		adapters: adapterSet,
		timeout:  timeout,
		cache:    routeCache,
		logger:   logger,
	}
}

// outcome is one provider's settled result. Every requested provider
// produces exactly one outcome before aggregation proceeds.
type outcome struct {
	provider types.Provider
	routes   []types.RouteResponse
	err      error
}

// GetRoutes queries every requested provider concurrently, waits for all of
// them to settle, and returns the merged routes sorted descending by output
// amount. Partial failures are logged and excluded; the call fails only when
// every requested provider failed. With a single requested provider its
// original error is returned unchanged.
func (a *Aggregator) GetRoutes(ctx context.Context, query *types.RoutesQuery) ([]types.RouteResponse, error) {
	providers := query.Providers()

	if routes, ok := a.cache.Get(ctx, cache.Key(query)); ok {
		a.logger.WithField("providers", providers).Debug("route cache hit")
		return routes, nil
	}

	outcomes := a.fanOut(ctx, query, providers)

	merged := make([]types.RouteResponse, 0)
	var failedProviders []types.Provider
	var failureReasons []error
	for _, o := range outcomes {
		if o.err != nil {
			a.logger.WithFields(logrus.Fields{
				"provider": o.provider,
				"chainId":  query.ChainID,
				"tokenIn":  query.TokenIn,
				"tokenOut": query.TokenOut,
			}).WithError(o.err).Error("provider failed")
			failedProviders = append(failedProviders, o.provider)
			failureReasons = append(failureReasons, o.err)
			continue
		}
		merged = append(merged, o.routes...)
	}

	if len(failedProviders) == len(providers) {
		if len(providers) == 1 {
			return nil, failureReasons[0]
		}
		return nil, &types.AggregateError{Providers: failedProviders, Reasons: failureReasons}
	}

	sortByAmountOut(merged)
	a.cache.Set(ctx, cache.Key(query), merged)

	a.logger.WithFields(logrus.Fields{
		"chainId":   query.ChainID,
		"tokenIn":   query.TokenIn,
		"tokenOut":  query.TokenOut,
		"providers": providers,
		"routes":    len(merged),
	}).Info("routes computed")
	return merged, nil
}

// fanOut invokes each provider's adapter in its own goroutine, each wrapped
// in the shared timeout budget, and joins once every branch has settled.
// Outcomes are indexed by the requested-provider order so later merging and
// tie-breaking stay deterministic regardless of completion order.
func (a *Aggregator) fanOut(ctx context.Context, query *types.RoutesQuery, providers []types.Provider) []outcome {
	outcomes := make([]outcome, len(providers))
	var wg sync.WaitGroup

	for i, provider := range providers {
		adapter, ok := a.adapters[provider]
		if !ok {
			// The schema layer only admits known providers; an unmapped one
			// is a wiring bug surfaced as a provider failure.
			outcomes[i] = outcome{provider: provider, err: fmt.Errorf("no adapter registered for provider %q", provider)}
			continue
		}

		wg.Add(1)
		go func(i int, provider types.Provider, adapter adapters.Adapter) {
			defer wg.Done()
			message := fmt.Sprintf("%s router timed out after %s", provider, a.timeout)
			routes, err := WithTimeout(a.timeout, message, func() ([]types.RouteResponse, error) {
				return adapter.FetchRoutes(ctx, query)
			})
			outcomes[i] = outcome{provider: provider, routes: routes, err: err}
		}(i, provider, adapter)
	}

	wg.Wait()
	return outcomes
}

// sortByAmountOut orders routes descending by their best output amount under
// exact decimal comparison. The sort is stable so ties keep the
// requested-provider order.
func sortByAmountOut(routes []types.RouteResponse) {
	best := make(map[string]decimal.Decimal, len(routes))
	for _, route := range routes {
		best[route.ID] = maxAmountOut(route)
	}
	sort.SliceStable(routes, func(i, j int) bool {
		return best[routes[i].ID].GreaterThan(best[routes[j].ID])
	})
}

// maxAmountOut picks the largest of a route's output amounts. Amounts are
// provider-produced decimal strings; an unparseable amount counts as zero.
func maxAmountOut(route types.RouteResponse) decimal.Decimal {
	max := decimal.Zero
	for _, raw := range route.AmountOut {
		amount, err := types.ParseAmount(raw)
		if err != nil {
			continue
		}
		if amount.GreaterThan(max) {
			max = amount
		}
	}
	return max
}
