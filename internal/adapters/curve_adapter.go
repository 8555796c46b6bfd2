package adapters

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"curve-frontend/router-api/internal/curvesdk"
	"curve-frontend/router-api/internal/types"
)

// lowExchangeRate is the ratio under which a stableswap-only route is
// considered to be paying a bad rate. Corrected by the destination token's
// stored rate for oracle/ERC4626-wrapped tokens.
var lowExchangeRate = decimal.RequireFromString("0.98")

// CurveAdapter quotes routes through the on-chain AMM router SDK.
type CurveAdapter struct {
	registry *curvesdk.Registry
	logger   *logrus.Logger
}

func NewCurveAdapter(registry *curvesdk.Registry, logger *logrus.Logger) *CurveAdapter {
	return &CurveAdapter{registry: registry, logger: logger}
}

func (a *CurveAdapter) Name() types.Provider { return types.ProviderCurve }

// FetchRoutes resolves the input amount (directly from amountIn, or by
// back-solving from amountOut), runs the SDK's best-route search and maps
// the result into at most one canonical route. An empty route from the SDK
// means no route exists and yields an empty slice.
func (a *CurveAdapter) FetchRoutes(ctx context.Context, query *types.RoutesQuery) ([]types.RouteResponse, error) {
	if query.AmountIn == "" && query.AmountOut == "" {
		return []types.RouteResponse{}, nil
	}

	client, err := a.registry.Client(ctx, query.ChainID)
	if err != nil {
		return nil, err
	}

	fromAmount, err := a.resolveFromAmount(ctx, client, query)
	if err != nil {
		return nil, err
	}

	best, err := client.BestRouteAndOutput(ctx, query.TokenIn, query.TokenOut, fromAmount)
	if err != nil {
		return nil, err
	}
	if best == nil || len(best.Hops) == 0 {
		return []types.RouteResponse{}, nil
	}

	impact, err := client.PriceImpact(ctx, query.TokenIn, query.TokenOut, fromAmount)
	if err != nil {
		return nil, err
	}

	steps, stableswapOnly, lastPool := a.buildSteps(ctx, client, query, best.Hops)
	warnings := a.detectWarnings(ctx, query, fromAmount, best.Output, stableswapOnly, lastPool)

	route := types.RouteResponse{
		ID:                uuid.New().String(),
		Router:            types.ProviderCurve,
		AmountIn:          []string{fromAmount.String()},
		AmountOut:         []string{best.Output.String()},
		PriceImpact:       &impact,
		CreatedAt:         time.Now().UnixMilli(),
		IsStableswapRoute: stableswapOnly,
		Warnings:          warnings,
		Route:             steps,
	}
	return []types.RouteResponse{route}, nil
}

// resolveFromAmount converts amountIn from wei using the source token's
// decimals, or back-solves the input via the SDK when only amountOut was
// supplied.
func (a *CurveAdapter) resolveFromAmount(ctx context.Context, client curvesdk.Client, query *types.RoutesQuery) (decimal.Decimal, error) {
	if query.AmountIn != "" {
		decimals, err := client.Decimals(query.TokenIn)
		if err != nil {
			return decimal.Zero, err
		}
		return types.WeiToDecimal(query.AmountIn, decimals)
	}

	decimals, err := client.Decimals(query.TokenOut)
	if err != nil {
		return decimal.Zero, err
	}
	toAmount, err := types.WeiToDecimal(query.AmountOut, decimals)
	if err != nil {
		return decimal.Zero, err
	}
	return client.Required(ctx, query.TokenIn, query.TokenOut, toAmount)
}

// buildSteps maps SDK hops to canonical steps, resolving each pool to a
// human-readable name. A failed pool lookup falls back to the raw pool id
// and excludes the route from stableswap warning checks; it is logged, not
// escalated.
func (a *CurveAdapter) buildSteps(ctx context.Context, client curvesdk.Client, query *types.RoutesQuery, hops []curvesdk.RouteHop) ([]types.RouteStep, bool, curvesdk.Pool) {
	steps := make([]types.RouteStep, 0, len(hops))
	stableswapOnly := true
	var lastPool curvesdk.Pool

	for _, hop := range hops {
		poolName := hop.PoolID
		pool, err := client.GetPool(ctx, hop.PoolID)
		if err != nil {
			a.logger.WithFields(logrus.Fields{
				"provider": types.ProviderCurve,
				"poolId":   hop.PoolID,
				"chainId":  query.ChainID,
			}).WithError(err).Warn("pool lookup failed, using raw pool id")
			stableswapOnly = false
		} else {
			poolName = pool.Name()
			if !pool.IsStableswap() {
				stableswapOnly = false
			}
			lastPool = pool
		}

		steps = append(steps, types.RouteStep{
			TokenIn:  []types.Address{hop.InputCoin},
			TokenOut: []types.Address{hop.OutputCoin},
			Protocol: "curve",
			Action:   types.ActionSwap,
			ChainID:  query.ChainID,
			Args: map[string]any{
				"poolId":   hop.PoolID,
				"poolName": poolName,
			},
		})
	}
	return steps, stableswapOnly, lastPool
}

// detectWarnings applies the stableswap rate checks. Both checks are skipped
// for routes touching any crypto pool. The threshold is 0.98, scaled by the
// destination token's stored rate when that rate exceeds 1.
//
// Note the high-slippage condition fires when the realized rate EXCEEDS the
// low-rate threshold; this mirrors the historical behavior exactly and is
// pinned by a test.
func (a *CurveAdapter) detectWarnings(ctx context.Context, query *types.RoutesQuery, fromAmount, toAmount decimal.Decimal, stableswapOnly bool, lastPool curvesdk.Pool) []types.Warning {
	warnings := []types.Warning{}
	if !stableswapOnly || fromAmount.IsZero() {
		return warnings
	}

	threshold := lowExchangeRate
	if lastPool != nil {
		storedRate := a.destinationStoredRate(ctx, query, lastPool)
		if storedRate.GreaterThan(decimal.NewFromInt(1)) {
			threshold = lowExchangeRate.Mul(storedRate)
		}
	}

	exchangeRate := toAmount.Div(fromAmount)
	if exchangeRate.LessThan(threshold) {
		warnings = append(warnings, types.WarningLowExchangeRate)
	}
	if exchangeRate.GreaterThan(threshold) {
		warnings = append(warnings, types.WarningHighSlippage)
	}
	return warnings
}

// destinationStoredRate reads the stored rate of the query's destination
// token from the final hop's pool, defaulting to 1 when the pool does not
// track it or the read fails.
func (a *CurveAdapter) destinationStoredRate(ctx context.Context, query *types.RoutesQuery, pool curvesdk.Pool) decimal.Decimal {
	one := decimal.NewFromInt(1)
	rates, err := pool.StoredRates(ctx)
	if err != nil {
		a.logger.WithError(err).WithField("pool", pool.Name()).
			Debug("stored rates unavailable, assuming 1")
		return one
	}
	for coin, rate := range rates {
		if coin.Equal(query.TokenOut) {
			return rate
		}
	}
	return one
}
