package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curve-frontend/router-api/internal/curvesdk"
	"curve-frontend/router-api/internal/types"
)

const (
	usdc = types.Address("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	usdt = types.Address("0xdac17f958d2ee523a2206206994597c13d831ec7")
)

type fakePool struct {
	name        string
	stableswap  bool
	storedRates map[types.Address]decimal.Decimal
	ratesErr    error
}

func (p *fakePool) Name() string       { return p.name }
func (p *fakePool) IsStableswap() bool { return p.stableswap }
func (p *fakePool) StoredRates(context.Context) (map[types.Address]decimal.Decimal, error) {
	return p.storedRates, p.ratesErr
}

type fakeClient struct {
	decimals    map[types.Address]int
	pools       map[string]*fakePool
	best        *curvesdk.BestRoute
	bestErr     error
	required    decimal.Decimal
	requiredErr error
	impact      float64
	impactErr   error

	requiredCalls int
}

func (c *fakeClient) GetPool(_ context.Context, poolID string) (curvesdk.Pool, error) {
	pool, ok := c.pools[poolID]
	if !ok {
		return nil, errors.New("pool not found")
	}
	return pool, nil
}

func (c *fakeClient) BestRouteAndOutput(context.Context, types.Address, types.Address, decimal.Decimal) (*curvesdk.BestRoute, error) {
	return c.best, c.bestErr
}

func (c *fakeClient) Required(context.Context, types.Address, types.Address, decimal.Decimal) (decimal.Decimal, error) {
	c.requiredCalls++
	return c.required, c.requiredErr
}

func (c *fakeClient) PriceImpact(context.Context, types.Address, types.Address, decimal.Decimal) (float64, error) {
	return c.impact, c.impactErr
}

func (c *fakeClient) Decimals(token types.Address) (int, error) {
	d, ok := c.decimals[token]
	if !ok {
		return 0, errors.New("unknown token")
	}
	return d, nil
}

func registryFor(client curvesdk.Client) *curvesdk.Registry {
	return curvesdk.NewRegistry(func(context.Context, uint64) (curvesdk.Client, error) {
		return client, nil
	})
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func stableClient(output string) *fakeClient {
	return &fakeClient{
		decimals: map[types.Address]int{usdc: 6, usdt: 6},
		pools:    map[string]*fakePool{"3pool": {name: "3pool", stableswap: true}},
		best: &curvesdk.BestRoute{
			Hops:   []curvesdk.RouteHop{{PoolID: "3pool", InputCoin: usdc, OutputCoin: usdt}},
			Output: decimal.RequireFromString(output),
		},
		impact: 0.0001,
	}
}

func TestCurveAdapterAmountIn(t *testing.T) {
	client := stableClient("0.99")
	adapter := NewCurveAdapter(registryFor(client), testLogger())

	routes, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt, AmountIn: "1000000",
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)

	route := routes[0]
	assert.NotEmpty(t, route.ID)
	assert.Equal(t, types.ProviderCurve, route.Router)
	assert.Equal(t, []string{"1"}, route.AmountIn)
	assert.Equal(t, []string{"0.99"}, route.AmountOut)
	require.NotNil(t, route.PriceImpact)
	assert.Equal(t, 0.0001, *route.PriceImpact)
	assert.True(t, route.IsStableswapRoute)
	assert.Positive(t, route.CreatedAt)

	require.Len(t, route.Route, 1)
	step := route.Route[0]
	assert.Equal(t, []types.Address{usdc}, step.TokenIn)
	assert.Equal(t, []types.Address{usdt}, step.TokenOut)
	assert.Equal(t, "curve", step.Protocol)
	assert.Equal(t, types.ActionSwap, step.Action)
	assert.Equal(t, uint64(1), step.ChainID)
	assert.Equal(t, "3pool", step.Args["poolName"])
}

func TestCurveAdapterAmountOutBackSolves(t *testing.T) {
	client := stableClient("1")
	client.required = decimal.RequireFromString("1.01")
	adapter := NewCurveAdapter(registryFor(client), testLogger())

	routes, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt, AmountOut: "1000000",
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, 1, client.requiredCalls)
	assert.Equal(t, []string{"1.01"}, routes[0].AmountIn)
}

func TestCurveAdapterNoAmountsReturnsEmpty(t *testing.T) {
	// Neither amount supplied: nothing drives the quote, so there is no
	// route and no SDK call.
	adapter := NewCurveAdapter(curvesdk.NewRegistry(nil), testLogger())
	routes, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt,
	})
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestCurveAdapterEmptyRouteFromSDK(t *testing.T) {
	client := stableClient("1")
	client.best = &curvesdk.BestRoute{}
	adapter := NewCurveAdapter(registryFor(client), testLogger())

	routes, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt, AmountIn: "1000000",
	})
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestCurveAdapterSDKErrorEscalates(t *testing.T) {
	client := stableClient("1")
	client.bestErr = errors.New("rpc unavailable")
	adapter := NewCurveAdapter(registryFor(client), testLogger())

	_, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt, AmountIn: "1000000",
	})
	require.EqualError(t, err, "rpc unavailable")
}

func TestCurveAdapterPoolLookupFallsBackToRawID(t *testing.T) {
	client := stableClient("0.99")
	client.best.Hops[0].PoolID = "factory-v2-42"
	// No pool registered under that id: the lookup fails.
	adapter := NewCurveAdapter(registryFor(client), testLogger())

	routes, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt, AmountIn: "1000000",
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "factory-v2-42", routes[0].Route[0].Args["poolName"])
	// Unresolvable pools exclude the route from stableswap classification.
	assert.False(t, routes[0].IsStableswapRoute)
	assert.Empty(t, routes[0].Warnings)
}

func TestCurveAdapterLowExchangeRateWarning(t *testing.T) {
	client := stableClient("0.9") // rate 0.9 < 0.98
	adapter := NewCurveAdapter(registryFor(client), testLogger())

	routes, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt, AmountIn: "1000000",
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, []types.Warning{types.WarningLowExchangeRate}, routes[0].Warnings)
}

// The high-slippage warning fires when the realized rate EXCEEDS the
// low-rate threshold, flagging an anomalously favorable rate. This mirrors
// the historical condition exactly; revisit with the original author before
// changing it.
func TestCurveAdapterHighSlippageFiresAboveThreshold(t *testing.T) {
	client := stableClient("1") // rate 1.0 > 0.98
	adapter := NewCurveAdapter(registryFor(client), testLogger())

	routes, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt, AmountIn: "1000000",
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, []types.Warning{types.WarningHighSlippage}, routes[0].Warnings)
}

func TestCurveAdapterStoredRateRaisesThreshold(t *testing.T) {
	// Destination token with stored rate 1.05: the low-rate threshold
	// becomes 0.98*1.05 = 1.029, so a 1:1 swap is now a low rate.
	client := stableClient("1")
	client.pools["3pool"].storedRates = map[types.Address]decimal.Decimal{
		usdt: decimal.RequireFromString("1.05"),
	}
	adapter := NewCurveAdapter(registryFor(client), testLogger())

	routes, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt, AmountIn: "1000000",
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, []types.Warning{types.WarningLowExchangeRate}, routes[0].Warnings)
}

func TestCurveAdapterCryptoPoolSkipsWarnings(t *testing.T) {
	client := stableClient("0.5") // terrible rate, but not a stableswap route
	client.pools["3pool"].stableswap = false
	adapter := NewCurveAdapter(registryFor(client), testLogger())

	routes, err := adapter.FetchRoutes(context.Background(), &types.RoutesQuery{
		ChainID: 1, TokenIn: usdc, TokenOut: usdt, AmountIn: "1000000",
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.False(t, routes[0].IsStableswapRoute)
	assert.Empty(t, routes[0].Warnings)
}
