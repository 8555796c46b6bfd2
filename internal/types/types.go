// Package types defines the canonical data model shared by every route
// provider: the normalized swap query, the normalized route response, and
// the error taxonomy of the aggregation pipeline.
package types

// Provider identifies one of the routing backends the service can query.
type Provider string

const (
	ProviderCurve Provider = "curve" // on-chain AMM router SDK
	ProviderEnso  Provider = "enso"  // Enso route API (placeholder)
	ProviderOdos  Provider = "odos"  // Odos quote/assemble API
)

// KnownProviders lists every provider the service can fan out to, in schema
// declaration order.
func KnownProviders() []Provider {
	return []Provider{ProviderCurve, ProviderEnso, ProviderOdos}
}

// ParseProvider maps a raw query-string value onto a known provider.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderCurve, ProviderEnso, ProviderOdos:
		return Provider(s), true
	}
	return "", false
}

// Warning flags a route property the client should surface to the user.
type Warning string

const (
	WarningHighSlippage    Warning = "high-slippage"
	WarningLowExchangeRate Warning = "low-exchange-rate"
)

// RoutesQuery is the canonical, already-validated swap request. The HTTP
// schema layer guarantees addresses are well formed and amounts are unsigned
// wei integer strings before a query reaches any adapter.
//
// Exactly one of AmountIn/AmountOut drives the quote per provider: curve
// supports either, enso and odos require AmountIn and legitimately return
// zero routes otherwise.
type RoutesQuery struct {
	ChainID     uint64
	Router      []Provider // requested provider subset, defaults to {curve}
	TokenIn     Address
	TokenOut    Address
	AmountIn    string  // wei integer string, empty when absent
	AmountOut   string  // wei integer string, empty when absent
	UserAddress Address // empty when absent
	Slippage    *float64
}

// Providers returns the requested provider set, applying the default.
func (q *RoutesQuery) Providers() []Provider {
	if len(q.Router) == 0 {
		return []Provider{ProviderCurve}
	}
	return q.Router
}

// RouteResponse is the normalized result of one successful provider quote.
// Constructed fresh per request, never persisted.
type RouteResponse struct {
	ID                string      `json:"id"`
	Router            Provider    `json:"router"`
	AmountIn          []string    `json:"amountIn"`
	AmountOut         []string    `json:"amountOut"`
	PriceImpact       *float64    `json:"priceImpact"`
	CreatedAt         int64       `json:"createdAt"` // epoch millis at construction
	IsStableswapRoute bool        `json:"isStableswapRoute"`
	Warnings          []Warning   `json:"warnings"`
	Tx                *TxData     `json:"tx,omitempty"` // only when the provider assembled a transaction
	Route             []RouteStep `json:"route"`
}

// RouteStep is a single hop of a route. The first step's tokenIn and the
// last step's tokenOut always match the query's endpoints; intermediate hops
// may pass through any token.
type RouteStep struct {
	TokenIn  []Address      `json:"tokenIn"`
	TokenOut []Address      `json:"tokenOut"`
	Protocol string         `json:"protocol"`
	Action   string         `json:"action"` // always "swap"
	ChainID  uint64         `json:"chainId"`
	Args     map[string]any `json:"args"`
}

// ActionSwap is the only route-step action the service produces.
const ActionSwap = "swap"

// TxData is a submittable transaction assembled by a provider (odos only).
type TxData struct {
	Data  string `json:"data"`
	To    string `json:"to"`
	From  string `json:"from"`
	Value string `json:"value"`
}
