package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"curve-frontend/router-api/internal/types"
)

// OdosAdapter quotes routes through the Odos aggregator, proxied by the
// prices API. Quoting is a two-step flow: GET /quote returns candidate
// output amounts and a path id, GET /assemble turns that path id into a
// submittable transaction.
type OdosAdapter struct {
	*BaseAdapter
}

func NewOdosAdapter(baseURL string, logger *logrus.Logger) *OdosAdapter {
	return &OdosAdapter{BaseAdapter: NewBaseAdapter(types.ProviderOdos, baseURL, logger)}
}

func (a *OdosAdapter) Name() types.Provider { return types.ProviderOdos }

// odosQuoteResponse is the subset of the Odos quote schema this service
// consumes.
type odosQuoteResponse struct {
	InTokens    []string        `json:"inTokens"`
	OutTokens   []string        `json:"outTokens"`
	InAmounts   []string        `json:"inAmounts"`
	OutAmounts  []string        `json:"outAmounts"`
	PriceImpact *float64        `json:"priceImpact"`
	PathID      string          `json:"pathId"`
	PathViz     json.RawMessage `json:"pathViz"`
	BlockNumber int64           `json:"blockNumber"`
}

type odosAssembleResponse struct {
	Transaction struct {
		Data  string `json:"data"`
		To    string `json:"to"`
		From  string `json:"from"`
		Value string `json:"value"`
	} `json:"transaction"`
}

// FetchRoutes requires amountIn and a caller address; without them Odos
// cannot quote, so the adapter returns no routes rather than an error.
func (a *OdosAdapter) FetchRoutes(ctx context.Context, query *types.RoutesQuery) ([]types.RouteResponse, error) {
	if query.AmountIn == "" || query.UserAddress == "" {
		return []types.RouteResponse{}, nil
	}

	quote, err := a.fetchQuote(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(quote.OutAmounts) == 0 {
		return []types.RouteResponse{}, nil
	}

	tx, err := a.assemble(ctx, query, quote.PathID)
	if err != nil {
		return nil, err
	}

	args := map[string]any{"pathId": quote.PathID}
	if len(quote.PathViz) > 0 {
		args["pathViz"] = json.RawMessage(quote.PathViz)
	}

	route := types.RouteResponse{
		ID:          uuid.New().String(),
		Router:      types.ProviderOdos,
		AmountIn:    []string{query.AmountIn},
		AmountOut:   quote.OutAmounts,
		PriceImpact: quote.PriceImpact,
		CreatedAt:   time.Now().UnixMilli(),
		// The Odos API exposes no stableswap classification or slippage
		// detail, so the route is never flagged.
		IsStableswapRoute: false,
		Warnings:          []types.Warning{},
		Tx:                tx,
		Route: []types.RouteStep{{
			TokenIn:  []types.Address{query.TokenIn},
			TokenOut: []types.Address{query.TokenOut},
			Protocol: "odos",
			Action:   types.ActionSwap,
			ChainID:  query.ChainID,
			Args:     args,
		}},
	}
	return []types.RouteResponse{route}, nil
}

func (a *OdosAdapter) fetchQuote(ctx context.Context, query *types.RoutesQuery) (*odosQuoteResponse, error) {
	params := url.Values{}
	params.Set("chain_id", strconv.FormatUint(query.ChainID, 10))
	params.Set("from_address", query.TokenIn.String())
	params.Set("to_address", query.TokenOut.String())
	params.Set("amount", query.AmountIn)
	params.Set("caller_address", query.UserAddress.String())
	if query.Slippage != nil {
		params.Set("slippage", strconv.FormatFloat(*query.Slippage, 'f', -1, 64))
	}

	quoteURL := fmt.Sprintf("%s/quote?%s", a.baseURL, params.Encode())
	var quote odosQuoteResponse
	if err := a.getJSON(ctx, quoteURL, &quote); err != nil {
		a.logger.WithFields(logrus.Fields{
			"provider": types.ProviderOdos,
			"chainId":  query.ChainID,
			"tokenIn":  query.TokenIn,
			"tokenOut": query.TokenOut,
			"amountIn": query.AmountIn,
		}).WithError(err).Error("odos quote failed")
		return nil, err
	}
	return &quote, nil
}

// assemble resolves the quote's path id into a submittable transaction. A
// missing path id skips assembly entirely; the quote is still usable.
func (a *OdosAdapter) assemble(ctx context.Context, query *types.RoutesQuery, pathID string) (*types.TxData, error) {
	if pathID == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("path_id", pathID)
	params.Set("user_address", query.UserAddress.String())

	assembleURL := fmt.Sprintf("%s/assemble?%s", a.baseURL, params.Encode())
	var assembled odosAssembleResponse
	if err := a.getJSON(ctx, assembleURL, &assembled); err != nil {
		a.logger.WithFields(logrus.Fields{
			"provider": types.ProviderOdos,
			"pathId":   pathID,
		}).WithError(err).Error("odos assemble failed")
		return nil, err
	}

	tx := assembled.Transaction
	return &types.TxData{Data: tx.Data, To: tx.To, From: tx.From, Value: tx.Value}, nil
}
