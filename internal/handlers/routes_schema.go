package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"curve-frontend/router-api/internal/types"
)

// ValidationError is the 400 payload for a query-schema violation, shaped
// like fastify's ajv validation errors so existing clients keep working
// against the same contract.
type ValidationError struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Name       string `json:"error"`
	Message    string `json:"message"`
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{
		StatusCode: http.StatusBadRequest,
		Code:       "FST_ERR_VALIDATION",
		Name:       "Bad Request",
		Message:    message,
	}
}

func requiredProperty(name string) *ValidationError {
	return newValidationError(fmt.Sprintf("querystring must have required property '%s'", name))
}

// parseRoutesQuery validates the raw query string against the declared
// schema and builds the canonical query. Any violation short-circuits before
// the aggregator is invoked; messages follow ajv's wording, checked in
// schema declaration order with required properties first.
func parseRoutesQuery(values url.Values) (*types.RoutesQuery, *ValidationError) {
	for _, name := range []string{"tokenIn", "tokenOut"} {
		if len(values[name]) == 0 {
			return nil, requiredProperty(name)
		}
	}

	query := &types.RoutesQuery{ChainID: 1}

	if raw := values.Get("chainId"); raw != "" {
		chainID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, newValidationError("querystring/chainId must be integer")
		}
		if chainID < 1 {
			return nil, newValidationError("querystring/chainId must be >= 1")
		}
		query.ChainID = chainID
	}

	routers := values["router"]
	if len(routers) > len(types.KnownProviders()) {
		return nil, newValidationError(fmt.Sprintf(
			"querystring/router must NOT have more than %d items", len(types.KnownProviders())))
	}
	seen := make(map[types.Provider]int, len(routers))
	for i, raw := range routers {
		provider, ok := types.ParseProvider(raw)
		if !ok {
			return nil, newValidationError(fmt.Sprintf(
				"querystring/router/%d must be equal to one of the allowed values", i))
		}
		if first, dup := seen[provider]; dup {
			return nil, newValidationError(fmt.Sprintf(
				"querystring/router must NOT have duplicate items (items ## %d and %d are identical)", first, i))
		}
		seen[provider] = i
		query.Router = append(query.Router, provider)
	}

	tokenIn, vErr := parseAddressItems(values, "tokenIn")
	if vErr != nil {
		return nil, vErr
	}
	query.TokenIn = tokenIn

	tokenOut, vErr := parseAddressItems(values, "tokenOut")
	if vErr != nil {
		return nil, vErr
	}
	query.TokenOut = tokenOut

	amountIn, vErr := parseWeiItems(values, "amountIn")
	if vErr != nil {
		return nil, vErr
	}
	query.AmountIn = amountIn

	amountOut, vErr := parseWeiItems(values, "amountOut")
	if vErr != nil {
		return nil, vErr
	}
	query.AmountOut = amountOut

	if raw := values.Get("userAddress"); raw != "" {
		address, err := types.ParseAddress(raw)
		if err != nil {
			return nil, newValidationError(fmt.Sprintf(
				"querystring/userAddress must match pattern \"%s\"", types.AddressHexPattern))
		}
		query.UserAddress = address
	}

	if raw := values.Get("slippage"); raw != "" {
		slippage, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, newValidationError("querystring/slippage must be number")
		}
		if slippage < 0 {
			return nil, newValidationError("querystring/slippage must be >= 0")
		}
		query.Slippage = &slippage
	}

	return query, nil
}

// parseAddressItems validates an array-of-one-address parameter.
func parseAddressItems(values url.Values, name string) (types.Address, *ValidationError) {
	items := values[name]
	if len(items) > 1 {
		return "", newValidationError(fmt.Sprintf("querystring/%s must NOT have more than 1 items", name))
	}
	address, err := types.ParseAddress(items[0])
	if err != nil {
		return "", newValidationError(fmt.Sprintf(
			"querystring/%s/0 must match pattern \"%s\"", name, types.AddressHexPattern))
	}
	return address, nil
}

// parseWeiItems validates an optional array-of-one wei amount parameter.
func parseWeiItems(values url.Values, name string) (string, *ValidationError) {
	items := values[name]
	if len(items) == 0 {
		return "", nil
	}
	if len(items) > 1 {
		return "", newValidationError(fmt.Sprintf("querystring/%s must NOT have more than 1 items", name))
	}
	if !types.IsValidWei(items[0]) {
		return "", newValidationError(fmt.Sprintf(
			"querystring/%s/0 must match pattern \"%s\"", name, types.WeiPattern))
	}
	return items[0], nil
}
