package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"curve-frontend/router-api/internal/types"
)

// BaseAdapter carries the HTTP plumbing shared by the REST-backed providers
// (odos, enso): a dedicated client and uniform status handling.
type BaseAdapter struct {
	provider   types.Provider
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewBaseAdapter builds the shared HTTP layer. The base URL is injected at
// startup so tests can point the adapter at a fake server without touching
// process state.
func NewBaseAdapter(provider types.Provider, baseURL string, logger *logrus.Logger) *BaseAdapter {
	return &BaseAdapter{
		provider: provider,
		baseURL:  baseURL,
		logger:   logger,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

// getJSON performs a GET against the provider API and decodes the JSON body
// into target. A non-2xx status becomes a *types.ProviderError carrying the
// status and body; this is a provider failure, distinct from "no route".
func (b *BaseAdapter) getJSON(ctx context.Context, url string, target any) error {
	b.logger.WithFields(logrus.Fields{"provider": b.provider, "url": url}).Debug("provider request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", b.provider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return &types.ProviderError{Provider: b.provider, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &types.ProviderError{Provider: b.provider, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &types.ProviderError{
			Provider:   b.provider,
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Message:    string(body),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &types.ProviderError{Provider: b.provider, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
