// Package handlers binds the route aggregation service to its HTTP surface:
// query-schema validation, the routes endpoint and the liveness probe.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"curve-frontend/router-api/internal/types"
)

// RouteFinder is the aggregator surface the HTTP layer depends on.
type RouteFinder interface {
	GetRoutes(ctx context.Context, query *types.RoutesQuery) ([]types.RouteResponse, error)
}

// serverError mirrors fastify's default 5xx error body.
type serverError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"error"`
	Message    string `json:"message"`
}

// RoutesHandler serves the router API endpoints.
type RoutesHandler struct {
	finder      RouteFinder
	logger      *logrus.Logger
	serviceName string
	environment string
	version     string
	startedAt   time.Time
}

func NewRoutesHandler(finder RouteFinder, logger *logrus.Logger, serviceName, environment, version string) *RoutesHandler {
	return &RoutesHandler{
		finder:      finder,
		logger:      logger,
		serviceName: serviceName,
		environment: environment,
		version:     version,
		startedAt:   time.Now(),
	}
}

// GetRoutes handles GET /api/router/v1/routes. Validation failures return
// 400 before any provider is contacted; an all-providers-failed aggregation
// surfaces as 500. Partial provider failures are not visible here beyond the
// server-side logs.
func (h *RoutesHandler) GetRoutes(c *gin.Context) {
	query, vErr := parseRoutesQuery(c.Request.URL.Query())
	if vErr != nil {
		c.JSON(vErr.StatusCode, vErr)
		return
	}

	routes, err := h.finder.GetRoutes(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serverError{
			StatusCode: http.StatusInternalServerError,
			Name:       "Internal Server Error",
			Message:    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, routes)
}

// Health handles GET /health: a pure liveness probe with no dependency
// checks.
func (h *RoutesHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"service":     h.serviceName,
		"environment": h.environment,
		"version":     h.version,
		"uptime":      time.Since(h.startedAt).Seconds(),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
