package core

import (
	"context"

	"github.com/huangsam/churnchart/internal/observability"
)

// Context keys for pipeline options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	metricsKey        contextKey = "metrics"
)

// WithSuppressHeader marks the context so that run headers are not printed.
// MCP handlers use it because stdout belongs to the protocol.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// WithMetrics attaches pass metrics to the context.
func WithMetrics(ctx context.Context, m *observability.Metrics) context.Context {
	return context.WithValue(ctx, metricsKey, m)
}

// metricsFrom returns the attached metrics, or nil. A nil *Metrics is safe to use.
func metricsFrom(ctx context.Context) *observability.Metrics {
	m, _ := ctx.Value(metricsKey).(*observability.Metrics)
	return m
}
