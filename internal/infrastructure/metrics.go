package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
)

const (
	ServiceName    = "fcig-calculator"
	ServiceVersion = "1.0.0"
	MeterName      = "fcigcli"
)

// MetricsProviders holds the metric provider and the HTTP handler that
// exposes the Prometheus scrape endpoint.
type MetricsProviders struct {
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	PrometheusHTTP http.Handler
}

// InitializeMetrics sets up the OpenTelemetry meter provider with a
// Prometheus exporter and registers it globally.
func InitializeMetrics(ctx context.Context, logger *slog.Logger) (*MetricsProviders, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)

	providers := &MetricsProviders{
		MeterProvider:  mp,
		Meter:          mp.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion)),
		PrometheusHTTP: promhttp.Handler(),
	}

	logger.InfoContext(ctx, "Metrics initialized",
		slog.String("exporter", "prometheus"))

	return providers, nil
}

// BusinessMetrics holds application-specific instruments.
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	IndexQueriesTotal   metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics.
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	indexQueriesTotal, err := meter.Int64Counter(
		"index_queries_total",
		metric.WithDescription("Total number of index series queries"),
	)
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		IndexQueriesTotal:   indexQueriesTotal,
	}, nil
}

// Shutdown flushes and stops the meter provider.
func (p *MetricsProviders) Shutdown(ctx context.Context) error {
	if p == nil || p.MeterProvider == nil {
		return nil
	}
	return p.MeterProvider.Shutdown(ctx)
}
