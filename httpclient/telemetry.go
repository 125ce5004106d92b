package httpclient

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/fluenthttp/httpclient"

// Attribute keys follow the OpenTelemetry HTTP client conventions.
const (
	attrMethod     = "http.request.method"
	attrURL        = "url.full"
	attrStatusCode = "http.response.status_code"
	attrErrorType  = "error.type"
)

// telemetry holds the tracer and instruments of one client.
type telemetry struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram
}

// newTelemetry creates instruments on the given providers. Nil providers
// fall back to the global ones.
func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*telemetry, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	duration, err := mp.Meter(instrumentationName).Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.request.duration histogram: %w", err)
	}

	return &telemetry{
		tracer:   tp.Tracer(instrumentationName),
		duration: duration,
	}, nil
}

// start opens the client span of one exchange.
func (t *telemetry) start(ctx context.Context, method, uri string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(attrMethod, method),
			attribute.String(attrURL, uri),
		),
	)
}

// end records the outcome of an exchange and closes its span. status is
// zero when no response arrived.
func (t *telemetry) end(ctx context.Context, span trace.Span, method string, status int, err error, elapsed time.Duration) {
	attrs := []attribute.KeyValue{attribute.String(attrMethod, method)}
	if status > 0 {
		attrs = append(attrs, attribute.Int(attrStatusCode, status))
		span.SetAttributes(attribute.Int(attrStatusCode, status))
	}

	switch {
	case err != nil:
		errType := "error"
		if e, ok := AsError(err); ok {
			errType = e.Code.String()
		}
		attrs = append(attrs, attribute.String(attrErrorType, errType))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case status >= 400:
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
	}

	t.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
	span.End()
}
