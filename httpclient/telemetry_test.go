package httpclient_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/fluenthttp/httpclient"
)

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestClient_Telemetry(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	client, _ := setup(t, httpclient.Config{ThrowOnHTTPError: true},
		httpclient.WithTracerProvider(tp), httpclient.WithMeterProvider(mp))

	_, err := client.Get(context.Background(), "/hello", nil)
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "/users", nil)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "HTTP GET", ok.Name())
	status, found := spanAttr(ok, "http.response.status_code")
	require.True(t, found)
	assert.Equal(t, int64(http.StatusOK), status.AsInt64())
	url, _ := spanAttr(ok, "url.full")
	assert.Contains(t, url.AsString(), "/hello")
	assert.Equal(t, codes.Unset, ok.Status().Code)

	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status().Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var names []string
	var points int
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names = append(names, m.Name)
			if hist, ok := m.Data.(metricdata.Histogram[float64]); ok {
				for _, dp := range hist.DataPoints {
					points += int(dp.Count)
				}
			}
		}
	}
	assert.Contains(t, names, "http.client.request.duration")
	assert.Equal(t, 2, points)
}
