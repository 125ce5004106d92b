package sse_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/fluenthttp/httpclient"
	"github.com/kbukum/fluenthttp/httpclient/sse"
	"github.com/kbukum/fluenthttp/testutil"
)

func TestFromResponse_StreamedEvents(t *testing.T) {
	srv := testutil.NewFixtureServer()
	testutil.T(t).Setup(srv)

	client, err := httpclient.New(httpclient.Config{BaseURL: srv.URL(), StreamResponse: true})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	resp, err := client.Get(context.Background(), "/events", nil)
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", resp.ContentType)

	events, err := sse.FromResponse(resp)
	require.NoError(t, err)
	defer events.Close()

	first, err := events.Next()
	require.NoError(t, err)
	assert.Equal(t, "greeting", first.Type)
	assert.Equal(t, "1", first.ID)
	var g testutil.Greeting
	require.NoError(t, first.Decode(&g))
	assert.Equal(t, "Hello", g.Result)

	second, err := events.Next()
	require.NoError(t, err)
	assert.Equal(t, sse.DefaultEventType, second.Type)
	assert.Equal(t, "line one\nline two", second.Data)
	assert.Equal(t, "1", second.ID)

	third, err := events.Next()
	require.NoError(t, err)
	assert.Equal(t, "bye", third.Data)
	assert.Equal(t, 1500*time.Millisecond, third.Retry)

	_, err = events.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "2", events.LastEventID())
}

func TestFromResponse_BufferedResponse(t *testing.T) {
	srv := testutil.NewFixtureServer()
	testutil.T(t).Setup(srv)

	client, err := httpclient.New(httpclient.Config{BaseURL: srv.URL()})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	resp, err := client.Get(context.Background(), "/events", nil)
	require.NoError(t, err)

	_, err = sse.FromResponse(resp)
	assert.Error(t, err)
}
