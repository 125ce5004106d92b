// Package sse reads Server-Sent Events from a streamed response.
//
//	client.SetStreamResponse(true)
//	resp, err := client.Get(ctx, "/events", nil)
//	events, err := sse.FromResponse(resp)
//	defer events.Close()
//	for {
//		ev, err := events.Next()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/fluenthttp/codec/jsoncodec"
	"github.com/kbukum/fluenthttp/errors"
	"github.com/kbukum/fluenthttp/httpclient"
)

// DefaultEventType is the type of events without an "event:" field.
const DefaultEventType = "message"

// maxLine bounds a single field line.
const maxLine = 1 << 20

var json = jsoncodec.New()

// Event is a single dispatched event.
type Event struct {
	// Type is the "event:" field, DefaultEventType when absent.
	Type string
	// Data joins every "data:" line of the event with '\n'.
	Data string
	// ID is the last event ID seen on the stream, including this event.
	ID string
	// Retry is the reconnection delay the server asked for, zero if none.
	Retry time.Duration
}

// Decode decodes Data as JSON into v.
func (e Event) Decode(v any) error {
	return json.Read(e.Data, v)
}

// Reader reads events from a stream. It is not safe for concurrent use.
type Reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
	lastID  string
}

// NewReader creates a reader over body. Close closes body.
func NewReader(body io.ReadCloser) *Reader {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)
	return &Reader{scanner: scanner, body: body}
}

// FromResponse reads the body of a streamed response.
func FromResponse(resp *httpclient.Response) (*Reader, error) {
	if resp == nil || resp.ResponseStream() == nil {
		return nil, errors.InvalidArgument("response", "response body is not streamed")
	}
	return NewReader(resp.ResponseStream()), nil
}

// Next returns the next event, or io.EOF when the stream ends. Events
// without data are not dispatched, and a trailing event without its
// blank line is dropped.
func (r *Reader) Next() (Event, error) {
	var (
		data    strings.Builder
		hasData bool
		ev      Event
	)
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			if !hasData {
				ev = Event{}
				continue
			}
			ev.Data = data.String()
			ev.ID = r.lastID
			if ev.Type == "" {
				ev.Type = DefaultEventType
			}
			return ev, nil
		}
		if line[0] == ':' {
			continue
		}

		field, value := parseLine(line)
		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			ev.Type = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				r.lastID = value
			}
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				ev.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
	if err := r.scanner.Err(); err != nil {
		return Event{}, errors.IO("read", "event stream", err)
	}
	return Event{}, io.EOF
}

// LastEventID is the value a reconnecting client sends as Last-Event-ID.
func (r *Reader) LastEventID() string {
	return r.lastID
}

// Close releases the underlying stream.
func (r *Reader) Close() error {
	return r.body.Close()
}

// parseLine splits "field: value", dropping one space after the colon.
func parseLine(line string) (field, value string) {
	field, value, found := strings.Cut(line, ":")
	if !found {
		return line, ""
	}
	return field, strings.TrimPrefix(value, " ")
}
