package sse

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	fherrors "github.com/kbukum/fluenthttp/errors"
)

type nopCloser struct {
	io.Reader
	closed bool
}

func (n *nopCloser) Close() error {
	n.closed = true
	return nil
}

func newReader(s string) (*Reader, *nopCloser) {
	body := &nopCloser{Reader: strings.NewReader(s)}
	return NewReader(body), body
}

func TestReader_Events(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   []Event
	}{
		{
			name:   "single event",
			stream: "data: hello world\n\n",
			want:   []Event{{Type: "message", Data: "hello world"}},
		},
		{
			name:   "multiple events",
			stream: "data: first\n\ndata: second\n\n",
			want:   []Event{{Type: "message", Data: "first"}, {Type: "message", Data: "second"}},
		},
		{
			name:   "multi-line data",
			stream: "data: a\ndata: b\ndata:c\n\n",
			want:   []Event{{Type: "message", Data: "a\nb\nc"}},
		},
		{
			name:   "event type and id",
			stream: "event: update\nid: 7\ndata: x\n\n",
			want:   []Event{{Type: "update", Data: "x", ID: "7"}},
		},
		{
			name:   "id carries over",
			stream: "id: 7\ndata: x\n\ndata: y\n\n",
			want:   []Event{{Type: "message", Data: "x", ID: "7"}, {Type: "message", Data: "y", ID: "7"}},
		},
		{
			name:   "comments and unknown fields",
			stream: ": keepalive\nfoo: bar\ndata: x\n\n",
			want:   []Event{{Type: "message", Data: "x"}},
		},
		{
			name:   "event without data is skipped",
			stream: "event: ping\n\ndata: x\n\n",
			want:   []Event{{Type: "message", Data: "x"}},
		},
		{
			name:   "retry",
			stream: "retry: 2500\ndata: x\n\n",
			want:   []Event{{Type: "message", Data: "x", Retry: 2500 * time.Millisecond}},
		},
		{
			name:   "crlf line endings",
			stream: "data: x\r\n\r\n",
			want:   []Event{{Type: "message", Data: "x"}},
		},
		{
			name:   "unterminated event is dropped",
			stream: "data: x\n\ndata: partial",
			want:   []Event{{Type: "message", Data: "x"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newReader(tc.stream)
			var got []Event
			for {
				ev, err := r.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				got = append(got, ev)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d events %+v, want %d", len(got), got, len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("event %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestReader_LastEventID(t *testing.T) {
	r, _ := newReader("id: 1\ndata: a\n\nid: 2\ndata: b\n\n")
	for {
		if _, err := r.Next(); err != nil {
			break
		}
	}
	if r.LastEventID() != "2" {
		t.Errorf("LastEventID = %q, want 2", r.LastEventID())
	}
}

func TestReader_Close(t *testing.T) {
	r, body := newReader("")
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !body.closed {
		t.Error("body not closed")
	}
}

func TestReader_LineTooLong(t *testing.T) {
	r, _ := newReader("data: " + strings.Repeat("x", maxLine+1) + "\n\n")
	_, err := r.Next()
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected read error, got %v", err)
	}
	if !fherrors.HasCode(err, fherrors.ErrCodeIO) {
		t.Errorf("expected IO error, got %v", err)
	}
}

func TestEvent_Decode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := (Event{Data: `{"name":"sse"}`}).Decode(&v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Name != "sse" {
		t.Errorf("Name = %q", v.Name)
	}
}

func TestFromResponse_NotStreamed(t *testing.T) {
	_, err := FromResponse(nil)
	if !fherrors.HasCode(err, fherrors.ErrCodeInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}
