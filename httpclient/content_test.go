package httpclient

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

func compressWith(t *testing.T, encoding, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "zlib":
		w = zlib.NewWriter(&buf)
	case "flate":
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			t.Fatal(err)
		}
		w = fw
	case "zstd":
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatal(err)
		}
		w = zw
	default:
		t.Fatalf("unknown encoding %s", encoding)
	}
	if _, err := w.Write([]byte(text)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecompress(t *testing.T) {
	const text = `{"Result":"Hello, World"}`
	tests := []struct {
		name     string
		body     []byte
		encoding string
	}{
		{"identity", []byte(text), ""},
		{"gzip", compressWith(t, "gzip", text), "gzip"},
		{"x-gzip", compressWith(t, "gzip", text), "x-gzip"},
		{"deflate zlib", compressWith(t, "zlib", text), "deflate"},
		{"deflate raw", compressWith(t, "flate", text), "deflate"},
		{"zstd", compressWith(t, "zstd", text), "zstd"},
		{"unknown left alone", []byte(text), "br"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := decompress(io.NopCloser(bytes.NewReader(tt.body)), tt.encoding)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := rc.Close(); err != nil {
				t.Fatalf("unexpected close error: %v", err)
			}
			if string(got) != text {
				t.Errorf("got %q", got)
			}
		})
	}
}

func TestDecompress_EmptyBody(t *testing.T) {
	rc, err := decompress(io.NopCloser(strings.NewReader("")), "gzip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := io.ReadAll(rc)
	if len(got) != 0 {
		t.Errorf("got %q", got)
	}
}

func TestDecompress_Corrupt(t *testing.T) {
	_, err := decompress(io.NopCloser(strings.NewReader("not gzip")), "gzip")
	if err == nil {
		t.Fatal("expected error for corrupt gzip body")
	}
}

func TestTextReader(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		label string
		want  string
	}{
		{"utf-8", []byte("café"), "utf-8", "café"},
		{"empty label", []byte("café"), "", "café"},
		{"latin1", []byte("caf\xe9"), "iso-8859-1", "café"},
		{"quoted label", []byte("caf\xe9"), `"ISO-8859-1"`, "café"},
		{"unknown label", []byte("plain"), "x-unknown", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(textReader(bytes.NewReader(tt.in), tt.label))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
