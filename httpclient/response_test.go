package httpclient

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/fluenthttp/codec/defaultcodec"
	"github.com/kbukum/fluenthttp/errors"
)

func rawResponse(status int, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Header:        header,
		ContentLength: int64(len(body)),
		Body:          io.NopCloser(strings.NewReader(body)),
	}
}

func TestNewResponse_Headers(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "text/plain; charset=ISO-8859-1")
	h.Set("ETag", `W/"abc"`)
	h.Set("Age", "42")
	h.Set("Expires", "Wed, 21 Oct 2015 07:28:00 GMT")
	h.Set("Last-Modified", "not a date")
	h.Set("Date", "Tue, 20 Oct 2015 07:28:00 GMT")
	h.Set("Content-Language", "en-GB")
	h.Set("Content-Location", "/doc/1")
	h.Set("Content-Disposition", `attachment; filename="a.txt"`)
	h.Set("Location", "/next")
	h.Add("Allow", "GET, HEAD")
	h.Add("Allow", "POST")
	h.Add("Set-Cookie", "session=abc; Path=/")

	raw := rawResponse(http.StatusOK, h, "")
	raw.Status = "200 OK"
	resp := newResponse(raw, nil)

	if resp.StatusDescription != "OK" {
		t.Errorf("StatusDescription = %q", resp.StatusDescription)
	}
	if resp.CharacterSet != "ISO-8859-1" {
		t.Errorf("CharacterSet = %q", resp.CharacterSet)
	}
	if resp.ETag != "abc" {
		t.Errorf("ETag = %q", resp.ETag)
	}
	if resp.Age != 42 {
		t.Errorf("Age = %d", resp.Age)
	}
	if !resp.Expires.Equal(time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)) {
		t.Errorf("Expires = %v", resp.Expires)
	}
	if !resp.LastModified.IsZero() {
		t.Errorf("unparsable Last-Modified should be skipped, got %v", resp.LastModified)
	}
	if resp.Date.Day() != 20 {
		t.Errorf("Date = %v", resp.Date)
	}
	if resp.ContentLanguage != "en-GB" || resp.ContentLocation != "/doc/1" || resp.Location != "/next" {
		t.Errorf("named headers not extracted: %+v", resp)
	}
	if resp.ContentDisposition != `attachment; filename="a.txt"` {
		t.Errorf("ContentDisposition = %q", resp.ContentDisposition)
	}
	if len(resp.Allow) != 3 || resp.Allow[2] != "POST" {
		t.Errorf("Allow = %v", resp.Allow)
	}
	if len(resp.Cookies) != 1 || resp.Cookies[0].Value != "abc" {
		t.Errorf("Cookies = %v", resp.Cookies)
	}
}

func TestNewResponse_Fallbacks(t *testing.T) {
	raw := rawResponse(http.StatusTeapot, nil, "")
	raw.Status = "418"
	before := time.Now()
	resp := newResponse(raw, nil)
	if resp.StatusDescription != "I'm a teapot" {
		t.Errorf("StatusDescription = %q", resp.StatusDescription)
	}
	if resp.Date.Before(before) {
		t.Errorf("missing Date should default to now, got %v", resp.Date)
	}
	if resp.Age != 0 || !resp.Expires.IsZero() {
		t.Errorf("absent headers should stay unset: %+v", resp)
	}
}

func TestResponse_DecodeLazily(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/json; charset=utf-8")
	resp := newResponse(rawResponse(http.StatusOK, h, ""), defaultcodec.Default().Decoder())
	resp.RawText = `{"@abc":"def","n":[1,2]}`

	type target struct {
		Abc string `json:"abc"`
	}
	got, err := TypedBody[target](resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Abc != "def" {
		t.Errorf("Abc = %q", got.Abc)
	}

	first, err := resp.DynamicBody()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := resp.DynamicBody()
	if first == second {
		t.Error("each access should decode anew")
	}
	if s, _ := first.Get("abc").Str(); s != "def" {
		t.Errorf("abc = %q", s)
	}
	if first.Get("n").Len() != 2 {
		t.Errorf("n = %v", first.Get("n"))
	}
}

func TestResponse_DecodeOverrideContentType(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "text/plain")
	resp := newResponse(rawResponse(http.StatusOK, h, ""), defaultcodec.Default().Decoder())
	resp.RawText = "Result: yaml\n"

	if _, err := resp.DynamicBody(); !errors.HasCode(err, errors.ErrCodeUnsupportedMediaType) {
		t.Errorf("expected UNSUPPORTED_MEDIA_TYPE, got %v", err)
	}
	var out struct {
		Result string `yaml:"Result"`
	}
	if err := resp.DecodeInto(&out, "application/yaml"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result != "yaml" {
		t.Errorf("Result = %q", out.Result)
	}
}

func TestResponse_EmptyBody(t *testing.T) {
	resp := newResponse(rawResponse(http.StatusNoContent, nil, ""), defaultcodec.Default().Decoder())
	_, err := resp.DynamicBody()
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestResponse_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	resp := &Response{}
	data := strings.Repeat("0123456789", 2000)
	if err := resp.writeFile(strings.NewReader(data), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != data {
		t.Errorf("wrote %d bytes, want %d", len(got), len(data))
	}

	err = resp.writeFile(strings.NewReader("again"), path)
	if !errors.HasCode(err, errors.ErrCodeIO) {
		t.Errorf("existing file should fail with IO_ERROR, got %v", err)
	}
	got, _ = os.ReadFile(path)
	if string(got) != data {
		t.Error("existing file must not be overwritten")
	}
}

func TestResponse_CloseWithoutStream(t *testing.T) {
	resp := &Response{}
	if resp.ResponseStream() != nil {
		t.Error("buffered response should have no stream")
	}
	if err := resp.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
