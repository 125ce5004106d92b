package defaultcodec

import (
	"strings"
	"testing"

	"github.com/kbukum/fluenthttp/codec"
	"github.com/kbukum/fluenthttp/codec/jsoncodec"
	"github.com/kbukum/fluenthttp/errors"
)

type customer struct {
	Name  string `json:"Name" yaml:"name" toml:"name" url:"name"`
	Email string `json:"Email" yaml:"email" toml:"email" url:"email"`
}

func TestDefault_RoundTrips(t *testing.T) {
	cfg := Default()
	in := customer{Name: "Hadi", Email: "h@x.org"}

	for _, ct := range []string{
		"application/json",
		"application/x-yaml",
		"application/toml",
		"application/x-www-form-urlencoded",
	} {
		t.Run(ct, func(t *testing.T) {
			body, err := cfg.Encoder().Encode(in, ct)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := codec.Decode[customer](cfg.Decoder(), string(body), ct+"; charset=utf-8")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != in {
				t.Errorf("expected %+v, got %+v", in, got)
			}
		})
	}
}

func TestDefault_DynamicJSON(t *testing.T) {
	v, err := Default().Decoder().DecodeDynamic(`{"Result":"Hello, Matt"}`, "application/json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Get("Result").String() != "Hello, Matt" {
		t.Errorf("unexpected value %v", v.Raw())
	}
}

func TestDefault_JSONIsDefaultWriter(t *testing.T) {
	w := Default().Encoder().Writers().Default()
	if _, ok := w.(*jsoncodec.Codec); !ok {
		t.Errorf("expected json default writer, got %T", w)
	}
}

func TestDefault_Unsupported(t *testing.T) {
	_, err := Default().Decoder().DecodeDynamic("<html></html>", "text/html")
	if !errors.HasCode(err, errors.ErrCodeUnsupportedMediaType) {
		t.Errorf("expected UNSUPPORTED_MEDIA_TYPE, got %v", err)
	}
}

func TestNew_CustomOrder(t *testing.T) {
	vendor := jsoncodec.New(jsoncodec.WithContentTypes("application/.*json"))
	cfg, err := New(vendor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := cfg.Encoder().Encode(map[string]int{"a": 1}, "application/vnd.fubar+json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), `"a":1`) {
		t.Errorf("unexpected body %s", body)
	}
}

type mappedName struct {
	Value string `json:"abc"`
}

func TestDefault_DecodeMappedFieldName(t *testing.T) {
	got, err := codec.Decode[mappedName](Default().Decoder(), `{"abc":"def"}`, "application/json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != "def" {
		t.Errorf("expected Value=def, got %q", got.Value)
	}
}

type color int

const (
	colorRed color = iota
	colorGreen
	colorBlue
)

type paint struct {
	Name  string
	Color color
}

func TestNew_EncodesEnumThroughVendorPattern(t *testing.T) {
	vendor := jsoncodec.New(jsoncodec.WithContentTypes("application/.*json"))
	cfg, err := New(vendor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, err := cfg.Encoder().Encode(paint{Name: "sky", Color: colorBlue}, "application/vnd.fubar+json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected non-empty body")
	}
	if !strings.Contains(string(body), `"Color":2`) {
		t.Errorf("unexpected body %s", body)
	}

	got, err := codec.Decode[paint](cfg.Decoder(), string(body), "application/vnd.fubar+json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Color != colorBlue || got.Name != "sky" {
		t.Errorf("round trip = %+v", got)
	}
}
