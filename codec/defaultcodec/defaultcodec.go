// Package defaultcodec assembles the encoder and decoder used by clients
// that do not configure their own codecs.
//
// Registration order decides lookups: JSON, XML, YAML, TOML, then form
// encoding. JSON is also the default writer.
package defaultcodec

import (
	"github.com/kbukum/fluenthttp/codec"
	"github.com/kbukum/fluenthttp/codec/formcodec"
	"github.com/kbukum/fluenthttp/codec/jsoncodec"
	"github.com/kbukum/fluenthttp/codec/tomlcodec"
	"github.com/kbukum/fluenthttp/codec/xmlcodec"
	"github.com/kbukum/fluenthttp/codec/yamlcodec"
)

// Configuration supplies the encoder and decoder of a client.
type Configuration interface {
	Encoder() *codec.Encoder
	Decoder() *codec.Decoder
}

type configuration struct {
	encoder *codec.Encoder
	decoder *codec.Decoder
}

func (c *configuration) Encoder() *codec.Encoder { return c.encoder }
func (c *configuration) Decoder() *codec.Decoder { return c.decoder }

// Codecs returns the default codec list in registration order.
func Codecs() []codec.Codec {
	return []codec.Codec{
		jsoncodec.New(),
		xmlcodec.New(),
		yamlcodec.New(),
		tomlcodec.New(),
		formcodec.New(),
	}
}

// New builds a configuration from codecs. Readers and writers are
// registered in the given order.
func New(codecs ...codec.Codec) (Configuration, error) {
	readers := make([]codec.Reader, len(codecs))
	writers := make([]codec.Writer, len(codecs))
	for i, c := range codecs {
		readers[i] = c
		writers[i] = c
	}
	rr, err := codec.NewReaderRegistry(readers...)
	if err != nil {
		return nil, err
	}
	wr, err := codec.NewWriterRegistry(writers...)
	if err != nil {
		return nil, err
	}
	return &configuration{encoder: codec.NewEncoder(wr), decoder: codec.NewDecoder(rr)}, nil
}

// Default returns the configuration over Codecs.
func Default() Configuration {
	cfg, err := New(Codecs()...)
	if err != nil {
		// Built-in patterns are constant and always compile.
		panic(err)
	}
	return cfg
}
