package config

import (
	"fmt"

	"github.com/kbukum/fluenthttp/httpclient"
)

// LoadClient loads an httpclient.Config for name, applies defaults and
// validates it.
//
//	cfg, err := config.LoadClient("billing-api")
//	// reads ./billing-api.yml or ./config.yml, then BILLING_API_* variables
//	client, err := httpclient.New(cfg)
func LoadClient(name string, opts ...LoaderOption) (httpclient.Config, error) {
	var cfg httpclient.Config
	if err := Load(name, &cfg, opts...); err != nil {
		return httpclient.Config{}, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return httpclient.Config{}, fmt.Errorf("invalid client config %s: %w", name, err)
	}
	return cfg, nil
}
