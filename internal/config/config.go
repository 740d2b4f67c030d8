package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server    ServerConfig    `envPrefix:"SERVER_"`
	VTEX      VTEXConfig      `envPrefix:"VTEX_"`
	Weni      WeniConfig      `envPrefix:"WENI_"`
	Concierge ConciergeConfig `envPrefix:"CONCIERGE_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:"0.0.0.0:8080"`
}

// VTEXConfig holds the default commerce platform endpoints and credentials.
// Tool requests may carry their own credentials; these act as fallbacks.
type VTEXConfig struct {
	BaseURL        string `env:"BASE_URL"`
	StoreURL       string `env:"STORE_URL"`
	AppKey         string `env:"APP_KEY"`
	AppToken       string `env:"APP_TOKEN"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"30"`
}

type WeniConfig struct {
	BroadcastURL         string `env:"BROADCAST_URL" envDefault:"https://flows.weni.ai/api/v2/whatsapp_broadcasts.json"`
	InternalBroadcastURL string `env:"INTERNAL_BROADCAST_URL" envDefault:"https://flows.weni.ai/api/v2/internals/whatsapp_broadcasts"`
	FlowStartsURL        string `env:"FLOW_STARTS_URL" envDefault:"https://flows.weni.ai/api/v2/flow_starts.json"`
	ConversionURL        string `env:"CONVERSION_URL" envDefault:"https://flows.weni.ai/conversion/"`
	Token                string `env:"TOKEN"`
	JWTToken             string `env:"JWT_TOKEN"`
	ChannelUUID          string `env:"CHANNEL_UUID"`
	TimeoutSeconds       int    `env:"TIMEOUT_SECONDS" envDefault:"10"`
}

type ConciergeConfig struct {
	DefaultSeller      string   `env:"DEFAULT_SELLER" envDefault:"1"`
	MaxProducts        int      `env:"MAX_PRODUCTS"`
	MaxVariations      int      `env:"MAX_VARIATIONS"`
	MaxPayloadKB       int      `env:"MAX_PAYLOAD_KB" envDefault:"20"`
	PriorityCategories []string `env:"PRIORITY_CATEGORIES" envSeparator:","`
	DefaultTimezone    string   `env:"DEFAULT_TIMEZONE" envDefault:"America/Sao_Paulo"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
