package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

const defaultHTTPAddr = ":3333"

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR"`
	Port     string `envconfig:"PORT"`

	GinMode  string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:"logs/app.log"`

	RabbitMQURL       string `envconfig:"RABBITMQ_URL"`
	RabbitExchange    string `envconfig:"RABBITMQ_EXCHANGE" default:"repositories"`
	RabbitQueue       string `envconfig:"RABBITMQ_QUEUE" default:"repositories.likes"`
	RabbitRoutingKey  string `envconfig:"RABBITMQ_ROUTING_KEY" default:"repository.command.like"`
	RabbitConsumerTag string `envconfig:"RABBITMQ_CONSUMER_TAG" default:"repohub-likes"`
	RabbitEventPrefix string `envconfig:"RABBITMQ_EVENT_PREFIX" default:"repository.event"`

	SSEHeartbeatSeconds int           `envconfig:"SSE_HEARTBEAT_SECONDS" default:"15"`
	SSEHeartbeat        time.Duration `ignored:"true"`

	OTELServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"repohub"`
	OTLPEndpoint    string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure    bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
}

// New reads an optional .env file and then the process environment.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.HTTPAddr == "" {
		if cfg.Port != "" {
			cfg.HTTPAddr = ":" + cfg.Port
		} else {
			cfg.HTTPAddr = defaultHTTPAddr
		}
	}
	cfg.SSEHeartbeat = time.Duration(cfg.SSEHeartbeatSeconds) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid GIN_MODE: %s (must be one of: debug, release, test)", c.GinMode)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.SSEHeartbeat <= 0 {
		return fmt.Errorf("SSE heartbeat must be positive")
	}
	if c.RabbitMQURL != "" && c.RabbitExchange == "" {
		return fmt.Errorf("RABBITMQ_EXCHANGE is required when RABBITMQ_URL is set")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}
