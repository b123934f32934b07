// Package config loads the waveportal settings from the environment.
//
// Every variable is prefixed with WAVEPORTAL_, e.g. WAVEPORTAL_PROVIDER_URL.
package config

import (
	"time"

	"github.com/gabapcia/waveportal/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

const prefix = "WAVEPORTAL"

// Notifier backends.
const (
	NotifierNone     = "none"
	NotifierRedis    = "redis"
	NotifierRabbitMQ = "rabbitmq"
)

type Config struct {
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	ServiceName      string `envconfig:"SERVICE_NAME" default:"waveportal" validate:"required"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`

	// ProviderURL is the JSON-RPC endpoint of the wallet provider. Empty means
	// no provider is available.
	ProviderURL      string        `envconfig:"PROVIDER_URL" validate:"omitempty,url"`
	ProviderTimeout  time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s" validate:"gt=0"`
	ProviderRetryMax int           `envconfig:"PROVIDER_RETRY_MAX" default:"4" validate:"gte=0"`

	ContractAddress          string        `envconfig:"CONTRACT_ADDRESS" default:"0x4aCE859529307C21fB4c7dEF2C1d091Ff553b9fc" validate:"eth_addr"`
	GasLimit                 uint64        `envconfig:"GAS_LIMIT" default:"300000" validate:"gt=21000"`
	PollInterval             time.Duration `envconfig:"POLL_INTERVAL" default:"12s" validate:"gt=0"`
	ConfirmationPollInterval time.Duration `envconfig:"CONFIRMATION_POLL_INTERVAL" default:"2s" validate:"gt=0"`
	LogFetchAttempts         uint          `envconfig:"LOG_FETCH_ATTEMPTS" default:"3" validate:"gte=1"`

	Notifier string `envconfig:"NOTIFIER" default:"none" validate:"oneof=none redis rabbitmq"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379" validate:"required_if=Notifier redis"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0" validate:"gte=0"`
	RedisChannel  string `envconfig:"REDIS_CHANNEL" default:"waveportal" validate:"required_if=Notifier redis"`

	RabbitMQURL        string `envconfig:"RABBITMQ_URL" validate:"required_if=Notifier rabbitmq,omitempty,url"`
	RabbitMQExchange   string `envconfig:"RABBITMQ_EXCHANGE" default:"waveportal" validate:"required_if=Notifier rabbitmq"`
	RabbitMQRoutingKey string `envconfig:"RABBITMQ_ROUTING_KEY" default:"wave.new"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
