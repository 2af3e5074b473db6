package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shopify/sarama"
	"github.com/go-playground/validator/v10"
	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment  DeploymentConfig  `validate:"required"`
	Server      ServerConfig      `validate:"required"`
	Logging     LoggingConfig     `validate:"required"`
	Store       StoreConfig       `validate:"required"`
	Postgres    PostgresConfig    `validate:"required"`
	Bolt        BoltConfig        `validate:"required"`
	Sentry      SentryConfig      `validate:"-"`
	Idempotency IdempotencyConfig `validate:"required"`
	Events      EventsConfig      `validate:"required"`
	Custody     CustodyConfig     `validate:"required"`
	Kafka       KafkaConfig       `validate:"-"`
	Pyroscope   PyroscopeConfig   `validate:"-"`
}

func (c Configuration) webhookValid() error {
	if c.Events.Webhook.Enabled && c.Events.Webhook.URL == "" {
		return errors.New("events.webhook.url is required when the webhook is enabled")
	}
	return nil
}

func (c Configuration) kafkaValid() error {
	if c.Events.Transport == types.EventTransportKafka && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required when events.transport is kafka")
	}
	return nil
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address   string          `validate:"required"`
	RateLimit RateLimitConfig `validate:"-"`
}

// RateLimitConfig bounds the request rate of each caller, keyed by account
// address or, for anonymous calls, by client ip
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type StoreConfig struct {
	Type types.StoreType `validate:"required,oneof=memory postgres bolt"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string
	SSLMode                string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
	ConnectRetries         int
	AutoMigrate            bool
}

type BoltConfig struct {
	Path    string        `validate:"required"`
	Timeout time.Duration `validate:"-"`
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64
}

type IdempotencyConfig struct {
	TTL time.Duration `validate:"required"`
}

type EventsConfig struct {
	Topic     string               `validate:"required"`
	Transport types.EventTransport `validate:"required,oneof=memory kafka"`
	Webhook   WebhookConfig        `validate:"-"`
}

// KafkaConfig is used when events travel through a broker instead of the
// in-process channel
type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string
	TLS           bool
	UseSASL       bool
	SASLMechanism sarama.SASLMechanism
	SASLUser      string
	SASLPassword  string
}

type PyroscopeConfig struct {
	Enabled         bool
	ServerAddress   string
	ApplicationName string
	BasicAuthUser   string
	BasicAuthPass   string
	SampleRate      uint32
	DisableGCRuns   bool
	ProfileTypes    []string
}

// WebhookConfig controls forwarding of domain events to an external endpoint
type WebhookConfig struct {
	Enabled         bool
	URL             string
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

// CustodyConfig names the account that momentarily holds attached payment
// value before it is forwarded to the invoice owner
type CustodyConfig struct {
	Address string `validate:"required,eth_addr"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional, it only seeds the process environment for local runs
	_ = godotenv.Load()

	v := viper.New()

	// Modify config paths to ensure config.yaml is found
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/invoicebuild")

	// Set up environment variables support
	v.SetEnvPrefix("INVOICEBUILD")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.ratelimit.enabled", false)
	v.SetDefault("server.ratelimit.requestspersecond", d.Server.RateLimit.RequestsPerSecond)
	v.SetDefault("server.ratelimit.burst", d.Server.RateLimit.Burst)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("store.type", d.Store.Type)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.maxopenconns", 10)
	v.SetDefault("postgres.maxidleconns", 5)
	v.SetDefault("postgres.connmaxlifetimeminutes", 30)
	v.SetDefault("postgres.connectretries", 5)
	v.SetDefault("bolt.path", d.Bolt.Path)
	v.SetDefault("bolt.timeout", d.Bolt.Timeout)
	v.SetDefault("idempotency.ttl", d.Idempotency.TTL)
	v.SetDefault("events.topic", d.Events.Topic)
	v.SetDefault("events.transport", d.Events.Transport)
	v.SetDefault("events.webhook.enabled", false)
	v.SetDefault("events.webhook.timeout", d.Events.Webhook.Timeout)
	v.SetDefault("events.webhook.maxretries", d.Events.Webhook.MaxRetries)
	v.SetDefault("events.webhook.initialinterval", d.Events.Webhook.InitialInterval)
	v.SetDefault("events.webhook.maxinterval", d.Events.Webhook.MaxInterval)
	v.SetDefault("events.webhook.multiplier", d.Events.Webhook.Multiplier)
	v.SetDefault("events.webhook.maxelapsedtime", d.Events.Webhook.MaxElapsedTime)
	v.SetDefault("custody.address", d.Custody.Address)
	v.SetDefault("kafka.consumergroup", d.Kafka.ConsumerGroup)
	v.SetDefault("kafka.clientid", d.Kafka.ClientID)
	v.SetDefault("pyroscope.enabled", false)
	v.SetDefault("pyroscope.applicationname", d.Pyroscope.ApplicationName)
	v.SetDefault("pyroscope.samplerate", d.Pyroscope.SampleRate)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := c.webhookValid(); err != nil {
		return err
	}
	return c.kafkaValid()
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server: ServerConfig{
			Address:   ":8080",
			RateLimit: RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
		},
		Logging:     LoggingConfig{Level: types.LogLevelDebug},
		Store:       StoreConfig{Type: types.StoreTypeMemory},
		Bolt:        BoltConfig{Path: "invoicebuild.db", Timeout: time.Second},
		Idempotency: IdempotencyConfig{TTL: 24 * time.Hour},
		Events: EventsConfig{
			Topic:     "invoice_events",
			Transport: types.EventTransportMemory,
			Webhook: WebhookConfig{
				Timeout:         10 * time.Second,
				MaxRetries:      3,
				InitialInterval: time.Second,
				MaxInterval:     10 * time.Second,
				Multiplier:      2,
				MaxElapsedTime:  time.Minute,
			},
		},
		Custody:   CustodyConfig{Address: "0x0000000000000000000000000000000000000001"},
		Kafka:     KafkaConfig{ConsumerGroup: "invoicebuild", ClientID: "invoicebuild"},
		Pyroscope: PyroscopeConfig{ApplicationName: "invoicebuild", SampleRate: 100},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
