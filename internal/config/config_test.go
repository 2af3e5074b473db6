package config

import (
	"testing"

	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.StoreTypeMemory, cfg.Store.Type)
}

func TestValidateRejectsUnknownStore(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Store.Type = "mongo"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadCustodyAddress(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Custody.Address = "not-an-address"
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db",
		Port:     5432,
		User:     "u",
		Password: "p",
		DBName:   "invoices",
		SSLMode:  "disable",
	}
	assert.Equal(t, "user=u password=p dbname=invoices host=db port=5432 sslmode=disable", cfg.GetDSN())
}

func TestValidateRequiresWebhookURL(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Events.Webhook.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg.Events.Webhook.URL = "http://localhost:9000/hooks"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresKafkaBrokers(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Events.Transport = types.EventTransportKafka
	assert.Error(t, cfg.Validate())

	cfg.Kafka.Brokers = []string{"localhost:9092"}
	assert.NoError(t, cfg.Validate())

	cfg.Events.Transport = "nats"
	assert.Error(t, cfg.Validate())
}
