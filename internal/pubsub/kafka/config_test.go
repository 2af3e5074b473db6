package kafka

import (
	"testing"

	"github.com/Shopify/sarama"
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestSaramaConfigPlain(t *testing.T) {
	cfg := config.GetDefaultConfig()

	sc := GetSaramaConfig(cfg)
	assert.Equal(t, "invoicebuild", sc.ClientID)
	assert.Equal(t, sarama.OffsetOldest, sc.Consumer.Offsets.Initial)
	assert.True(t, sc.Producer.Return.Successes)
	assert.False(t, sc.Net.TLS.Enable)
	assert.False(t, sc.Net.SASL.Enable)
}

func TestSaramaConfigSASLForcesTLS(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Kafka.UseSASL = true
	cfg.Kafka.SASLMechanism = sarama.SASLTypePlaintext
	cfg.Kafka.SASLUser = "svc"
	cfg.Kafka.SASLPassword = "secret"

	sc := GetSaramaConfig(cfg)
	assert.True(t, sc.Net.SASL.Enable)
	assert.True(t, sc.Net.TLS.Enable)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypePlaintext), sc.Net.SASL.Mechanism)
	assert.Equal(t, "svc", sc.Net.SASL.User)
	assert.NoError(t, sc.Validate())
}
