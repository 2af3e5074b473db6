package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/invoicebuild/invoicebuild/internal/config"
	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSubDeliversToSubscriber(t *testing.T) {
	cfg := config.GetDefaultConfig()
	ps := NewPubSub(cfg, logger.NewNopLogger())
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := ps.Subscribe(ctx, cfg.Events.Topic)
	require.NoError(t, err)

	msg := message.NewMessage("evt_1", []byte(`{"event_name":"invoice.created"}`))
	require.NoError(t, ps.Publish(ctx, cfg.Events.Topic, msg))

	select {
	case got := <-messages:
		assert.Equal(t, "evt_1", got.UUID)
		got.Ack()
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}
