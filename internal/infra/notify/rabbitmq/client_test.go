package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gabapcia/waveportal/internal/infra/notify"
	"github.com/gabapcia/waveportal/internal/wavefeed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ChannelMock struct {
	mock.Mock
}

func (m *ChannelMock) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *ChannelMock) Close() error {
	return m.Called().Error(0)
}

func NewChannelMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ChannelMock {
	m := &ChannelMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func TestClient_NotifyWave(t *testing.T) {
	record := wavefeed.Record{
		Author:     "0x1111111111111111111111111111111111111111",
		OccurredAt: time.Unix(100, 0).UTC(),
		Message:    "gm",
	}

	t.Run("publishes a persistent JSON message", func(t *testing.T) {
		var published amqp.Publishing

		ch := NewChannelMock(t)
		ch.On("PublishWithContext", mock.Anything, "waves", "wave.new", false, false, mock.AnythingOfType("amqp091.Publishing")).
			Run(func(args mock.Arguments) { published = args.Get(5).(amqp.Publishing) }).
			Return(nil).
			Once()

		c := &client{channel: ch, exchange: "waves", routingKey: "wave.new", contract: "0xABC"}
		require.NoError(t, c.NotifyWave(t.Context(), record))

		assert.Equal(t, amqp.Persistent, published.DeliveryMode)
		assert.Equal(t, "application/json", published.ContentType)

		var msg notify.WaveMessage
		require.NoError(t, json.Unmarshal(published.Body, &msg))
		assert.Equal(t, notify.WaveMessage{
			Contract:   "0xabc",
			Author:     record.Author,
			OccurredAt: 100,
			Message:    "gm",
		}, msg)
	})

	t.Run("returns publish failures", func(t *testing.T) {
		ch := NewChannelMock(t)
		ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, false, false, mock.Anything).
			Return(amqp.ErrClosed).
			Once()

		c := &client{channel: ch, exchange: "waves", routingKey: "wave.new"}
		assert.ErrorIs(t, c.NotifyWave(t.Context(), record), amqp.ErrClosed)
	})

	t.Run("close without a connection", func(t *testing.T) {
		ch := NewChannelMock(t)
		ch.On("Close").Return(errors.New("already closed")).Once()

		c := &client{channel: ch}
		assert.Error(t, c.Close())
	})
}
