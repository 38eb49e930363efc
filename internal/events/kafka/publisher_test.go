package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/events"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var e events.Event
		if err := json.Unmarshal(val, &e); err != nil {
			return err
		}
		if e.Type != events.BookingCreated || e.Subject != "booking/7" {
			return errors.New("unexpected event " + e.Type + " " + e.Subject)
		}
		return nil
	})

	p := NewPublisherWithProducer(producer, "test.")
	assert.Equal(t, "test.hotel.bookings.v1", p.topic)

	e := events.New(events.BookingCreated, "booking/7", map[string]any{"id": 7}, time.Now())
	require.NoError(t, p.Publish(context.Background(), e))
	require.NoError(t, p.Close())
}

func TestPublisher_PropagatesSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer(producer, "")
	err := p.Publish(context.Background(), events.New(events.BookingCancelled, "booking/1", nil, time.Now()))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	p := NewPublisherWithProducer(producer, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, events.New(events.BookingCreated, "booking/1", nil, time.Now())), context.Canceled)
	require.NoError(t, p.Close())
}
