package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"hotel/internal/events"
)

type Publisher struct {
	sync  sarama.SyncProducer
	topic string
}

// NewPublisher connects an idempotent synchronous producer to brokers.
func NewPublisher(brokers []string, topicPrefix string) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewPublisherWithProducer(sync, topicPrefix), nil
}

func NewPublisherWithProducer(sync sarama.SyncProducer, topicPrefix string) *Publisher {
	return &Publisher{sync: sync, topic: topicPrefix + events.Topic}
}

// Publish writes e keyed by its subject so events of one booking stay ordered.
func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.Type, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.Subject),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("ce_type"), Value: []byte(e.Type)},
			{Key: []byte("ce_id"), Value: []byte(e.ID)},
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	}
	if _, _, err := p.sync.SendMessage(msg); err != nil {
		return fmt.Errorf("send %s: %w", e.Type, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}
