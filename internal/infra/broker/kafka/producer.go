// Package kafka publishes booking lifecycle events to Kafka so downstream
// consumers (CRM sync, reporting) can react without polling the store.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"

	"fleetbook/internal/app/policies"
)

type Producer struct {
	sync        sarama.SyncProducer
	topicPrefix string
}

func NewProducer(brokers []string, topicPrefix string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync, topicPrefix: topicPrefix}, nil
}

func (p *Producer) PublishReservationRequested(ctx context.Context, ev policies.ReservationRequested) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	// Keyed by vehicle so all events for one vehicle land on one partition.
	msg := &sarama.ProducerMessage{
		Topic: p.topicPrefix + "reservation.requested",
		Key:   sarama.StringEncoder(ev.VehicleID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("tenant"), Value: []byte(ev.TenantID)},
		},
	}
	_, _, err = p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

var _ policies.EventPublisher = (*Producer)(nil)
