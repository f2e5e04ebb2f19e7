// Package kafka provides the production audit sink. Events are produced
// synchronously so the publisher's fail-closed contract holds end to end.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"formledger/pkg/platform/audit"
)

// Default topics per event category. Compliance and security events have
// different retention downstream, so they ride separate topics.
const (
	TopicCompliance = "formledger.audit.compliance"
	TopicSecurity   = "formledger.audit.security"
)

// Store produces audit events to Kafka.
type Store struct {
	client *kgo.Client
	topics map[audit.EventCategory]string
}

// New connects a producer to the given brokers.
func New(brokers []string) (*Store, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Store{
		client: client,
		topics: map[audit.EventCategory]string{
			audit.CategoryCompliance: TopicCompliance,
			audit.CategorySecurity:   TopicSecurity,
		},
	}, nil
}

// Append produces the event and waits for broker acknowledgement. Records are
// keyed by actor so one actor's events stay ordered within a partition.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	topic, ok := s.topics[event.Category]
	if !ok {
		return fmt.Errorf("no topic for audit category %q", event.Category)
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(event.Actor),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer.
func (s *Store) Close() {
	s.client.Close()
}
