package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"hospital/internal/access/models"
	"hospital/internal/platform/config"
)

// Stream produces audit entries to a Kafka topic for downstream consumers
// such as a SIEM. Records are keyed by target so entries about the same
// role or user stay ordered within one partition.
type Stream struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

type StreamOption func(*Stream)

func WithStreamLogger(logger *slog.Logger) StreamOption {
	return func(s *Stream) {
		s.logger = logger
	}
}

// NewStream connects to the brokers and creates the topic if it is missing.
func NewStream(ctx context.Context, cfg config.KafkaConfig, opts ...StreamOption) (*Stream, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.AuditTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	s := &Stream{client: client, topic: cfg.AuditTopic}
	for _, opt := range opts {
		opt(s)
	}

	if err := ensureTopic(ctx, client, cfg); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, cfg config.KafkaConfig) error {
	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(ctx, cfg.Partitions, cfg.ReplicationFactor, nil, cfg.AuditTopic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

func (s *Stream) Publish(ctx context.Context, entry *models.AuditEntry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(partitionKey(entry)),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(entry.Action)},
		},
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "audit stream produce failed",
				"topic", s.topic,
				"action", entry.Action,
				"error", err,
			)
		}
		return fmt.Errorf("produce audit entry: %w", err)
	}
	return nil
}

// Close flushes buffered records and closes the client.
func (s *Stream) Close(ctx context.Context) error {
	err := s.client.Flush(ctx)
	s.client.Close()
	return err
}

func partitionKey(e *models.AuditEntry) string {
	switch {
	case e.TargetUsername != "":
		return "user:" + e.TargetUsername
	case e.TargetRole != "":
		return "role:" + string(e.TargetRole)
	default:
		return "all"
	}
}
