//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"hospital/internal/access/audit"
	"hospital/internal/access/models"
	"hospital/internal/platform/config"
	id "hospital/pkg/domain"
	"hospital/pkg/testutil/containers"
)

type StreamSuite struct {
	suite.Suite
	kafka *containers.KafkaContainer
}

func TestStreamSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StreamSuite))
}

func (s *StreamSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
}

func (s *StreamSuite) TestPublishedEntryIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "permission-audit-" + uuid.NewString()
	stream, err := audit.NewStream(ctx, config.KafkaConfig{
		Brokers:           s.kafka.Brokers,
		AuditTopic:        topic,
		Partitions:        1,
		ReplicationFactor: 1,
	})
	s.Require().NoError(err)
	defer func() { _ = stream.Close(context.Background()) }()

	entry := &models.AuditEntry{
		ID:             id.NewAuditEntryID(),
		Action:         models.ActionCreated,
		TargetRole:     models.RoleReceptionist,
		TargetUsername: "maria",
		ModuleID:       "archivos",
		NewKind:        models.KindGrant,
		PerformedBy:    "carlos",
		PerformedAt:    time.Now().UTC(),
	}
	s.Require().NoError(stream.Publish(ctx, entry))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.kafka.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal("user:maria", string(records[0].Key))

	var got models.AuditEntry
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(entry.ID, got.ID)
	s.Equal(models.ActionCreated, got.Action)
	s.Equal("carlos", got.PerformedBy)
}

func (s *StreamSuite) TestNewStreamToleratesExistingTopic() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.KafkaConfig{
		Brokers:           s.kafka.Brokers,
		AuditTopic:        "permission-audit-" + uuid.NewString(),
		Partitions:        1,
		ReplicationFactor: 1,
	}
	first, err := audit.NewStream(ctx, cfg)
	s.Require().NoError(err)
	defer func() { _ = first.Close(context.Background()) }()

	second, err := audit.NewStream(ctx, cfg)
	s.Require().NoError(err)
	s.Require().NoError(second.Close(context.Background()))
}
