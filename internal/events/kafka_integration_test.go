//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"studyhub/internal/events"
	"studyhub/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaPublisherSuite) TestPublishedEventsAreConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "activity-" + uuid.NewString()

	pub, err := events.NewKafkaPublisher(ctx, s.redpanda.Brokers, topic)
	s.Require().NoError(err)

	sent := events.Event{Type: events.GroupJoined, Actor: uuid.NewString(), Subject: "algo-study", At: time.Now().UTC()}
	s.Require().NoError(pub.Publish(ctx, sent))
	s.Require().NoError(pub.Flush(ctx))
	s.Require().NoError(pub.Close())

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var got []events.Event
	for len(got) == 0 && ctx.Err() == nil {
		fetches := consumer.PollFetches(ctx)
		fetches.EachRecord(func(r *kgo.Record) {
			var ev events.Event
			s.Require().NoError(json.Unmarshal(r.Value, &ev))
			s.Equal(sent.Actor, string(r.Key))
			got = append(got, ev)
		})
	}
	s.Require().Len(got, 1)
	s.Equal(sent.Type, got[0].Type)
	s.Equal(sent.Subject, got[0].Subject)
}

func (s *KafkaPublisherSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	topic := "activity-" + uuid.NewString()

	first, err := events.NewKafkaPublisher(ctx, s.redpanda.Brokers, topic)
	s.Require().NoError(err)
	s.Require().NoError(first.Close())

	second, err := events.NewKafkaPublisher(ctx, s.redpanda.Brokers, topic)
	s.Require().NoError(err)
	s.Require().NoError(second.Close())
}
