package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"fundrace/internal/notify"
)

// KafkaQueue publishes notification jobs to a Kafka topic. Used when the
// service runs with more than one instance or delivery must survive a
// restart.
type KafkaQueue struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaQueue builds a producer for the given brokers and topic.
func NewKafkaQueue(brokers []string, topic string, logger *slog.Logger) (*KafkaQueue, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &KafkaQueue{client: client, topic: topic, logger: logger}, nil
}

// Enqueue publishes asynchronously. Produce errors surface in the callback
// log only; the caller's status transition is already persisted and must not
// depend on broker availability.
func (q *KafkaQueue) Enqueue(ctx context.Context, job notify.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal notification job: %w", err)
	}
	record := &kgo.Record{
		Topic: q.topic,
		Key:   []byte(job.RegistrationID),
		Value: payload,
	}
	q.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			q.logger.Error("notification publish failed",
				"registration_id", job.RegistrationID,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes outstanding records and releases the producer.
func (q *KafkaQueue) Close() {
	q.client.Close()
}

// KafkaConsumer reads notification jobs from the topic and hands them to a
// handler, committing via consumer-group offsets.
type KafkaConsumer struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewKafkaConsumer joins the given consumer group on the topic.
func NewKafkaConsumer(brokers []string, topic, group string, logger *slog.Logger) (*KafkaConsumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &KafkaConsumer{client: client, logger: logger}, nil
}

// Run polls until ctx is cancelled, decoding each record into a Job.
// Undecodable records are logged and skipped; handler errors are the
// handler's concern (the worker already retries through its breaker).
func (c *KafkaConsumer) Run(ctx context.Context, handle func(context.Context, notify.Job)) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				c.logger.Error("notification poll failed",
					"topic", fe.Topic,
					"error", fe.Err,
				)
			}
		}
		fetches.EachRecord(func(record *kgo.Record) {
			var job notify.Job
			if err := json.Unmarshal(record.Value, &job); err != nil {
				c.logger.Error("undecodable notification record dropped",
					"topic", record.Topic,
					"offset", record.Offset,
					"error", err,
				)
				return
			}
			handle(ctx, job)
		})
	}
}

// Close leaves the group and releases the consumer.
func (c *KafkaConsumer) Close() {
	c.client.Close()
}
