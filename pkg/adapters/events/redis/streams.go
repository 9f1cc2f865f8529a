package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aescanero/analysis-api/pkg/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// streamAdder is the subset of the Redis client the publisher needs
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamsPublisher publishes events to a capped Redis stream
type StreamsPublisher struct {
	client streamAdder
	logger *zap.Logger
	prefix string
	maxLen int64
}

// NewStreamsPublisher creates a new Redis Streams publisher.
// Each topic maps to the stream "<prefix>:<topic>"; maxLen caps each stream
// approximately, 0 leaves it uncapped.
func NewStreamsPublisher(client *redis.Client, prefix string, maxLen int64, logger *zap.Logger) (*StreamsPublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newStreamsPublisher(client, prefix, maxLen, logger), nil
}

func newStreamsPublisher(client streamAdder, prefix string, maxLen int64, logger *zap.Logger) *StreamsPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamsPublisher{
		client: client,
		logger: logger,
		prefix: prefix,
		maxLen: maxLen,
	}
}

// Publish appends an event to the topic's stream
func (p *StreamsPublisher) Publish(ctx context.Context, topic string, event domain.Event) error {
	streamKey := p.streamKey(topic)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"type": string(event.Type),
			"data": string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("stream", streamKey),
		zap.String("message_id", id))

	return nil
}

// Close releases publisher resources. The Redis client is closed by the caller.
func (p *StreamsPublisher) Close() error {
	return nil
}

// streamKey returns the Redis stream key for a topic
func (p *StreamsPublisher) streamKey(topic string) string {
	return fmt.Sprintf("%s:%s", p.prefix, topic)
}
