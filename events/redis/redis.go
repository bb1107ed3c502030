package redis

import (
	"context"
	"crypto/tls"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/zlnvch/reviewclient/events"
)

// RedisEventSink publishes mutation events on a pub/sub channel per mutation
// kind ("mutations:<kind>").
type RedisEventSink struct {
	client redis.UniversalClient
}

func NewRedisEventSink(ctx context.Context, devMode bool, redisEndpoint string) (*RedisEventSink, error) {
	var client redis.UniversalClient
	if devMode {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
			// Managed endpoints require TLS
			TLSConfig: &tls.Config{},
		})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisEventSink{client: client}, nil
}

// NewRedisEventSinkFromClient wraps an existing client.
func NewRedisEventSinkFromClient(client redis.UniversalClient) *RedisEventSink {
	return &RedisEventSink{client: client}
}

func channelFor(kind string) string {
	return "mutations:" + kind
}

func (s *RedisEventSink) PublishBatch(ctx context.Context, batch []events.MutationEvent) error {
	if len(batch) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, ev := range batch {
		msg, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		pipe.Publish(ctx, channelFor(ev.Kind), msg)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisEventSink) Close() error {
	return s.client.Close()
}
