package redis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestChannelFor(t *testing.T) {
	assert.Equal(t, "mutations:like", channelFor("like"))
	assert.Equal(t, "mutations:favorite", channelFor("favorite"))
}

func TestPublishBatch_EmptyDoesNotTouchRedis(t *testing.T) {
	// Nothing listens here; an empty batch must not dial
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	sink := NewRedisEventSinkFromClient(client)
	defer sink.Close()

	assert.NoError(t, sink.PublishBatch(context.Background(), nil))
}
