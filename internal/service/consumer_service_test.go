package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"faq-agentic-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
)

type scriptedEmbedder struct {
	vector []float32
	err    error
}

func (e *scriptedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.vector, e.err
}

func TestConsumerStoresEmbeddedChunk(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	store := newFakeStore()
	factory := &fakeFactory{store: store}
	embedder := &scriptedEmbedder{vector: []float32{0.1, 0.2, 0.3}}

	consumer := NewConsumerService(pubSub, "TEST_TOPIC", factory, embedder, nopLogger{})
	assert.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(pubSub, "TEST_TOPIC")
	payload, _ := json.Marshal(dto.IngestChunkMessage{
		SourceUrl:  "https://example.edu/faq",
		ChunkIndex: 0,
		Content:    "The deadline is June 1st.",
	})
	assert.NoError(t, publisher.Publish(context.Background(), payload))

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.docs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	doc := store.docs[0]
	assert.Equal(t, "https://example.edu/faq", doc.SourceUrl)
	assert.Equal(t, "The deadline is June 1st.", doc.Content)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, doc.Embedding)
}

func TestConsumerSkipsMalformedMessage(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	store := newFakeStore()
	factory := &fakeFactory{store: store}
	embedder := &scriptedEmbedder{err: errors.New("should not be called")}

	consumer := NewConsumerService(pubSub, "TEST_TOPIC", factory, embedder, nopLogger{})
	assert.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(pubSub, "TEST_TOPIC")
	assert.NoError(t, publisher.Publish(context.Background(), []byte("not json")))

	// Malformed messages are acked and dropped, never stored.
	time.Sleep(100 * time.Millisecond)
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.docs)
}
