package service

import (
	"context"
	"encoding/json"

	"faq-agentic-be/internal/dto"
	"faq-agentic-be/internal/entity"
	"faq-agentic-be/internal/pkg/logger"
	"faq-agentic-be/internal/repository/unitofwork"
	"faq-agentic-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestChunkMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer_service", "failed to unmarshal chunk message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads never become valid, do not retry
		return
	}

	vector, err := cs.embeddingProvider.Embed(ctx, payload.Content)
	if err != nil {
		cs.log.Error("consumer_service", "failed to embed chunk", map[string]interface{}{
			"source_url":  payload.SourceUrl,
			"chunk_index": payload.ChunkIndex,
			"error":       err.Error(),
		})
		msg.Nack() // embedding outages are transient, retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	doc := &entity.FaqDocument{
		Id:         uuid.New(),
		Content:    payload.Content,
		Embedding:  vector,
		SourceUrl:  payload.SourceUrl,
		ChunkIndex: payload.ChunkIndex,
	}
	if err := uow.FaqDocumentRepository().Create(ctx, doc); err != nil {
		cs.log.Error("consumer_service", "failed to store chunk", map[string]interface{}{
			"source_url":  payload.SourceUrl,
			"chunk_index": payload.ChunkIndex,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	cs.log.Info("consumer_service", "stored embedded chunk", map[string]interface{}{
		"source_url":  payload.SourceUrl,
		"chunk_index": payload.ChunkIndex,
	})
	msg.Ack()
}
