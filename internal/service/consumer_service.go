package service

import (
	"context"
	"encoding/json"

	"ai-career-counselor-be/internal/dto"
	"ai-career-counselor-be/internal/pkg/logger"
	"ai-career-counselor-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	previews  *memory.SessionPreviewCache
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	previews *memory.SessionPreviewCache,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		previews:  previews,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var envelope dto.SessionEventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.log.Error("SessionEvents", "failed to unmarshal session event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	rawClientId, _ := envelope.Data["client_id"].(string)
	clientId, err := uuid.Parse(rawClientId)
	if err != nil {
		cs.log.Error("SessionEvents", "session event carries invalid client_id", map[string]interface{}{
			"event_type": envelope.Type,
			"client_id":  rawClientId,
		})
		msg.Ack()
		return
	}

	// Invalidation here also covers events published by other writers.
	cs.previews.Invalidate(clientId)

	sessionKey, _ := envelope.Data["session_key"].(string)
	cs.log.Info("SessionEvents", "session event processed", map[string]interface{}{
		"event_type":  envelope.Type,
		"client_id":   clientId.String(),
		"session_key": sessionKey,
		"occurred_at": envelope.OccurredAt,
	})

	msg.Ack()
}
