package service

import (
	"context"
	"encoding/json"
	"time"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

const defaultAuditAttempts = 5

// RetryPolicy caps redelivery of a message whose store write fails.
// Attempt n waits n*Delay before the Nack.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// consumerService writes the fork audit trail from messages on the in-process bus.
type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	auditLogger logger.ILogger
	logger      logger.ILogger
	retry       RetryPolicy
	// attempts is keyed by message UUID; only the consume goroutine touches it.
	attempts map[string]int
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	auditLogger logger.ILogger,
	log logger.ILogger,
	retry RetryPolicy,
) IConsumerService {
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = defaultAuditAttempts
	}
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		uowFactory:  uowFactory,
		auditLogger: auditLogger,
		logger:      log,
		retry:       retry,
		attempts:    make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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
	var payload dto.ForkAuditMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("AUDIT", "Failed to unmarshal fork audit message", map[string]interface{}{
			"error":      err,
			"message_id": msg.UUID,
		})
		// Malformed payloads never succeed, drop them
		msg.Ack()
		return
	}

	kind, err := entity.ParseShareKind(payload.ShareType)
	if err != nil {
		cs.logger.Warn("AUDIT", "Dropping fork audit message with unknown share type", map[string]interface{}{
			"share_type": payload.ShareType,
		})
		msg.Ack()
		return
	}

	event := &entity.ForkEvent{
		Id:            uuid.New(),
		UserId:        payload.UserId,
		ShareToken:    payload.ShareToken,
		ShareType:     kind,
		PageId:        payload.PageId,
		NotebookId:    payload.NotebookId,
		NotesCopied:   len(payload.CopiedNoteIds),
		CopiedNoteIds: payload.CopiedNoteIds,
		CreatedAt:     payload.OccurredAt,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ForkEventRepository().Create(ctx, event); err != nil {
		attempt := cs.attempts[msg.UUID] + 1
		cs.logger.Error("AUDIT", "Failed to store fork event", map[string]interface{}{
			"error":   err,
			"user_id": payload.UserId.String(),
			"attempt": attempt,
		})
		if attempt >= cs.retry.MaxAttempts {
			delete(cs.attempts, msg.UUID)
			cs.logger.Error("AUDIT", "Giving up on fork audit message", map[string]interface{}{
				"message_id": msg.UUID,
				"user_id":    payload.UserId.String(),
				"page_id":    payload.PageId.String(),
			})
			msg.Ack()
			return
		}
		cs.attempts[msg.UUID] = attempt
		cs.wait(ctx, attempt)
		msg.Nack()
		return
	}
	delete(cs.attempts, msg.UUID)

	cs.auditLogger.Info("FORK", "Content forked", map[string]interface{}{
		"user_id":      payload.UserId.String(),
		"share_type":   payload.ShareType,
		"page_id":      payload.PageId.String(),
		"notebook_id":  payload.NotebookId.String(),
		"notes_copied": event.NotesCopied,
	})

	msg.Ack()
}

func (cs *consumerService) wait(ctx context.Context, attempt int) {
	if cs.retry.Delay <= 0 {
		return
	}
	timer := time.NewTimer(cs.retry.Delay * time.Duration(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
