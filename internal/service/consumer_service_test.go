package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/testutil"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLogger counts error messages by text and drops everything else.
type countingLogger struct {
	mu     sync.Mutex
	errors map[string]int
}

func (l *countingLogger) Debug(string, string, map[string]interface{}) {}
func (l *countingLogger) Info(string, string, map[string]interface{})  {}
func (l *countingLogger) Warn(string, string, map[string]interface{})  {}
func (l *countingLogger) Sync() error                                  { return nil }

func (l *countingLogger) Error(_ string, message string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors[message]++
}

func (l *countingLogger) count(message string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errors[message]
}

func auditPayload(t *testing.T) []byte {
	payload, err := json.Marshal(dto.ForkAuditMessage{
		UserId:        uuid.New(),
		ShareToken:    "tok",
		ShareType:     "page",
		PageId:        uuid.New(),
		NotebookId:    uuid.New(),
		CopiedNoteIds: []uuid.UUID{uuid.New()},
		OccurredAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return payload
}

func TestConsumerService_GivesUpOnFailingStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory, db := testutil.NewFactory(t)
	require.NoError(t, db.Exec(`CREATE TRIGGER block_fork_events BEFORE INSERT ON fork_events
		BEGIN SELECT RAISE(ABORT, 'store down'); END`).Error)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	sysLog := &countingLogger{errors: map[string]int{}}
	consumer := NewConsumerService(pubSub, "FORK_AUDIT", factory, logger.NewNopLogger(), sysLog,
		RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond})
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("FORK_AUDIT", pubSub)
	require.NoError(t, publisher.Publish(ctx, auditPayload(t)))

	assert.Eventually(t, func() bool {
		return sysLog.count("Giving up on fork audit message") == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, sysLog.count("Failed to store fork event"))

	// Once the store recovers the next message goes through
	require.NoError(t, db.Exec(`DROP TRIGGER block_fork_events`).Error)
	require.NoError(t, publisher.Publish(ctx, auditPayload(t)))

	assert.Eventually(t, func() bool {
		stored, err := factory.NewUnitOfWork(context.Background()).ForkEventRepository().FindAll(context.Background())
		return err == nil && len(stored) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, sysLog.count("Giving up on fork audit message"))
}

func TestConsumerService_StoresForkEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory, _ := testutil.NewFactory(t)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	log := logger.NewNopLogger()
	consumer := NewConsumerService(pubSub, "FORK_AUDIT", factory, log, log, RetryPolicy{})
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("FORK_AUDIT", pubSub)

	// Garbage first; it must be dropped without blocking the next message
	require.NoError(t, publisher.Publish(ctx, []byte("{not json")))

	msg := dto.ForkAuditMessage{
		UserId:        uuid.New(),
		ShareToken:    "tok",
		ShareType:     "note",
		PageId:        uuid.New(),
		NotebookId:    uuid.New(),
		CopiedNoteIds: []uuid.UUID{uuid.New()},
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	var stored []*entity.ForkEvent
	assert.Eventually(t, func() bool {
		uow := factory.NewUnitOfWork(context.Background())
		stored, err = uow.ForkEventRepository().FindAll(context.Background())
		return err == nil && len(stored) == 1
	}, 2*time.Second, 20*time.Millisecond)

	require.Len(t, stored, 1)
	assert.Equal(t, msg.UserId, stored[0].UserId)
	assert.Equal(t, entity.ShareKindNote, stored[0].ShareType)
	assert.Equal(t, 1, stored[0].NotesCopied)
	assert.Equal(t, msg.CopiedNoteIds, stored[0].CopiedNoteIds)
}
