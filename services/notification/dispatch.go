package notification

import (
	"context"
	"time"

	"eclinic/models"
	"eclinic/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the queue notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands pushes to the asynq worker.
type QueueNotifier struct {
	queue  Enqueuer
	logger *zap.Logger
}

func NewQueueNotifier(queue Enqueuer, logger *zap.Logger) *QueueNotifier {
	return &QueueNotifier{queue: queue, logger: logger}
}

func (n *QueueNotifier) Notify(ctx context.Context, req models.PushRequest) {
	if err := Validate(req); err != nil {
		n.logger.Warn("push not queued", zap.Error(err))
		return
	}
	task, opts, err := tasks.NewPushTask(req)
	if err != nil {
		n.logger.Error("failed to build push task", zap.Error(err))
		return
	}
	info, err := n.queue.EnqueueContext(ctx, task, opts...)
	if err != nil {
		n.logger.Error("failed to enqueue push", zap.String("chatId", req.ChatID), zap.Error(err))
		return
	}
	n.logger.Debug("push queued", zap.String("taskId", info.ID), zap.String("chatId", req.ChatID))
}

// AsyncNotifier sends on a goroutine, detached from the caller's context.
type AsyncNotifier struct {
	sender  Sender
	logger  *zap.Logger
	timeout time.Duration
}

func NewAsyncNotifier(sender Sender, logger *zap.Logger) *AsyncNotifier {
	return &AsyncNotifier{sender: sender, logger: logger, timeout: 10 * time.Second}
}

func (n *AsyncNotifier) Notify(_ context.Context, req models.PushRequest) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if _, err := n.sender.Send(ctx, req); err != nil {
			n.logger.Warn("background push failed", zap.String("chatId", req.ChatID), zap.Error(err))
		}
	}()
}

// NoopNotifier drops every push.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, models.PushRequest) {}
