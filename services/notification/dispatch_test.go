package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eclinic/models"
	"eclinic/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestQueueNotifier_EnqueuesPushTask(t *testing.T) {
	queue := &fakeQueue{}
	n := NewQueueNotifier(queue, zap.NewNop())

	n.Notify(context.Background(), validPush())

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, tasks.TypePushSend, queue.tasks[0].Type())
	decoded, err := tasks.ParsePushTask(queue.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, validPush(), decoded)
}

func TestQueueNotifier_SkipsInvalidAndSwallowsErrors(t *testing.T) {
	queue := &fakeQueue{}
	n := NewQueueNotifier(queue, zap.NewNop())
	n.Notify(context.Background(), models.PushRequest{Title: "x"})
	assert.Empty(t, queue.tasks)

	failing := NewQueueNotifier(&fakeQueue{err: errors.New("redis down")}, zap.NewNop())
	assert.NotPanics(t, func() { failing.Notify(context.Background(), validPush()) })
}

type signallingSender struct {
	once sync.Once
	done chan models.PushRequest
}

func (s *signallingSender) Send(_ context.Context, req models.PushRequest) (string, error) {
	s.once.Do(func() { s.done <- req })
	return "ok", nil
}

func TestAsyncNotifier_SendsInBackground(t *testing.T) {
	sender := &signallingSender{done: make(chan models.PushRequest, 1)}
	n := NewAsyncNotifier(sender, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, validPush())
	cancel()

	select {
	case got := <-sender.done:
		assert.Equal(t, validPush(), got)
	case <-time.After(2 * time.Second):
		t.Fatal("push was not sent")
	}
}
