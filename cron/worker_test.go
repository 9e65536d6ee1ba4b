package cron

import (
	"context"
	"errors"
	"testing"

	"eclinic/models"
	"eclinic/services/notification"
	"eclinic/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSender struct {
	got []models.PushRequest
	err error
}

func (s *stubSender) Send(_ context.Context, req models.PushRequest) (string, error) {
	s.got = append(s.got, req)
	return "msg-1", s.err
}

func pushTask(t *testing.T, req models.PushRequest) *asynq.Task {
	t.Helper()
	task, _, err := tasks.NewPushTask(req)
	require.NoError(t, err)
	return task
}

func TestHandlePushTask(t *testing.T) {
	req := models.PushRequest{Token: "tok", Title: "t", Body: "b", ChatID: "a_b", SenderID: "a"}

	t.Run("delivers", func(t *testing.T) {
		sender := &stubSender{}
		err := HandlePushTask(sender, zap.NewNop())(context.Background(), pushTask(t, req))
		require.NoError(t, err)
		assert.Equal(t, []models.PushRequest{req}, sender.got)
	})

	t.Run("retries provider failures", func(t *testing.T) {
		sender := &stubSender{err: errors.New("unavailable")}
		err := HandlePushTask(sender, zap.NewNop())(context.Background(), pushTask(t, req))
		assert.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})

	t.Run("drops when disabled", func(t *testing.T) {
		sender := &stubSender{err: notification.ErrPushDisabled}
		err := HandlePushTask(sender, zap.NewNop())(context.Background(), pushTask(t, req))
		assert.NoError(t, err)
	})

	t.Run("skips invalid payloads", func(t *testing.T) {
		sender := &stubSender{}
		err := HandlePushTask(sender, zap.NewNop())(context.Background(), asynq.NewTask(tasks.TypePushSend, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)

		err = HandlePushTask(sender, zap.NewNop())(context.Background(), pushTask(t, models.PushRequest{Title: "t"}))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Empty(t, sender.got)
	})
}
