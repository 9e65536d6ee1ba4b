package cron

import (
	"context"
	"errors"
	"time"

	"eclinic/config"
	"eclinic/services/notification"
	"eclinic/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection shared by the push queue client and worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitPushWorker runs the push worker in background and returns the server so the
// caller can shut it down.
func InitPushWorker(sender notification.Sender, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePushSend, HandlePushTask(sender, logger))

	go monitorRedisConnection(logger)

	go func() {
		logger.Info("starting push worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Warn("push worker failed to start", zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Error("push worker gave up; queued pushes will not be delivered")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	return srv
}

// HandlePushTask sends a queued push. Invalid payloads are not retried.
func HandlePushTask(sender notification.Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParsePushTask(task)
		if err != nil {
			logger.Warn("invalid push payload", zap.Error(err))
			return asynq.SkipRetry
		}
		if err := notification.Validate(p); err != nil {
			logger.Warn("push payload rejected", zap.Error(err))
			return asynq.SkipRetry
		}

		response, err := sender.Send(ctx, p)
		if errors.Is(err, notification.ErrPushDisabled) {
			return nil
		}
		if err != nil {
			logger.Warn("queued push failed", zap.String("chatId", p.ChatID), zap.Error(err))
			return err
		}
		logger.Debug("queued push delivered", zap.String("chatId", p.ChatID), zap.String("response", response))
		return nil
	}
}

// monitorRedisConnection pings the queue database periodically to surface outages in the logs.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ctx := context.Background()
	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("push queue redis unreachable", zap.Error(err))
		}
		time.Sleep(30 * time.Second)
	}
}
