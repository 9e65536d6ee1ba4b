package tasks

import (
	"encoding/json"

	"eclinic/models"

	"github.com/hibiken/asynq"
)

const TypePushSend = "push:send"

// pushMaxRetry bounds redelivery; push delivery is best effort.
const pushMaxRetry = 3

func NewPushTask(payload models.PushRequest) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePushSend, b)
	opts := []asynq.Option{asynq.MaxRetry(pushMaxRetry), asynq.Queue("default")}

	return task, opts, nil
}

// ParsePushTask decodes the payload written by NewPushTask.
func ParsePushTask(task *asynq.Task) (models.PushRequest, error) {
	var p models.PushRequest
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
