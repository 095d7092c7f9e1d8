package tasks

import (
	"encoding/json"
	"time"

	"petmily/models"

	"github.com/hibiken/asynq"
)

const TypeWalkReminder = "walk:reminder"

func NewWalkReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeWalkReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
