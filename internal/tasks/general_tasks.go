package tasks

import (
	"context"
	"log/slog"

	"journeylink_app/internal/logging"
	"journeylink_app/internal/models"
)

// LogInfoTaskDef writes its message to the worker log. Useful for checking
// that the worker picks tasks up and that recurring rules fire when expected.
type LogInfoTaskDef struct{}

func (t *LogInfoTaskDef) TaskID() string {
	return "log_info"
}

// HandleExecution logs arguments "message" at "level" (info by default)
func (t *LogInfoTaskDef) HandleExecution(ctx context.Context, env *Env, task models.ScheduledTask) (map[string]interface{}, error) {
	message, _ := task.Arguments["message"].(string)
	if message == "" {
		message = "No message provided"
	}
	levelName, _ := task.Arguments["level"].(string)
	level := logging.ParseLevel(levelName)

	slog.Log(ctx, level, message, "task_id", task.ID, "reference", task.Reference)

	return map[string]interface{}{
		"message":   message,
		"level":     level.String(),
		"logged_at": env.now(),
	}, nil
}

// LogInfoTask is the singleton instance of LogInfoTaskDef
var LogInfoTask = &LogInfoTaskDef{}
