package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"journeylink_app/internal/models"
)

// RetryDelay is how long failed recipients wait before the next attempt
const RetryDelay = 5 * time.Minute

// Recipient is one user in a notification payload
type Recipient struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SendNotificationArgs defines the arguments for a notification task
type SendNotificationArgs struct {
	Recipients    []Recipient `json:"recipients"`
	NotifTemplate string      `json:"notiftemplate"`
	Subject       string      `json:"subject"`
	AttemptCount  int         `json:"attempt_count"`
}

// SendNotificationTaskDef encapsulates the notification task logic
type SendNotificationTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *SendNotificationTaskDef) TaskID() string {
	return "send_notification"
}

// CreateTask builds a ScheduledTask record for this task
func (t *SendNotificationTaskDef) CreateTask(args SendNotificationArgs, due time.Time) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, due, nil, models.ScheduledTaskTypeOneTime, 3)
}

// HandleExecution sends the message to every recipient on their preferred channel.
// Recipients that fail are retried in a new task until MaxAttempt is reached.
func (t *SendNotificationTaskDef) HandleExecution(ctx context.Context, env *Env, task models.ScheduledTask) (map[string]interface{}, error) {
	var args SendNotificationArgs
	if err := parseArguments(task, &args); err != nil {
		return nil, err
	}
	if args.NotifTemplate == "" {
		return nil, errors.New("notiftemplate is missing")
	}
	if env.Notifier == nil {
		return nil, errors.New("no notifier configured")
	}

	subject := args.Subject
	if subject == "" {
		subject = "JourneyLink"
	}

	successCount := 0
	skippedCount := 0
	var failures []string
	var failed []Recipient

	for _, r := range args.Recipients {
		body := replacePlaceholders(args.NotifTemplate, r, args)
		channel, err := env.Notifier.Notify(ctx, r.UID, r.Email, subject, body)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "Notification failed", "recipient", r.UID, "channel", channel, "error", err)
			failures = append(failures, fmt.Sprintf("%s: %v", r.UID, err))
			failed = append(failed, r)
		case channel == models.NotificationChannelNone:
			skippedCount++
		default:
			successCount++
		}
	}

	result := map[string]interface{}{
		"total":   len(args.Recipients),
		"success": successCount,
		"skipped": skippedCount,
		"failure": len(failed),
	}
	if len(failed) == 0 {
		return result, nil
	}
	result["errors"] = failures

	if args.AttemptCount+1 >= task.MaxAttempt {
		return result, fmt.Errorf("max attempts reached, failed to deliver to %d users", len(failed))
	}

	retry := args
	retry.Recipients = failed
	retry.AttemptCount = args.AttemptCount + 1
	next, err := BuildScheduledTask(t.TaskID(), retry, env.now().Add(RetryDelay), nil, models.ScheduledTaskTypeOneTime, task.MaxAttempt)
	if err != nil {
		return result, err
	}
	next.Reference = task.Reference
	if err := env.Schedule(ctx, next); err != nil {
		return result, fmt.Errorf("reschedule failed recipients: %w", err)
	}
	slog.InfoContext(ctx, "Rescheduled failed recipients", "count", len(failed), "attempt", retry.AttemptCount)
	result["retry_task_id"] = next.ID
	return result, nil
}

// SendNotificationTask is the singleton instance of SendNotificationTaskDef
var SendNotificationTask = &SendNotificationTaskDef{}

func replacePlaceholders(template string, r Recipient, args SendNotificationArgs) string {
	return strings.NewReplacer(
		"$username", r.Name,
		"$name", r.Name,
		"$email", r.Email,
		"$subject", args.Subject,
	).Replace(template)
}
