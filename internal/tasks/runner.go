package tasks

import (
	"context"
	"log/slog"
	"time"

	"journeylink_app/internal/models"
)

// Run statuses stored in the task history
const (
	RunSuccess         = "success"
	RunFailure         = "failure"
	RunHandlerNotFound = "handler_not_found"
)

// Runner executes due tasks from a store
type Runner struct {
	env      *Env
	registry *Registry
}

func NewRunner(env *Env, registry *Registry) *Runner {
	return &Runner{env: env, registry: registry}
}

// ProcessDue runs every task that is due now and returns how many ran
func (r *Runner) ProcessDue(ctx context.Context) (int, error) {
	pending, err := r.env.Store.Due(ctx, r.env.now())
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		slog.DebugContext(ctx, "No pending tasks found")
		return 0, nil
	}
	slog.InfoContext(ctx, "Found pending tasks", "count", len(pending))

	ran := 0
	for _, task := range pending {
		if ctx.Err() != nil {
			return ran, ctx.Err()
		}
		r.Execute(ctx, task)
		ran++
	}
	return ran, nil
}

// Execute runs one task, retrying in place until MaxAttempt, and stores
// every attempt in the history.
func (r *Runner) Execute(ctx context.Context, task models.ScheduledTask) {
	log := slog.With("task", task.TaskName, "task_id", task.ID)
	if task.Arguments == nil {
		task.Arguments = make(map[string]interface{})
	}

	handler, found := r.registry.Get(task.TaskName)
	if !found {
		now := r.env.now()
		log.Warn("Task handler not found, marking as failure")
		r.record(ctx, models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           now,
			Status:          RunHandlerNotFound,
			AttemptNumber:   1,
			Arguments:       task.Arguments,
			Result:          map[string]interface{}{"error": "Handler not found"},
		})
		r.update(ctx, task, map[string]interface{}{"status": models.ScheduledTaskStatusFailure, "last_run": &now})
		return
	}

	maxAttempt := task.MaxAttempt
	if maxAttempt < 1 {
		maxAttempt = 1
	}

	var startTime time.Time
	var runErr error
	for attempt := 1; attempt <= maxAttempt; attempt++ {
		startTime = r.env.now()
		began := time.Now()
		var result map[string]interface{}
		result, runErr = handler(ctx, r.env, task)

		status := RunSuccess
		if runErr != nil {
			status = RunFailure
			result = map[string]interface{}{"error": runErr.Error()}
			log.Warn("Task failed", "attempt", attempt, "error", runErr)
		} else {
			log.Info("Task completed", "attempt", attempt)
		}
		r.record(ctx, models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           startTime,
			Runtime:         int(time.Since(began).Milliseconds()),
			Status:          status,
			AttemptNumber:   attempt,
			Arguments:       task.Arguments,
			Result:          result,
		})
		if runErr == nil || ctx.Err() != nil {
			break
		}
	}

	status, due := NextState(task, runErr == nil, startTime)
	updates := map[string]interface{}{"last_run": &startTime, "status": status}
	if !due.Equal(task.Due) {
		updates["due"] = due
	}
	r.update(ctx, task, updates)
}

// NextState decides the status and due time of a task after a run.
// Failed tasks stop; one-time tasks finish; recurring tasks move to their
// next occurrence after now, or finish when the rule has none left.
func NextState(task models.ScheduledTask, succeeded bool, now time.Time) (models.ScheduledTaskStatus, time.Time) {
	if !succeeded {
		return models.ScheduledTaskStatusFailure, task.Due
	}
	if task.TaskType != models.ScheduledTaskTypeRecurring {
		return models.ScheduledTaskStatusDone, task.Due
	}
	next := task.NextDue(now)
	if next.After(now) && next.After(task.Due) {
		return models.ScheduledTaskStatusActive, next
	}
	return models.ScheduledTaskStatusDone, task.Due
}

func (r *Runner) record(ctx context.Context, h models.ScheduledTaskHistory) {
	if err := r.env.Store.RecordRun(ctx, &h); err != nil {
		slog.ErrorContext(ctx, "Failed to store task history", "task_id", h.ScheduledTaskID, "error", err)
	}
}

func (r *Runner) update(ctx context.Context, task models.ScheduledTask, updates map[string]interface{}) {
	if err := r.env.Store.Update(ctx, task, updates); err != nil {
		slog.ErrorContext(ctx, "Failed to update task", "task_id", task.ID, "error", err)
	}
}
