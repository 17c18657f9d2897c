package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/teambition/rrule-go"

	"journeylink_app/internal/config"
	"journeylink_app/internal/logging"
	"journeylink_app/internal/models"
	"journeylink_app/internal/services"
	"journeylink_app/internal/tasks"
)

const dueLayout = "2006-01-02 15:04"

// taskOptions are the flags of the root command
type taskOptions struct {
	TaskName   string
	Arguments  string
	Due        string
	TaskType   string
	Recurring  string
	MaxAttempt int
	Reference  string
}

var opts taskOptions

var rootCmd = &cobra.Command{
	Use:   "schedule_task",
	Short: "Schedule a task for the JourneyLink worker",
	Long: `Creates a scheduled task that the worker runs once it is due.

Examples:
  schedule_task --task_name log_info --arguments '{"message":"hi"}' --due "2026-05-01 09:00"
  schedule_task --task_name send_notification --arguments @payload.json --due 2026-05-01T09:00:00Z \
    --tasktype recurring --recurring "FREQ=WEEKLY;BYDAY=MO"

Use "schedule_task list" to see the task names the worker knows.`,
	SilenceUsage: true,
	RunE:         runSchedule,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&opts.TaskName, "task_name", "", "name of the task (required)")
	f.StringVar(&opts.Arguments, "arguments", "", "JSON arguments, or @file to read them from a file (required)")
	f.StringVar(&opts.Due, "due", "", "due time, '2006-01-02 15:04' in local time or RFC3339 (required)")
	f.StringVar(&opts.TaskType, "tasktype", string(models.ScheduledTaskTypeOneTime), "onetime or recurring")
	f.StringVar(&opts.Recurring, "recurring", "", "RRULE for recurring tasks, e.g. FREQ=DAILY")
	f.IntVar(&opts.MaxAttempt, "max_attempt", 3, "max attempts per run")
	f.StringVar(&opts.Reference, "reference", "", "record the task is about, e.g. a trip ID")
	_ = rootCmd.MarkFlagRequired("task_name")
	_ = rootCmd.MarkFlagRequired("arguments")
	_ = rootCmd.MarkFlagRequired("due")
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	logging.New(cfg.LogFormat, cfg.LogLevel)

	rawArgs := opts.Arguments
	if len(rawArgs) > 1 && rawArgs[0] == '@' {
		data, err := os.ReadFile(rawArgs[1:])
		if err != nil {
			return fmt.Errorf("read arguments file: %w", err)
		}
		rawArgs = string(data)
	}

	task, err := buildTask(opts, rawArgs, time.Local)
	if err != nil {
		return err
	}
	if _, ok := tasks.GlobalRegistry.Get(task.TaskName); !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: the worker has no handler for %q\n", task.TaskName)
	}

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	db, err := services.InitDB(cfg.DatabaseURL, false)
	if err != nil {
		return err
	}
	if err := tasks.NewGormStore(db).Create(cmd.Context(), task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Successfully created task ID: %d\n", task.ID)
	fmt.Fprintf(out, "Task: %s\nDue: %s\nType: %s\n", task.TaskName, task.Due, task.TaskType)
	return nil
}

// buildTask validates the flags and turns them into a task record
func buildTask(o taskOptions, rawArgs string, loc *time.Location) (*models.ScheduledTask, error) {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return nil, fmt.Errorf("invalid JSON arguments: %w", err)
	}

	due, err := parseDue(o.Due, loc)
	if err != nil {
		return nil, err
	}

	taskType := models.ScheduledTaskType(o.TaskType)
	if !slices.Contains([]models.ScheduledTaskType{models.ScheduledTaskTypeOneTime, models.ScheduledTaskTypeRecurring}, taskType) {
		return nil, fmt.Errorf("unknown task type %q", o.TaskType)
	}

	var recurring *string
	if o.Recurring != "" {
		if _, err := rrule.StrToRRule(o.Recurring); err != nil {
			return nil, fmt.Errorf("invalid recurring rule: %w", err)
		}
		recurring = &o.Recurring
	} else if taskType == models.ScheduledTaskTypeRecurring {
		return nil, errors.New("recurring tasks need --recurring")
	}

	if o.MaxAttempt < 1 {
		return nil, errors.New("max_attempt must be at least 1")
	}

	task, err := tasks.BuildScheduledTask(o.TaskName, args, due, recurring, taskType, o.MaxAttempt)
	if err != nil {
		return nil, err
	}
	task.Reference = o.Reference
	return task, nil
}

// parseDue accepts RFC3339, or the short layout in loc
func parseDue(s string, loc *time.Location) (time.Time, error) {
	if due, err := time.Parse(time.RFC3339, s); err == nil {
		return due, nil
	}
	due, err := time.ParseInLocation(dueLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date, use %q or RFC3339", dueLayout)
	}
	return due, nil
}
