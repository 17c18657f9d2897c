package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journeylink_app/internal/models"
)

func TestBuildTask(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	base := taskOptions{TaskName: "log_info", Due: "2026-05-01 09:30", TaskType: "onetime", MaxAttempt: 3}

	task, err := buildTask(base, `{"message":"hi"}`, loc)
	require.NoError(t, err)
	assert.Equal(t, "log_info", task.TaskName)
	assert.Equal(t, "hi", task.Arguments["message"])
	assert.True(t, time.Date(2026, 5, 1, 15, 30, 0, 0, time.UTC).Equal(task.Due))
	assert.Equal(t, models.ScheduledTaskStatusActive, task.Status)
	assert.Nil(t, task.RecurringInterval)

	rfc := base
	rfc.Due = "2026-05-01T09:30:00Z"
	task, err = buildTask(rfc, `{}`, loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC).Equal(task.Due))

	weekly := base
	weekly.TaskType = "recurring"
	weekly.Recurring = "FREQ=WEEKLY;BYDAY=MO"
	weekly.Reference = "trip-9"
	task, err = buildTask(weekly, `{}`, loc)
	require.NoError(t, err)
	require.NotNil(t, task.RecurringInterval)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", *task.RecurringInterval)
	assert.Equal(t, "trip-9", task.Reference)
}

func TestBuildTaskRejects(t *testing.T) {
	base := taskOptions{TaskName: "log_info", Due: "2026-05-01 09:30", TaskType: "onetime", MaxAttempt: 3}

	tests := []struct {
		name   string
		modify func(*taskOptions)
		args   string
		want   string
	}{
		{"bad json", func(*taskOptions) {}, `{`, "invalid JSON arguments"},
		{"bad due", func(o *taskOptions) { o.Due = "01/05/2026" }, `{}`, "invalid due date"},
		{"bad type", func(o *taskOptions) { o.TaskType = "weekly" }, `{}`, "unknown task type"},
		{"recurring without rule", func(o *taskOptions) { o.TaskType = "recurring" }, `{}`, "need --recurring"},
		{"bad rule", func(o *taskOptions) { o.Recurring = "FREQ=SOMETIMES" }, `{}`, "invalid recurring rule"},
		{"zero attempts", func(o *taskOptions) { o.MaxAttempt = 0 }, `{}`, "max_attempt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.modify(&o)
			_, err := buildTask(o, tt.args, time.UTC)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestListCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, []string{"log_info", "send_notification", "trip_reminder"}, strings.Fields(out.String()))
}
