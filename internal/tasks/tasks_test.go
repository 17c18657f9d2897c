package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journeylink_app/internal/models"
)

type memoryStore struct {
	mu      sync.Mutex
	nextID  uint
	tasks   map[uint]*models.ScheduledTask
	history []models.ScheduledTaskHistory
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tasks: make(map[uint]*models.ScheduledTask)}
}

func (s *memoryStore) Create(_ context.Context, task *models.ScheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task.ID = s.nextID
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

func (s *memoryStore) Due(_ context.Context, now time.Time) ([]models.ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ScheduledTask
	for id := uint(1); id <= s.nextID; id++ {
		t, ok := s.tasks[id]
		if ok && t.Status == models.ScheduledTaskStatusActive && !t.Due.After(now) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memoryStore) Update(_ context.Context, task models.ScheduledTask, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tasks[task.ID]
	if status, ok := updates["status"].(models.ScheduledTaskStatus); ok {
		t.Status = status
	}
	if due, ok := updates["due"].(time.Time); ok {
		t.Due = due
	}
	if last, ok := updates["last_run"].(*time.Time); ok {
		t.LastRun = last
	}
	return nil
}

func (s *memoryStore) RecordRun(_ context.Context, h *models.ScheduledTaskHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, *h)
	return nil
}

type sent struct {
	uid, email, subject, body string
}

type fakeNotifier struct {
	channels map[string]models.NotificationChannel
	failing  map[string]bool
	sent     []sent
}

func (n *fakeNotifier) Notify(_ context.Context, uid, emailAddr, subject, body string) (models.NotificationChannel, error) {
	if n.failing[uid] {
		return models.NotificationChannelWhatsapp, errors.New("waha unreachable")
	}
	n.sent = append(n.sent, sent{uid, emailAddr, subject, body})
	if ch, ok := n.channels[uid]; ok {
		return ch, nil
	}
	return models.NotificationChannelEmail, nil
}

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestEnv() (*Env, *memoryStore, *fakeNotifier) {
	store := newMemoryStore()
	notifier := &fakeNotifier{channels: map[string]models.NotificationChannel{}, failing: map[string]bool{}}
	env := &Env{Store: store, Notifier: notifier, Now: func() time.Time { return testNow }}
	return env, store, notifier
}

func TestTripReminderDue(t *testing.T) {
	trip := models.Trip{ID: "trip-1", UserUID: "u1", Origin: "CDMX", Destination: "Cancún", DepartDate: "2026-03-20"}

	task, err := TripReminderTask.CreateTask(trip, "Ana", "ana@example.com", 24*time.Hour, testNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC), task.Due)
	assert.Equal(t, "trip-1", task.Reference)
	assert.Equal(t, "trip_reminder", task.TaskName)
	assert.Equal(t, "Cancún", task.Arguments["destination"])

	trip.DepartDate = "2026-03-10"
	task, err = TripReminderTask.CreateTask(trip, "Ana", "ana@example.com", 24*time.Hour, testNow)
	require.NoError(t, err)
	assert.Equal(t, testNow, task.Due, "a departure inside the lead is reminded right away")

	trip.DepartDate = "10/03/2026"
	_, err = TripReminderTask.CreateTask(trip, "Ana", "ana@example.com", 24*time.Hour, testNow)
	assert.Error(t, err)
}

func TestRunnerSendsTripReminder(t *testing.T) {
	env, store, notifier := newTestEnv()
	trip := models.Trip{ID: "trip-1", UserUID: "u1", Origin: "CDMX", Destination: "Cancún", DepartDate: "2026-03-10"}
	task, err := ScheduleTripReminder(context.Background(), env, trip, "Ana", "ana@example.com", 24*time.Hour)
	require.NoError(t, err)

	registry := NewRegistry()
	DefineTasks(registry)
	ran, err := NewRunner(env, registry).ProcessDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ran)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "ana@example.com", notifier.sent[0].email)
	assert.Equal(t, "Your trip to Cancún", notifier.sent[0].subject)
	assert.Contains(t, notifier.sent[0].body, "from CDMX to Cancún departs on 2026-03-10")

	assert.Equal(t, models.ScheduledTaskStatusDone, store.tasks[task.ID].Status)
	require.Len(t, store.history, 1)
	assert.Equal(t, RunSuccess, store.history[0].Status)
	assert.Equal(t, "email", store.history[0].Result["channel"])
}

func TestRunnerRetriesUntilMaxAttempt(t *testing.T) {
	env, store, _ := newTestEnv()
	calls := 0
	registry := NewRegistry()
	registry.Register("flaky", func(context.Context, *Env, models.ScheduledTask) (map[string]interface{}, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("not yet")
		}
		return map[string]interface{}{"ok": true}, nil
	})
	registry.Register("broken", func(context.Context, *Env, models.ScheduledTask) (map[string]interface{}, error) {
		return nil, errors.New("always")
	})

	flaky := &models.ScheduledTask{TaskName: "flaky", Due: testNow, Status: models.ScheduledTaskStatusActive, TaskType: models.ScheduledTaskTypeOneTime, MaxAttempt: 3}
	broken := &models.ScheduledTask{TaskName: "broken", Due: testNow, Status: models.ScheduledTaskStatusActive, TaskType: models.ScheduledTaskTypeOneTime, MaxAttempt: 2}
	require.NoError(t, store.Create(context.Background(), flaky))
	require.NoError(t, store.Create(context.Background(), broken))

	runner := NewRunner(env, registry)
	runner.Execute(context.Background(), *flaky)
	runner.Execute(context.Background(), *broken)

	assert.Equal(t, 3, calls)
	assert.Equal(t, models.ScheduledTaskStatusDone, store.tasks[flaky.ID].Status)
	assert.Equal(t, models.ScheduledTaskStatusFailure, store.tasks[broken.ID].Status)

	require.Len(t, store.history, 5)
	assert.Equal(t, 3, store.history[2].AttemptNumber)
	assert.Equal(t, RunSuccess, store.history[2].Status)
	assert.Equal(t, RunFailure, store.history[4].Status)
}

func TestRunnerUnknownTask(t *testing.T) {
	env, store, _ := newTestEnv()
	task := &models.ScheduledTask{TaskName: "nope", Due: testNow, Status: models.ScheduledTaskStatusActive, MaxAttempt: 3}
	require.NoError(t, store.Create(context.Background(), task))

	NewRunner(env, NewRegistry()).Execute(context.Background(), *task)

	assert.Equal(t, models.ScheduledTaskStatusFailure, store.tasks[task.ID].Status)
	require.Len(t, store.history, 1)
	assert.Equal(t, RunHandlerNotFound, store.history[0].Status)
}

func TestNextState(t *testing.T) {
	daily := "FREQ=DAILY;INTERVAL=1"
	twice := "FREQ=DAILY;COUNT=2"
	due := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		task       models.ScheduledTask
		succeeded  bool
		wantStatus models.ScheduledTaskStatus
		wantDue    time.Time
	}{
		{"failure", models.ScheduledTask{TaskType: models.ScheduledTaskTypeRecurring, Due: due, RecurringInterval: &daily}, false, models.ScheduledTaskStatusFailure, due},
		{"one time", models.ScheduledTask{TaskType: models.ScheduledTaskTypeOneTime, Due: due}, true, models.ScheduledTaskStatusDone, due},
		{"recurring advances", models.ScheduledTask{TaskType: models.ScheduledTaskTypeRecurring, Due: due, RecurringInterval: &daily}, true, models.ScheduledTaskStatusActive, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)},
		{"rule exhausted", models.ScheduledTask{TaskType: models.ScheduledTaskTypeRecurring, Due: due, RecurringInterval: &twice}, true, models.ScheduledTaskStatusDone, due},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, next := NextState(tt.task, tt.succeeded, testNow)
			assert.Equal(t, tt.wantStatus, status)
			assert.True(t, tt.wantDue.Equal(next), "got %s", next)
		})
	}
}

func TestSendNotificationReschedulesFailures(t *testing.T) {
	env, store, notifier := newTestEnv()
	notifier.channels["quiet"] = models.NotificationChannelNone
	notifier.failing["down"] = true

	task, err := SendNotificationTask.CreateTask(SendNotificationArgs{
		Recipients: []Recipient{
			{UID: "ok", Name: "Ana", Email: "ana@example.com"},
			{UID: "quiet", Name: "Luis"},
			{UID: "down", Name: "Eva"},
		},
		NotifTemplate: "Hola $name ($email)",
		Subject:       "News",
	}, testNow)
	require.NoError(t, err)

	result, err := SendNotificationTask.HandleExecution(context.Background(), env, *task)
	require.NoError(t, err)
	assert.Equal(t, 3, result["total"])
	assert.Equal(t, 1, result["success"])
	assert.Equal(t, 1, result["skipped"])
	assert.Equal(t, 1, result["failure"])
	assert.Equal(t, "Hola Ana (ana@example.com)", notifier.sent[0].body)

	require.Len(t, store.tasks, 1)
	retry := store.tasks[1]
	assert.Equal(t, testNow.Add(RetryDelay), retry.Due)
	var args SendNotificationArgs
	require.NoError(t, parseArguments(*retry, &args))
	assert.Equal(t, 1, args.AttemptCount)
	require.Len(t, args.Recipients, 1)
	assert.Equal(t, "down", args.Recipients[0].UID)

	// the last allowed attempt reports the failure instead of rescheduling
	args.AttemptCount = 2
	last, err := SendNotificationTask.CreateTask(args, testNow)
	require.NoError(t, err)
	_, err = SendNotificationTask.HandleExecution(context.Background(), env, *last)
	assert.ErrorContains(t, err, "max attempts reached")
	assert.Len(t, store.tasks, 1)
}

func TestLogInfoTask(t *testing.T) {
	env, _, _ := newTestEnv()
	task := models.ScheduledTask{ID: 7, Arguments: map[string]interface{}{"message": "ping", "level": "warn"}}
	result, err := LogInfoTask.HandleExecution(context.Background(), env, task)
	require.NoError(t, err)
	assert.Equal(t, "ping", result["message"])
	assert.Equal(t, "WARN", result["level"])

	result, err = LogInfoTask.HandleExecution(context.Background(), env, models.ScheduledTask{})
	require.NoError(t, err)
	assert.Equal(t, "No message provided", result["message"])
	assert.Equal(t, "INFO", result["level"])
}

func TestGlobalRegistryHasAllTasks(t *testing.T) {
	for _, name := range []string{"log_info", "send_notification", "trip_reminder"} {
		_, ok := GlobalRegistry.Get(name)
		assert.True(t, ok, name)
	}
}
