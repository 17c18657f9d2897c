package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"journeylink_app/internal/models"
)

// Sender delivers a message on the user's preferred channel
type Sender interface {
	Notify(ctx context.Context, uid, emailAddr, subject, body string) (models.NotificationChannel, error)
}

// Env carries what task handlers may use
type Env struct {
	Store    Store
	Notifier Sender
	Now      func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Schedule stores a new task
func (e *Env) Schedule(ctx context.Context, task *models.ScheduledTask) error {
	if e.Store == nil {
		return errors.New("no task store configured")
	}
	return e.Store.Create(ctx, task)
}

// TaskHandler is the function signature for a task handler.
// It returns a result map stored in the task history.
type TaskHandler func(ctx context.Context, env *Env, task models.ScheduledTask) (map[string]interface{}, error)

// Registry stores the mapping of task names to handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]TaskHandler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]TaskHandler)}
}

// GlobalRegistry is the default global registry
var GlobalRegistry = NewRegistry()

// Register adds a handler for a task name
func (r *Registry) Register(name string, handler TaskHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Get retrieves a handler for a task name
func (r *Registry) Get(name string) (TaskHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}

// Names lists the registered task names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

func init() {
	DefineTasks(GlobalRegistry)
}
