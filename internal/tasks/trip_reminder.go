package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"journeylink_app/internal/models"
)

const tripReminderTemplate = "Hi %s, your trip from %s to %s departs on %s. Have a good journey!"

// TripReminderArgs defines the arguments of a departure reminder
type TripReminderArgs struct {
	TripID      string `json:"trip_id"`
	UserUID     string `json:"user_uid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartDate  string `json:"depart_date"`
}

// TripReminderTaskDef reminds a traveller of an upcoming departure
type TripReminderTaskDef struct{}

func (t *TripReminderTaskDef) TaskID() string {
	return "trip_reminder"
}

// CreateTask builds the reminder for a paid trip, due lead before the
// departure day starts. A departure closer than lead is reminded at now.
func (t *TripReminderTaskDef) CreateTask(trip models.Trip, name, emailAddr string, lead time.Duration, now time.Time) (*models.ScheduledTask, error) {
	depart, err := time.ParseInLocation("2006-01-02", trip.DepartDate, now.Location())
	if err != nil {
		return nil, fmt.Errorf("departure date %q: %w", trip.DepartDate, err)
	}
	due := depart.Add(-lead)
	if due.Before(now) {
		due = now
	}

	task, err := BuildScheduledTask(t.TaskID(), TripReminderArgs{
		TripID:      trip.ID,
		UserUID:     trip.UserUID,
		Name:        name,
		Email:       emailAddr,
		Origin:      trip.Origin,
		Destination: trip.Destination,
		DepartDate:  trip.DepartDate,
	}, due, nil, models.ScheduledTaskTypeOneTime, 3)
	if err != nil {
		return nil, err
	}
	task.Reference = trip.ID
	return task, nil
}

func (t *TripReminderTaskDef) HandleExecution(ctx context.Context, env *Env, task models.ScheduledTask) (map[string]interface{}, error) {
	var args TripReminderArgs
	if err := parseArguments(task, &args); err != nil {
		return nil, err
	}
	if args.UserUID == "" {
		return nil, errors.New("trip reminder without user")
	}
	if env.Notifier == nil {
		return nil, errors.New("no notifier configured")
	}

	name := args.Name
	if name == "" {
		name = "traveller"
	}
	body := fmt.Sprintf(tripReminderTemplate, name, args.Origin, args.Destination, args.DepartDate)
	channel, err := env.Notifier.Notify(ctx, args.UserUID, args.Email, "Your trip to "+args.Destination, body)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Trip reminder sent", "trip_id", args.TripID, "channel", channel)
	return map[string]interface{}{
		"trip_id": args.TripID,
		"channel": string(channel),
	}, nil
}

// TripReminderTask is the singleton instance of TripReminderTaskDef
var TripReminderTask = &TripReminderTaskDef{}

// ScheduleTripReminder stores a reminder for a paid trip
func ScheduleTripReminder(ctx context.Context, env *Env, trip models.Trip, name, emailAddr string, lead time.Duration) (*models.ScheduledTask, error) {
	task, err := TripReminderTask.CreateTask(trip, name, emailAddr, lead, env.now())
	if err != nil {
		return nil, err
	}
	if err := env.Schedule(ctx, task); err != nil {
		return nil, fmt.Errorf("schedule trip reminder: %w", err)
	}
	return task, nil
}
