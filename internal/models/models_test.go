package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduledTaskNextDue(t *testing.T) {
	due := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)
	daily := "FREQ=DAILY;INTERVAL=1"
	broken := "FREQ=SOMETIMES"

	tests := []struct {
		name string
		task ScheduledTask
		want time.Time
	}{
		{
			name: "one time keeps due",
			task: ScheduledTask{TaskType: ScheduledTaskTypeOneTime, Due: due, RecurringInterval: &daily},
			want: due,
		},
		{
			name: "daily advances past now",
			task: ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due, RecurringInterval: &daily},
			want: time.Date(2026, 1, 4, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "invalid rule keeps due",
			task: ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due, RecurringInterval: &broken},
			want: due,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.task.NextDue(now)), "got %s", tt.task.NextDue(now))
		})
	}
}

func TestTripDateRange(t *testing.T) {
	oneWay := Trip{Destination: "Paris", DepartDate: "2025-12-22"}
	round := Trip{Destination: "Paris", DepartDate: "2025-12-22", ReturnDate: "2025-12-26"}

	assert.Equal(t, "2025-12-22", oneWay.DateRange())
	assert.False(t, oneWay.RoundTrip())
	assert.Equal(t, "2025-12-22 - 2025-12-26", round.DateRange())
	assert.Equal(t, "Trip to Paris", round.Name())
}

func TestCommentToMapInitialisesLikedBy(t *testing.T) {
	c := Comment{Author: "ana", Content: "Great company", Recipient: "Luis"}
	m := c.ToMap()
	assert.Equal(t, []string{}, m["likedBy"])
	assert.Equal(t, "0", m["likes"])
	assert.False(t, c.IsLikedBy("uid-ana"))
}

func TestLanguageTag(t *testing.T) {
	assert.Equal(t, LanguageSpanish, ParseLanguageTag("es"))
	assert.Equal(t, LanguageSystem, ParseLanguageTag("fr"))
	assert.Equal(t, "English", LanguageEnglish.DisplayName())
}

func TestCompanionStars(t *testing.T) {
	assert.Equal(t, 4, Companion{Rating: 4.4}.Stars())
	assert.Equal(t, 5, Companion{Rating: 4.5}.Stars())
	assert.Equal(t, 0, Companion{}.Stars())
}
