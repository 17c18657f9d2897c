package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journeylink_app/internal/models"
)

func newTestTripService(start time.Time) *TripService {
	svc := NewTripService(NewMemoryStore())
	clock := start
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestTripSaveUsesFixedFare(t *testing.T) {
	ctx := context.Background()
	svc := newTestTripService(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	trip, err := svc.Save(ctx, "u1", TripRequest{
		Origin:      "CDMX",
		Destination: "Cancún",
		DepartDate:  "2026-04-02",
		Class:       "Económica",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, models.DefaultCarrier, trip.Carrier)
	assert.Equal(t, models.DefaultTransport, trip.Transport)
	assert.Equal(t, models.DefaultPrice, trip.Price)
	assert.Equal(t, models.TripStatusPending, trip.Status)

	stored, err := svc.Get(ctx, "u1", trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip, stored)
}

func TestTripHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestTripService(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	_, err := svc.Latest(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoTrips)

	first, _ := svc.Save(ctx, "u1", TripRequest{Destination: "Oaxaca"})
	_, _ = svc.Save(ctx, "u2", TripRequest{Destination: "Mérida"})
	second, _ := svc.Save(ctx, "u1", TripRequest{Destination: "Tijuana"})

	history, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	latest, err := svc.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Tijuana", latest.Destination)
}

func TestTripConfirmAndPay(t *testing.T) {
	ctx := context.Background()
	svc := newTestTripService(time.Now())
	trip, _ := svc.Save(ctx, "u1", TripRequest{Destination: "Puebla"})

	require.NoError(t, svc.Confirm(ctx, trip.ID, "Amigo"))
	got, _ := svc.Get(ctx, "u1", trip.ID)
	assert.Equal(t, models.TripStatusConfirmed, got.Status)
	assert.Equal(t, "Amigo", got.Relation)

	require.NoError(t, svc.MarkPaid(ctx, trip.ID))
	got, _ = svc.Get(ctx, "u1", trip.ID)
	assert.Equal(t, models.TripStatusPaid, got.Status)
}

func TestTripGetChecksOwner(t *testing.T) {
	ctx := context.Background()
	svc := newTestTripService(time.Now())
	trip, _ := svc.Save(ctx, "u1", TripRequest{Destination: "Puebla"})

	_, err := svc.Get(ctx, "intruder", trip.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestFilterTrips(t *testing.T) {
	trips := []models.Trip{
		{ID: "a", Origin: "CDMX", Destination: "Cancún", DepartDate: "2026-05-01"},
		{ID: "b", Origin: "Monterrey", Destination: "Oaxaca", DepartDate: "2026-03-01", ReturnDate: "2026-04-20"},
		{ID: "c", Origin: "CDMX", Destination: "Tijuana", DepartDate: "2026-01-10"},
	}
	today := time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter string
		query  string
		want   []string
	}{
		{name: "all", filter: TripFilterAll, want: []string{"a", "b", "c"}},
		{name: "return day still current", filter: TripFilterCurrent, want: []string{"a", "b"}},
		{name: "past", filter: TripFilterPast, want: []string{"c"}},
		{name: "search destination", filter: TripFilterAll, query: "cancún", want: []string{"a"}},
		{name: "search origin", filter: TripFilterPast, query: " cdmx ", want: []string{"c"}},
		{name: "no match", filter: "soon", query: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{}
			for _, trip := range FilterTrips(trips, tt.filter, tt.query, today) {
				ids = append(ids, trip.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
