package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"journeylink_app/internal/models"
)

// ErrNoTrips is returned when the user has not saved any trip
var ErrNoTrips = errors.New("no saved trips")

// DateLayout is the format of trip dates
const DateLayout = "2006-01-02"

// TripRequest is what the selection screen submits
type TripRequest struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  string
	Class       string
}

type TripService struct {
	docs DocumentStore
	now  func() time.Time
}

func NewTripService(docs DocumentStore) *TripService {
	return &TripService{docs: docs, now: time.Now}
}

// Save stores a pending trip owned by uid at the fixed carrier and price
func (s *TripService) Save(ctx context.Context, uid string, req TripRequest) (models.Trip, error) {
	trip := models.Trip{
		UserUID:     uid,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartDate:  req.DepartDate,
		ReturnDate:  req.ReturnDate,
		Carrier:     models.DefaultCarrier,
		Transport:   models.DefaultTransport,
		Class:       req.Class,
		Price:       models.DefaultPrice,
		Status:      models.TripStatusPending,
		CreatedAt:   s.now().UTC(),
	}

	id, err := s.docs.Create(ctx, models.CollectionTrips, trip.ToMap())
	if err != nil {
		return models.Trip{}, fmt.Errorf("save trip: %w", err)
	}
	trip.ID = id
	return trip, nil
}

// History returns the user's trips, newest first
func (s *TripService) History(ctx context.Context, uid string) ([]models.Trip, error) {
	docs, err := s.docs.Query(ctx, models.CollectionTrips, "usuario", uid)
	if err != nil {
		return nil, fmt.Errorf("trips of %s: %w", uid, err)
	}

	trips := make([]models.Trip, 0, len(docs))
	for _, doc := range docs {
		trips = append(trips, tripFromDoc(doc))
	}
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	return trips, nil
}

// Latest returns the most recent trip of the user
func (s *TripService) Latest(ctx context.Context, uid string) (models.Trip, error) {
	trips, err := s.History(ctx, uid)
	if err != nil {
		return models.Trip{}, err
	}
	if len(trips) == 0 {
		return models.Trip{}, ErrNoTrips
	}
	return trips[0], nil
}

// Get returns a trip only if uid owns it
func (s *TripService) Get(ctx context.Context, uid, tripID string) (models.Trip, error) {
	doc, err := s.docs.Get(ctx, models.CollectionTrips, tripID)
	if err != nil {
		return models.Trip{}, err
	}
	trip := tripFromDoc(doc)
	if trip.UserUID != uid {
		return models.Trip{}, fmt.Errorf("%s/%s: %w", models.CollectionTrips, tripID, ErrDocumentNotFound)
	}
	return trip, nil
}

// Confirm records the companion relation and marks the trip confirmed
func (s *TripService) Confirm(ctx context.Context, tripID, relation string) error {
	return s.docs.Update(ctx, models.CollectionTrips, tripID, map[string]any{
		"relacion": relation,
		"estado":   string(models.TripStatusConfirmed),
	})
}

// MarkPaid marks the trip paid
func (s *TripService) MarkPaid(ctx context.Context, tripID string) error {
	return s.docs.Update(ctx, models.CollectionTrips, tripID, map[string]any{
		"estado": string(models.TripStatusPaid),
	})
}

// Trip history filters
const (
	TripFilterAll     = "all"
	TripFilterCurrent = "current"
	TripFilterPast    = "past"
)

// FilterTrips keeps trips matching the history filter and a case-insensitive search on
// origin or destination. A trip is current until its last travel day has passed.
func FilterTrips(trips []models.Trip, filter, query string, today time.Time) []models.Trip {
	day := today.Format(DateLayout)
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		last := t.DepartDate
		if t.ReturnDate != "" {
			last = t.ReturnDate
		}
		switch filter {
		case TripFilterCurrent:
			if last < day {
				continue
			}
		case TripFilterPast:
			if last >= day {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Destination), query) &&
			!strings.Contains(strings.ToLower(t.Origin), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func tripFromDoc(doc Document) models.Trip {
	return models.Trip{
		ID:          doc.ID,
		UserUID:     stringField(doc.Data, "usuario"),
		Origin:      stringField(doc.Data, "origen"),
		Destination: stringField(doc.Data, "destino"),
		DepartDate:  stringField(doc.Data, "fechaPartida"),
		ReturnDate:  stringField(doc.Data, "fechaRegreso"),
		Carrier:     stringField(doc.Data, "empresa"),
		Transport:   stringField(doc.Data, "transporte"),
		Class:       stringField(doc.Data, "clase"),
		Price:       stringField(doc.Data, "precio"),
		Status:      models.TripStatus(stringField(doc.Data, "estado")),
		Relation:    stringField(doc.Data, "relacion"),
		CreatedAt:   timeField(doc.Data, "creado"),
	}
}
