package models

import "time"

// TripStatus is the lifecycle of a booked trip
type TripStatus string

const (
	TripStatusPending   TripStatus = "pendiente"
	TripStatusConfirmed TripStatus = "confirmado"
	TripStatusPaid      TripStatus = "pagado"
)

// Fixed booking values until fares are priced per route
const (
	DefaultCarrier   = "AeroMexico"
	DefaultTransport = "avion"
	DefaultPrice     = "30500"
)

// CompanionRelations are the options offered on the confirmation screen
var CompanionRelations = []string{"Familiar", "Amigo", "Pareja", "Compañero de trabajo"}

// TravelClasses are the options offered on the selection screen
var TravelClasses = []string{"Económica", "Premium", "Business", "Primera"}

// Trip is a journey stored in the Viajes collection
type Trip struct {
	ID          string     `firestore:"-" json:"id"`
	UserUID     string     `firestore:"usuario" json:"user_uid"`
	Origin      string     `firestore:"origen" json:"origin"`
	Destination string     `firestore:"destino" json:"destination"`
	DepartDate  string     `firestore:"fechaPartida" json:"depart_date"`
	ReturnDate  string     `firestore:"fechaRegreso" json:"return_date"`
	Carrier     string     `firestore:"empresa" json:"carrier"`
	Transport   string     `firestore:"transporte" json:"transport"`
	Class       string     `firestore:"clase" json:"class"`
	Price       string     `firestore:"precio" json:"price"`
	Status      TripStatus `firestore:"estado" json:"status"`
	Relation    string     `firestore:"relacion" json:"relation"`
	CreatedAt   time.Time  `firestore:"creado" json:"created_at"`
}

// Name is the title shown on the confirmation screen
func (t Trip) Name() string {
	return "Trip to " + t.Destination
}

// DateRange joins departure and return dates for round trips
func (t Trip) DateRange() string {
	if t.DepartDate != "" && t.ReturnDate != "" {
		return t.DepartDate + " - " + t.ReturnDate
	}
	return t.DepartDate
}

// RoundTrip reports whether a return date was chosen
func (t Trip) RoundTrip() bool {
	return t.ReturnDate != ""
}

// ToMap returns the document fields of the trip
func (t Trip) ToMap() map[string]any {
	return map[string]any{
		"usuario":      t.UserUID,
		"origen":       t.Origin,
		"destino":      t.Destination,
		"fechaPartida": t.DepartDate,
		"fechaRegreso": t.ReturnDate,
		"empresa":      t.Carrier,
		"transporte":   t.Transport,
		"clase":        t.Class,
		"precio":       t.Price,
		"estado":       string(t.Status),
		"relacion":     t.Relation,
		"creado":       t.CreatedAt,
	}
}
