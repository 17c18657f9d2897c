package models

// Firestore collection names
const (
	CollectionUsers    = "usuario"
	CollectionComments = "comentarios"
	CollectionTrips    = "Viajes"
)

// Companion is a registered user as listed on the companions screen.
// Stored in the usuario collection keyed by Firebase UID.
type Companion struct {
	ID     string  `firestore:"-" json:"id"`
	Email  string  `firestore:"email" json:"email"`
	Name   string  `firestore:"name" json:"name"`
	Rating float64 `firestore:"rating" json:"rating"`
}

// Stars is the rating rounded to a whole number for display and routing
func (c Companion) Stars() int {
	return int(c.Rating + 0.5)
}

// ToMap returns the document fields written on registration
func (c Companion) ToMap() map[string]any {
	return map[string]any{
		"email":  c.Email,
		"name":   c.Name,
		"rating": c.Rating,
	}
}
