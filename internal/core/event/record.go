package event

import "time"

// Record is an event as stored and listed by the backend
type Record struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	TeamSize    string    `json:"team_size"`
	Venue       string    `json:"venue"`
	EventDate   string    `json:"event_date"`
	Contact     string    `json:"contact"`
	HasPhoto    bool      `json:"has_photo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRecord builds a record from a validated draft
func NewRecord(id string, d Draft, createdAt time.Time) Record {
	return Record{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		TeamSize:    d.TeamSize,
		Venue:       d.Venue,
		EventDate:   d.EventDate,
		Contact:     d.Contact,
		HasPhoto:    d.HasPhoto(),
		CreatedAt:   createdAt,
	}
}
