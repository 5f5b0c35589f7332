package models

import "time"

// Event — мероприятие, созданное организатором.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `json:"capacity"`
	Registered  int       `json:"registered"`
	OrganizerID string    `json:"organizerId"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsFull сообщает, что свободных мест не осталось. При Capacity 0 мест не ограничено.
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && e.Registered >= e.Capacity
}

// DummyEvent используется для приёма данных мероприятия из JSON-запроса.
// Даты приходят в формате RFC 3339.
type DummyEvent struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,max=50"`
	Location    string `json:"location" validate:"required,max=200"`
	StartsAt    string `json:"startsAt" validate:"required"`
	EndsAt      string `json:"endsAt" validate:"required"`
	Capacity    int    `json:"capacity" validate:"gte=0"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// EventFilter — параметры публичного списка мероприятий.
type EventFilter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}
