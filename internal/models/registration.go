package models

import "time"

// Registration — запись участника на мероприятие.
type Registration struct {
	ID        int       `json:"id"`
	EventID   string    `json:"eventId"`
	UserUID   string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	CreatedAt time.Time `json:"createdAt"`
}
