// Package models содержит доменные структуры платформы мероприятий:
// пользователей, мероприятия, регистрации и сообщения уведомлений.
package models

import "time"

// Роли пользователей.
const (
	RoleParticipant = "Participant"
	RoleOrganizer   = "Organizer"
	RoleAdmin       = "Admin"
)

// ApprovalStatus — статус заявки пользователя на роль организатора.
type ApprovalStatus string

// Допустимые значения ApprovalStatus.
const (
	ApprovalNotApplied ApprovalStatus = "not applied"
	ApprovalPending    ApprovalStatus = "pending"
	ApprovalApproved   ApprovalStatus = "approved"
	ApprovalRejected   ApprovalStatus = "rejected"
)

// CanTransitionTo сообщает, разрешён ли переход статуса заявки в next.
//
// Допустимы только: not applied → pending, pending → approved,
// pending → rejected, rejected → pending.
func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) bool {
	switch s {
	case ApprovalNotApplied, ApprovalRejected:
		return next == ApprovalPending
	case ApprovalPending:
		return next == ApprovalApproved || next == ApprovalRejected
	default:
		return false
	}
}

// Valid сообщает, является ли s одним из известных статусов.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalNotApplied, ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя платформы.
type User struct {
	UUID                    string         `json:"id"`
	Name                    string         `json:"name"`
	Email                   string         `json:"email"`
	PasswordHash            string         `json:"-"`
	Avatar                  string         `json:"avatar"`
	Role                    string         `json:"role"`
	OrganizerApprovalStatus ApprovalStatus `json:"organizerApprovalStatus"`
	CreatedAt               time.Time      `json:"createdAt"`
}

// ProfileUpdate — изменяемые поля профиля. Пустой Password означает,
// что пароль не меняется.
type ProfileUpdate struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// Actor — аутентифицированный пользователь, от имени которого выполняется операция.
type Actor struct {
	UserUID string
	Role    string
}

// IsAdmin сообщает, что у пользователя роль администратора.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
