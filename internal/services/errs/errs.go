// Package errs объявляет ошибки бизнес-уровня, общие для всех сервисов.
// HTTP-слой переводит их в коды ответа.
package errs

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidTransition  = errors.New("invalid organizer status transition")
	ErrEventFull          = errors.New("event is full")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrNotRegistered      = errors.New("not registered for this event")
	ErrInvalidInput       = errors.New("invalid input")
)
