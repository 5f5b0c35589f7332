// Package storage объявляет ошибки слоя хранения, общие для всех реализаций.
package storage

import "errors"

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict — запись изменилась параллельно и условное обновление не применилось.
	ErrConflict = errors.New("conflict")
	// ErrEventFull — на мероприятии не осталось мест.
	ErrEventFull = errors.New("event is full")
)
