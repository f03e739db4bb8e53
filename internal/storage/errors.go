// Package storage содержит общие ошибки хранилищ учётных записей
// и их реализации: PostgreSQL и хранилище в памяти.
package storage

import "errors"

var (
	// ErrNotFound возвращается, если учётная запись не найдена.
	ErrNotFound = errors.New("account not found")
	// ErrUsernameTaken возвращается при нарушении уникальности имени пользователя.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrTokenTaken возвращается при нарушении уникальности токена.
	ErrTokenTaken = errors.New("token already taken")
)
