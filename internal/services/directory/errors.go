package directory

import "errors"

var (
	// ErrNotFound — идентификатор или токен не соответствует учётной записи.
	ErrNotFound = errors.New("user not found")
	// ErrConflict — имя пользователя уже занято.
	ErrConflict = errors.New("username already taken")
	// ErrUnauthorized — неверные учётные данные или токен.
	ErrUnauthorized = errors.New("unauthorized")
)
