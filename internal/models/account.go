// Package models содержит доменную модель учётной записи пользователя,
// статус присутствия и вспомогательные структуры для обновления профиля и входа.
// Структуры используются в бизнес‑логике каталога и при работе с хранилищем.
package models

import "time"

// Status — статус присутствия пользователя.
type Status string

const (
	// StatusOnline — пользователь в сети.
	StatusOnline Status = "ONLINE"
	// StatusOffline — пользователь не в сети.
	StatusOffline Status = "OFFLINE"
)

// Valid сообщает, является ли статус одним из допустимых значений.
func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline:
		return true
	default:
		return false
	}
}

// Toggle возвращает противоположный статус.
// Неизвестное значение возвращается без изменений.
func (s Status) Toggle() Status {
	switch s {
	case StatusOnline:
		return StatusOffline
	case StatusOffline:
		return StatusOnline
	default:
		return s
	}
}

// Account представляет зарегистрированную учётную запись.
type Account struct {
	ID           int64      // Идентификатор, назначается хранилищем при первом сохранении
	Username     string     // Имя пользователя (уникальное)
	Password     string     `json:"-"` // Пароль в открытом виде, сравнивается точным совпадением; в кеш не сериализуется
	Token        string     // Токен сессии, выдаётся один раз при регистрации
	Status       Status     // Статус присутствия
	CreationDate time.Time  // Дата создания учётной записи
	Birthday     *time.Time // Дата рождения, может отсутствовать
}

// AccountPatch описывает изменения профиля. Nil означает, что поле не передано.
type AccountPatch struct {
	Username *string
	Birthday *time.Time
}

// Credentials — имя пользователя и пароль для входа.
type Credentials struct {
	Username string
	Password string
}
