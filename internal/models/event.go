package models

import "time"

// EventType — тип события жизненного цикла учётной записи.
type EventType string

const (
	// EventRegistered публикуется после регистрации.
	EventRegistered EventType = "account.registered"
	// EventRenamed публикуется после смены имени пользователя.
	EventRenamed EventType = "account.renamed"
	// EventStatusChanged публикуется после смены статуса присутствия.
	EventStatusChanged EventType = "account.status_changed"
)

// AccountEvent — сообщение об изменении учётной записи для внешних подписчиков.
type AccountEvent struct {
	Type       EventType `json:"type"`
	AccountID  int64     `json:"account_id"`
	Username   string    `json:"username"`
	Status     Status    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
