// Package views описывает внешнее представление учётных записей.
// Пароль наружу не выдаётся никогда, токен — только в ответах регистрации и входа.
package views

import (
	"time"

	"github.com/magabrotheeeer/account-directory/internal/models"
)

// DateLayout — формат дат во внешнем представлении.
const DateLayout = "2006-01-02"

// User — представление учётной записи для чтения.
type User struct {
	ID           int64         `json:"id" example:"1"`
	Username     string        `json:"username" example:"alice"`
	Status       models.Status `json:"status" example:"ONLINE"`
	CreationDate string        `json:"creation_date" example:"2024-03-01"`
	Birthday     *string       `json:"birthday" example:"1990-05-17"`
}

// UserWithToken — представление для ответов регистрации и входа.
type UserWithToken struct {
	User
	Token string `json:"token" example:"6f1c2a8e-8d0b-4a59-9a43-2b1f0c6d7e11"`
}

// NewUser строит представление для чтения.
func NewUser(acc *models.Account) User {
	v := User{
		ID:           acc.ID,
		Username:     acc.Username,
		Status:       acc.Status,
		CreationDate: acc.CreationDate.Format(DateLayout),
	}
	if acc.Birthday != nil {
		b := acc.Birthday.Format(DateLayout)
		v.Birthday = &b
	}
	return v
}

// NewUsers строит представления для списка учётных записей.
func NewUsers(accounts []*models.Account) []User {
	res := make([]User, 0, len(accounts))
	for _, acc := range accounts {
		res = append(res, NewUser(acc))
	}
	return res
}

// NewUserWithToken строит представление с токеном.
func NewUserWithToken(acc *models.Account) UserWithToken {
	return UserWithToken{User: NewUser(acc), Token: acc.Token}
}

// ParseDate разбирает дату в формате DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
