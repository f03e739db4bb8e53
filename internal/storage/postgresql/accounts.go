package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/account-directory/internal/models"
)

const accountColumns = `id, username, password, token, status, creation_date, birthday`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	var (
		acc      models.Account
		status   string
		birthday sql.NullTime
	)
	if err := row.Scan(&acc.ID, &acc.Username, &acc.Password, &acc.Token,
		&status, &acc.CreationDate, &birthday); err != nil {
		return nil, err
	}
	acc.Status = models.Status(status)
	if birthday.Valid {
		b := birthday.Time
		acc.Birthday = &b
	}
	return &acc, nil
}

func nullTime(t *models.Account) sql.NullTime {
	if t.Birthday == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t.Birthday, Valid: true}
}

// FindByID возвращает учётную запись по её ID.
func (s *Storage) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	const op = "storage.FindByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE id = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return acc, nil
}

// FindByUsername возвращает учётную запись по имени пользователя.
func (s *Storage) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "storage.FindByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE username = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return acc, nil
}

// FindByToken возвращает учётную запись по токену сессии.
func (s *Storage) FindByToken(ctx context.Context, token string) (*models.Account, error) {
	const op = "storage.FindByToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE token = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return acc, nil
}

// Save вставляет новую учётную запись (ID == 0) или обновляет изменяемые поля существующей.
// Токен и дата создания после вставки не меняются.
func (s *Storage) Save(ctx context.Context, acc *models.Account) (*models.Account, error) {
	const op = "storage.Save"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var row *sql.Row
	if acc.ID == 0 {
		query := `INSERT INTO accounts (username, password, token, status, creation_date, birthday)
				  VALUES ($1, $2, $3, $4, $5, $6)
				  RETURNING ` + accountColumns
		row = s.DB.QueryRowContext(ctx, query,
			acc.Username, acc.Password, acc.Token, string(acc.Status), acc.CreationDate, nullTime(acc))
	} else {
		query := `UPDATE accounts
				  SET username = $1, password = $2, status = $3, birthday = $4
				  WHERE id = $5
				  RETURNING ` + accountColumns
		row = s.DB.QueryRowContext(ctx, query,
			acc.Username, acc.Password, string(acc.Status), nullTime(acc), acc.ID)
	}

	saved, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return saved, nil
}

// ListAll возвращает все учётные записи в порядке возрастания ID.
func (s *Storage) ListAll(ctx context.Context) ([]*models.Account, error) {
	const op = "storage.ListAll"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
