// Package inmemory реализует хранилище учётных записей в памяти процесса.
// Соблюдает те же ограничения уникальности, что и схема PostgreSQL.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/magabrotheeeer/account-directory/internal/models"
	"github.com/magabrotheeeer/account-directory/internal/storage"
)

// Storage хранит учётные записи в map с индексами по имени и токену.
type Storage struct {
	mu         sync.RWMutex
	nextID     int64
	accounts   map[int64]models.Account
	byUsername map[string]int64
	byToken    map[string]int64
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		accounts:   make(map[int64]models.Account),
		byUsername: make(map[string]int64),
		byToken:    make(map[string]int64),
	}
}

// FindByID возвращает учётную запись по идентификатору.
func (s *Storage) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	const op = "inmemory.FindByID"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return clone(acc), nil
}

// FindByUsername возвращает учётную запись по имени пользователя.
func (s *Storage) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "inmemory.FindByUsername"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return clone(s.accounts[id]), nil
}

// FindByToken возвращает учётную запись по токену.
func (s *Storage) FindByToken(ctx context.Context, token string) (*models.Account, error) {
	const op = "inmemory.FindByToken"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byToken[token]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return clone(s.accounts[id]), nil
}

// Save вставляет учётную запись с нулевым ID или обновляет существующую.
func (s *Storage) Save(ctx context.Context, acc *models.Account) (*models.Account, error) {
	const op = "inmemory.Save"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if acc.ID != 0 {
		if _, ok := s.accounts[acc.ID]; !ok {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
	}
	if id, ok := s.byUsername[acc.Username]; ok && id != acc.ID {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
	}
	if id, ok := s.byToken[acc.Token]; ok && id != acc.ID {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrTokenTaken)
	}

	saved := *clone(*acc)
	if saved.ID == 0 {
		s.nextID++
		saved.ID = s.nextID
	} else {
		prev := s.accounts[saved.ID]
		delete(s.byUsername, prev.Username)
		delete(s.byToken, prev.Token)
	}
	s.accounts[saved.ID] = saved
	s.byUsername[saved.Username] = saved.ID
	s.byToken[saved.Token] = saved.ID

	return clone(saved), nil
}

// ListAll возвращает все учётные записи в порядке возрастания ID.
func (s *Storage) ListAll(ctx context.Context) ([]*models.Account, error) {
	const op = "inmemory.ListAll"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		result = append(result, clone(acc))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// clone копирует учётную запись вместе с датой рождения,
// чтобы вызывающий код не мог изменить хранимое значение в обход Save.
func clone(acc models.Account) *models.Account {
	if acc.Birthday != nil {
		b := *acc.Birthday
		acc.Birthday = &b
	}
	return &acc
}
