// Package directory реализует каталог учётных записей: регистрацию, вход и выход,
// переключение статуса присутствия, обновление профиля и проверку токена.
//
// Каталог следит за инвариантами, о которых хранилище не знает: уникальность имени
// пользователя проверяется и фиксируется атомарно, а чтение‑изменение‑запись одной
// учётной записи выполняется под её собственным мьютексом.
package directory

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-directory/internal/lib/sl"
	"github.com/magabrotheeeer/account-directory/internal/models"
	"github.com/magabrotheeeer/account-directory/internal/storage"
)

const defaultCacheTTL = time.Hour

// Store описывает хранилище учётных записей.
// Отсутствующая запись сообщается ошибкой storage.ErrNotFound.
type Store interface {
	// FindByID возвращает учётную запись по ID.
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	// FindByUsername возвращает учётную запись по имени пользователя.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	// FindByToken возвращает учётную запись по токену.
	FindByToken(ctx context.Context, token string) (*models.Account, error)
	// Save вставляет запись с нулевым ID (назначая ID) или обновляет существующую.
	Save(ctx context.Context, acc *models.Account) (*models.Account, error)
	// ListAll возвращает все учётные записи.
	ListAll(ctx context.Context) ([]*models.Account, error)
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Publisher отправляет события об изменении учётных записей.
type Publisher interface {
	Publish(ctx context.Context, event models.AccountEvent) error
}

// Directory — каталог учётных записей.
type Directory struct {
	store     Store
	cache     Cache
	publisher Publisher
	cacheTTL  time.Duration
	log       *slog.Logger

	accounts *keyLock
	// names сериализует проверку и фиксацию имён пользователей.
	names sync.Mutex

	now      func() time.Time
	newToken func() string
}

// New создаёт каталог. Nil cache и publisher заменяются пустыми реализациями,
// cacheTTL <= 0 означает время жизни по умолчанию (1 час).
func New(store Store, cache Cache, publisher Publisher, cacheTTL time.Duration, log *slog.Logger) *Directory {
	if cache == nil {
		cache = nopCache{}
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Directory{
		store:     store,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		log:       log,
		accounts:  newKeyLock(),
		now:       time.Now,
		newToken:  uuid.NewString,
	}
}

// Register создаёт учётную запись: выдаёт новый токен, ставит статус ONLINE
// и дату создания. Занятое имя пользователя даёт ErrConflict.
func (d *Directory) Register(ctx context.Context, candidate models.Account) (*models.Account, error) {
	const op = "directory.Register"

	acc := candidate
	acc.ID = 0
	acc.Token = d.newToken()
	acc.Status = models.StatusOnline
	acc.CreationDate = d.now().UTC()

	d.names.Lock()
	defer d.names.Unlock()

	if err := d.ensureUsernameFree(ctx, acc.Username, 0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	saved, err := d.store.Save(ctx, &acc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStoreError(err))
	}

	d.log.Info("account registered", slog.Int64("id", saved.ID))
	d.publish(ctx, models.EventRegistered, saved)
	return saved, nil
}

// ListAll возвращает все учётные записи в порядке хранилища.
func (d *Directory) ListAll(ctx context.Context) ([]*models.Account, error) {
	const op = "directory.ListAll"
	accounts, err := d.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return accounts, nil
}

// GetByID возвращает учётную запись по ID или ErrNotFound.
func (d *Directory) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	const op = "directory.GetByID"

	key := cacheKey(id)
	var cached models.Account
	found, err := d.cache.Get(key, &cached)
	if err != nil {
		d.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	} else if found {
		return &cached, nil
	}

	// Заполнение кеша под мьютексом записи, чтобы не вернуть в кеш устаревшую версию.
	unlock := d.accounts.Lock(id)
	defer unlock()

	acc, err := d.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := d.cache.Set(key, acc, d.cacheTTL); err != nil {
		d.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return acc, nil
}

// Update применяет patch к учётной записи. Новое имя проверяется на уникальность,
// дата рождения применяется без проверок. При ошибке ничего не сохраняется.
func (d *Directory) Update(ctx context.Context, id int64, patch models.AccountPatch) error {
	const op = "directory.Update"

	unlock := d.accounts.Lock(id)
	defer unlock()

	acc, err := d.load(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	renamed := patch.Username != nil && *patch.Username != acc.Username
	if renamed {
		d.names.Lock()
		defer d.names.Unlock()

		if err := d.ensureUsernameFree(ctx, *patch.Username, acc.ID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		acc.Username = *patch.Username
	}
	if patch.Birthday != nil {
		birthday := *patch.Birthday
		acc.Birthday = &birthday
	}

	saved, err := d.store.Save(ctx, acc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapStoreError(err))
	}
	d.invalidate(id)

	if renamed {
		d.publish(ctx, models.EventRenamed, saved)
	}
	return nil
}

// ToggleStatus переключает статус ONLINE <-> OFFLINE и возвращает новый статус.
func (d *Directory) ToggleStatus(ctx context.Context, id int64) (models.Status, error) {
	const op = "directory.ToggleStatus"

	unlock := d.accounts.Lock(id)
	defer unlock()

	acc, err := d.load(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	acc.Status = acc.Status.Toggle()

	saved, err := d.store.Save(ctx, acc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapStoreError(err))
	}
	d.invalidate(id)
	d.publish(ctx, models.EventStatusChanged, saved)
	return saved.Status, nil
}

// Login проверяет имя и пароль и переводит учётную запись в ONLINE.
// Неизвестное имя и неверный пароль дают одну и ту же ошибку ErrUnauthorized.
func (d *Directory) Login(ctx context.Context, creds models.Credentials) (*models.Account, error) {
	const op = "directory.Login"

	found, err := d.store.FindByUsername(ctx, creds.Username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unlock := d.accounts.Lock(found.ID)
	defer unlock()

	// Перечитываем под мьютексом: запись могли переименовать между поиском и захватом.
	acc, err := d.load(ctx, found.ID)
	if errors.Is(err, ErrNotFound) || (err == nil && acc.Username != creds.Username) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subtle.ConstantTimeCompare([]byte(acc.Password), []byte(creds.Password)) != 1 {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	wasOnline := acc.Status == models.StatusOnline
	acc.Status = models.StatusOnline
	saved, err := d.store.Save(ctx, acc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStoreError(err))
	}
	d.invalidate(saved.ID)

	d.log.Info("account logged in", slog.Int64("id", saved.ID))
	if !wasOnline {
		d.publish(ctx, models.EventStatusChanged, saved)
	}
	return saved, nil
}

// Logout переводит владельца токена в OFFLINE. Неизвестный токен даёт ErrNotFound.
func (d *Directory) Logout(ctx context.Context, token string) error {
	const op = "directory.Logout"

	found, err := d.store.FindByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapStoreError(err))
	}

	unlock := d.accounts.Lock(found.ID)
	defer unlock()

	acc, err := d.load(ctx, found.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	wasOffline := acc.Status == models.StatusOffline
	acc.Status = models.StatusOffline
	saved, err := d.store.Save(ctx, acc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapStoreError(err))
	}
	d.invalidate(saved.ID)

	d.log.Info("account logged out", slog.Int64("id", saved.ID))
	if !wasOffline {
		d.publish(ctx, models.EventStatusChanged, saved)
	}
	return nil
}

// MatchToken проверяет, что token принадлежит учётной записи id.
func (d *Directory) MatchToken(ctx context.Context, id int64, token string) error {
	const op = "directory.MatchToken"

	acc, err := d.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if subtle.ConstantTimeCompare([]byte(acc.Token), []byte(token)) != 1 {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	return nil
}

// load читает учётную запись из хранилища, минуя кеш.
func (d *Directory) load(ctx context.Context, id int64) (*models.Account, error) {
	acc, err := d.store.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return acc, nil
}

// ensureUsernameFree возвращает ErrConflict, если имя занято кем-то кроме selfID.
// Вызывается под d.names.
func (d *Directory) ensureUsernameFree(ctx context.Context, username string, selfID int64) error {
	holder, err := d.store.FindByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if holder.ID != selfID {
		return ErrConflict
	}
	return nil
}

func (d *Directory) invalidate(id int64) {
	key := cacheKey(id)
	if err := d.cache.Invalidate(key); err != nil {
		d.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func (d *Directory) publish(ctx context.Context, eventType models.EventType, acc *models.Account) {
	event := models.AccountEvent{
		Type:       eventType,
		AccountID:  acc.ID,
		Username:   acc.Username,
		Status:     acc.Status,
		OccurredAt: d.now().UTC(),
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.log.Warn("failed to publish account event",
			slog.String("type", string(eventType)), slog.Int64("id", acc.ID), sl.Err(err))
	}
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrUsernameTaken):
		return ErrConflict
	default:
		return err
	}
}

func cacheKey(id int64) string {
	return "account:" + strconv.FormatInt(id, 10)
}
