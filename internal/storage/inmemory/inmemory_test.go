package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-directory/internal/models"
	"github.com/magabrotheeeer/account-directory/internal/storage"
)

func newAccount(username, token string) *models.Account {
	return &models.Account{
		Username:     username,
		Password:     "pw",
		Token:        token,
		Status:       models.StatusOnline,
		CreationDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStorage_SaveAssignsIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Save(ctx, newAccount("alice", "t1"))
	require.NoError(t, err)
	second, err := s.Save(ctx, newAccount("bob", "t2"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestStorage_Find(t *testing.T) {
	s := New()
	ctx := context.Background()

	saved, err := s.Save(ctx, newAccount("alice", "t1"))
	require.NoError(t, err)

	byID, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byName.ID)

	byToken, err := s.FindByToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byToken.ID)

	_, err = s.FindByID(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.FindByToken(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_SaveUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Save(ctx, newAccount("alice", "t1"))
	require.NoError(t, err)

	_, err = s.Save(ctx, newAccount("alice", "t2"))
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)

	_, err = s.Save(ctx, newAccount("bob", "t1"))
	assert.ErrorIs(t, err, storage.ErrTokenTaken)
}

func TestStorage_RenameFreesOldUsername(t *testing.T) {
	s := New()
	ctx := context.Background()

	saved, err := s.Save(ctx, newAccount("alice", "t1"))
	require.NoError(t, err)

	saved.Username = "bob"
	_, err = s.Save(ctx, saved)
	require.NoError(t, err)

	_, err = s.FindByUsername(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Save(ctx, newAccount("alice", "t2"))
	assert.NoError(t, err)
}

func TestStorage_SaveUnknownID(t *testing.T) {
	s := New()
	acc := newAccount("alice", "t1")
	acc.ID = 7

	_, err := s.Save(context.Background(), acc)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_ReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	saved, err := s.Save(ctx, newAccount("alice", "t1"))
	require.NoError(t, err)
	saved.Status = models.StatusOffline

	got, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnline, got.Status)
}

func TestStorage_BirthdayIsNotShared(t *testing.T) {
	s := New()
	ctx := context.Background()

	birthday := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	acc := newAccount("alice", "t1")
	acc.Birthday = &birthday
	saved, err := s.Save(ctx, acc)
	require.NoError(t, err)

	// изменение входного значения после Save
	birthday = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	// изменение возвращённых значений
	*saved.Birthday = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	*got.Birthday = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	*all[0].Birthday = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err = s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Birthday)
	assert.True(t, got.Birthday.Equal(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestStorage_ListAllOrdered(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		_, err := s.Save(ctx, newAccount(name, "token-"+name))
		require.NoError(t, err)
	}

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].Username, all[1].Username, all[2].Username})
}

func TestStorage_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
