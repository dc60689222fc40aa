package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivity(t *testing.T, userID, name string) *domain.Activity {
	t.Helper()
	a, err := domain.NewActivity(userID, name, "", domain.IconTarget, domain.ActivityCategorySport, nil)
	require.NoError(t, err)
	return a
}

func TestCachedActivityRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Cache miss reads through and fills the cache", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		next := NewInMemoryActivityRepository()
		require.NoError(t, next.Create(ctx, newActivity(t, "u1", "Tennis")))
		repo := NewCachedActivityRepository(next, db)

		mock.ExpectGet("activities:u1").RedisNil()
		mock.Regexp().ExpectSet("activities:u1", `.*Tennis.*`, activityCacheTTL).SetVal("OK")

		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success: Cache hit skips the store", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewCachedActivityRepository(NewInMemoryActivityRepository(), db)

		cached, err := json.Marshal([]*domain.Activity{newActivity(t, "u1", "Padel")})
		require.NoError(t, err)
		mock.ExpectGet("activities:u1").SetVal(string(cached))

		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Padel", list[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success: Corrupted entry is dropped", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewCachedActivityRepository(NewInMemoryActivityRepository(), db)

		mock.ExpectGet("activities:u1").SetVal("{broken")
		mock.ExpectDel("activities:u1").SetVal(1)
		mock.Regexp().ExpectSet("activities:u1", `.*`, activityCacheTTL).SetVal("OK")

		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success: Redis outage falls back to the store", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		next := NewInMemoryActivityRepository()
		require.NoError(t, next.Create(ctx, newActivity(t, "u1", "Tennis")))
		repo := NewCachedActivityRepository(next, db)

		mock.ExpectGet("activities:u1").SetErr(errors.New("connection refused"))
		mock.Regexp().ExpectSet("activities:u1", `.*`, activityCacheTTL).SetErr(errors.New("connection refused"))

		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestCachedActivityRepository_Writes(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Writes invalidate the user's list", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewCachedActivityRepository(NewInMemoryActivityRepository(), db)
		a := newActivity(t, "u1", "Tennis")

		mock.ExpectDel("activities:u1").SetVal(1)
		require.NoError(t, repo.Create(ctx, a))

		mock.ExpectDel("activities:u1").SetVal(1)
		a.Name = "Squash"
		require.NoError(t, repo.Update(ctx, a))

		mock.ExpectDel("activities:u1").SetVal(1)
		require.NoError(t, repo.Delete(ctx, a.ID))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error: Failed write keeps the cache", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := NewCachedActivityRepository(NewInMemoryActivityRepository(), db)

		err := repo.Delete(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInMemoryActivityRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryActivityRepository()

	first := newActivity(t, "u1", "First")
	second := newActivity(t, "u1", "Second")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, newActivity(t, "u2", "Other")))

	t.Run("Success: List is ordered by creation", func(t *testing.T) {
		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "First", list[0].Name)
	})

	t.Run("Error: Stale update conflicts", func(t *testing.T) {
		stale, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)

		fresh, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, fresh))
		assert.Equal(t, 2, fresh.Version)

		assert.ErrorIs(t, repo.Update(ctx, stale), domain.ErrActivityConflict)
	})

	t.Run("Error: Unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	})
}

func TestInMemoryDocumentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryDocumentRepository()

	v1, err := repo.Save(ctx, "u1", domain.StoreHabitList, json.RawMessage(`[]`))
	require.NoError(t, err)
	v2, err := repo.Save(ctx, "u1", domain.StoreHabitList, json.RawMessage(`[{"id":"h","name":"Walk"}]`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)
	assert.Equal(t, int64(2), v2)

	doc, err := repo.Load(ctx, "u1", domain.StoreHabitList)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"h","name":"Walk"}]`, string(doc.Data))

	_, err = repo.Load(ctx, "u2", domain.StoreHabitList)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	all, err := repo.LoadAll(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
