// internal/workers/auth/session/store_test.go
package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-timeline-workers/internal/models"
)

func testSession() *models.Session {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return &models.Session{
		ID:        "S001",
		UserID:    "U001",
		Role:      models.RoleRecruiter,
		Token:     "tok-abc",
		CreatedAt: created,
		ExpiresAt: created.Add(8 * time.Hour),
		IsActive:  true,
	}
}

func TestRedisStore_Create(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb)

	sess := testSession()
	data, err := json.Marshal(sess)
	require.NoError(t, err)

	mock.ExpectSet("session:U001:S001", data, 8*time.Hour).SetVal("OK")
	mock.ExpectSet("session:token:tok-abc", "session:U001:S001", 8*time.Hour).SetVal("OK")

	require.NoError(t, store.Create(context.Background(), sess))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Create_RejectsExpiredLifetime(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	store := NewRedisStore(rdb)

	sess := testSession()
	sess.ExpiresAt = sess.CreatedAt

	assert.Error(t, store.Create(context.Background(), sess))
}

func TestRedisStore_FindByToken(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb)

	sess := testSession()
	data, err := json.Marshal(sess)
	require.NoError(t, err)

	mock.ExpectGet("session:token:tok-abc").SetVal("session:U001:S001")
	mock.ExpectGet("session:U001:S001").SetVal(string(data))

	found, err := store.FindByToken(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "U001", found.UserID)
	assert.Equal(t, models.RoleRecruiter, found.Role)
}

func TestRedisStore_FindByToken_Missing(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb)

	mock.ExpectGet("session:token:nope").RedisNil()

	_, err := store.FindByToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_DeleteAllForUser(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb)

	mock.ExpectKeys("session:U001:*").SetVal([]string{"session:U001:S001", "session:U001:S002"})
	mock.ExpectDel("session:U001:S001", "session:U001:S002").SetVal(2)

	count, err := store.DeleteAllForUser(context.Background(), "U001")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_DeleteAllForUser_NoSessions(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb)

	mock.ExpectKeys("session:U002:*").SetVal([]string{})

	count, err := store.DeleteAllForUser(context.Background(), "U002")
	require.NoError(t, err)
	assert.Zero(t, count)
}
