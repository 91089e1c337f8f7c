package sessions_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/etlabapp/gateway/internal/errors"
	"github.com/etlabapp/gateway/sessions"
)

func TestUpsertAndGet(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	require.NoError(t, repo.Upsert("alice", "etlab-token", "pw", "app-token"))

	record, ok := repo.Get("alice")
	require.True(t, ok)
	require.Equal(t, "alice", record.Username)
	require.Equal(t, "etlab-token", record.UpstreamToken)
	require.Equal(t, "pw", record.Password)
	require.Equal(t, "app-token", record.AppToken)
	require.False(t, record.LastActivity.IsZero())
}

func TestGetMissingIsNotAnError(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	_, ok := repo.Get("nobody")
	require.False(t, ok)
}

func TestUpsertLastLoginWins(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	require.NoError(t, repo.Upsert("alice", "token-1", "pw-1", "app-1"))
	require.NoError(t, repo.Upsert("alice", "token-2", "pw-2", "app-2"))

	record, ok := repo.Get("alice")
	require.True(t, ok)
	require.Equal(t, "token-2", record.UpstreamToken)
	require.Equal(t, "pw-2", record.Password)
	require.Equal(t, "app-2", record.AppToken)
	require.Equal(t, 1, repo.Count())
}

func TestUpsertRequiresUsername(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	err := repo.Upsert("", "t", "p", "a")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.Equal(t, 0, repo.Count())
}

func TestTouchUpdatesLastActivity(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := sessions.NewInMemoryRepo(sessions.WithNowFunc(func() time.Time { return now }))

	require.NoError(t, repo.Upsert("alice", "t", "p", "a"))

	now = now.Add(2 * time.Hour)
	repo.Touch("alice")

	record, ok := repo.Get("alice")
	require.True(t, ok)
	require.Equal(t, now, record.LastActivity)

	// Touching a missing session is a no-op.
	repo.Touch("nobody")
}

func TestSetUpstreamToken(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	require.NoError(t, repo.Upsert("alice", "old-token", "pw", "app"))
	require.NoError(t, repo.SetUpstreamToken("alice", "new-token"))

	record, ok := repo.Get("alice")
	require.True(t, ok)
	require.Equal(t, "new-token", record.UpstreamToken)
	require.Equal(t, "pw", record.Password)

	require.ErrorIs(t, repo.SetUpstreamToken("nobody", "t"), apperrors.ErrNoSession)
}

func TestRemove(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	require.NoError(t, repo.Upsert("alice", "t", "p", "a"))
	repo.Remove("alice")

	_, ok := repo.Get("alice")
	require.False(t, ok)

	// Removing again is a no-op.
	repo.Remove("alice")
}

func TestSweepExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := sessions.NewInMemoryRepo(sessions.WithNowFunc(func() time.Time { return now }))

	require.NoError(t, repo.Upsert("stale", "t", "p", "a"))

	now = now.Add(25 * time.Hour)
	require.NoError(t, repo.Upsert("fresh", "t", "p", "a"))

	removed := repo.SweepExpired(24 * time.Hour)
	require.Equal(t, []string{"stale"}, removed)

	_, ok := repo.Get("stale")
	require.False(t, ok)
	_, ok = repo.Get("fresh")
	require.True(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	var wg sync.WaitGroup
	users := []string{"a", "b", "c", "d"}
	for _, u := range users {
		wg.Add(1)
		go func(username string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = repo.Upsert(username, "t", "p", "a")
				repo.Touch(username)
				_, _ = repo.Get(username)
				_ = repo.SweepExpired(time.Hour)
			}
		}(u)
	}
	wg.Wait()

	require.Equal(t, len(users), repo.Count())
}
