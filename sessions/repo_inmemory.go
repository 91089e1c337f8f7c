package sessions

import (
	"sync"
	"time"

	apperrors "github.com/etlabapp/gateway/internal/errors"
)

// InMemoryRepo is an in-memory implementation of Repo backed by a mutex
// guarded map. Sessions do not survive a process restart.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Record
	nowFunc  func() time.Time
}

// InMemoryRepoOption defines a function type to modify the InMemoryRepo instance.
type InMemoryRepoOption func(*InMemoryRepo)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) InMemoryRepoOption {
	return func(r *InMemoryRepo) {
		r.nowFunc = now
	}
}

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo(options ...InMemoryRepoOption) *InMemoryRepo {
	r := &InMemoryRepo{
		sessions: make(map[string]Record),
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

var _ Repo = &InMemoryRepo{}

// Upsert creates or replaces the session for a username, timestamped now.
func (r *InMemoryRepo) Upsert(username, upstreamToken, password, appToken string) error {
	if username == "" {
		return apperrors.Wrapf(apperrors.ErrValidation, "[Upsert] username is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[username] = Record{
		Username:      username,
		Password:      password,
		UpstreamToken: upstreamToken,
		AppToken:      appToken,
		LastActivity:  r.nowFunc(),
	}
	return nil
}

// Get retrieves a session record by username.
func (r *InMemoryRepo) Get(username string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.sessions[username]
	return record, ok
}

// Touch updates the last-activity timestamp. Missing sessions are ignored.
func (r *InMemoryRepo) Touch(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.sessions[username]
	if !ok {
		return
	}
	record.LastActivity = r.nowFunc()
	r.sessions[username] = record
}

// SetUpstreamToken replaces the cached upstream token for a session. The
// whole record is swapped under the lock, so concurrent Gets never see a
// half-written update.
func (r *InMemoryRepo) SetUpstreamToken(username, upstreamToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.sessions[username]
	if !ok {
		return apperrors.ErrNoSession
	}
	record.UpstreamToken = upstreamToken
	r.sessions[username] = record
	return nil
}

// Remove deletes the session for a username.
func (r *InMemoryRepo) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, username)
}

// SweepExpired removes every session idle for longer than maxIdle and
// returns the usernames removed. Safe to call while other keys are being
// read or written.
func (r *InMemoryRepo) SweepExpired(maxIdle time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	var removed []string
	for username, record := range r.sessions {
		if now.Sub(record.LastActivity) > maxIdle {
			delete(r.sessions, username)
			removed = append(removed, username)
		}
	}
	return removed
}

// Count returns the number of live sessions.
func (r *InMemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
