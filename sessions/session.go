package sessions

import "time"

// Record is the cached association between a gateway user and their
// upstream portal credentials. The password is retained verbatim because
// transparent re-authentication replays the original credential; hashing
// it would make recovery impossible. Records never leave process memory.
type Record struct {
	Username      string
	Password      string
	UpstreamToken string
	AppToken      string
	LastActivity  time.Time
}

// Repo is the session store used by the handlers and the upstream client.
// Implementations must be safe for concurrent use from many in-flight
// requests; records are replaced whole, except for the single-field
// upstream token update performed during re-authentication.
type Repo interface {
	// Upsert inserts or replaces the record for a username. Last login wins.
	Upsert(username, upstreamToken, password, appToken string) error
	// Get returns the record and whether it exists. Absence is a signal,
	// not an error; callers decide whether it means "must log in".
	Get(username string) (Record, bool)
	// Touch updates the record's last-activity timestamp.
	Touch(username string)
	// SetUpstreamToken atomically replaces the cached upstream token.
	SetUpstreamToken(username, upstreamToken string) error
	// Remove deletes the record (logout).
	Remove(username string)
	// SweepExpired removes records idle for longer than maxIdle and
	// returns the usernames removed.
	SweepExpired(maxIdle time.Duration) []string
	// Count returns the number of live sessions.
	Count() int
}
