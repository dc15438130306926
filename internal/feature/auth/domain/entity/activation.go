package entity

import "time"

// Activation is the pending activation code of a user.
// There is at most one record per user; it is replaced in place when it expires
// and removed once the user becomes active.
type Activation struct {
	UserID    uint      // Owning user ID
	Code      string    // Fixed-length numeric code
	CreatedAt time.Time // Issue time (UTC)
	// Generation is bumped on every replacement and guards concurrent regenerations.
	Generation uint
}

// IsExpired returns true if more than ttl has elapsed since the code was issued.
func (a *Activation) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(a.CreatedAt) > ttl
}
