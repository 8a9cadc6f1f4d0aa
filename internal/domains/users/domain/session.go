package domain

import "time"

// Session is a server-side login. The bearer token names it, so deleting the
// session revokes the token before it expires.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
