package models

import "time"

// Token is the opaque bearer credential for one user. A user has at most one
// token; the unique constraint on UserID in storage enforces that.
type Token struct {
	Key       string
	UserID    int64
	CreatedAt time.Time
}
