// Package models contains the persisted row types shared by repositories and
// services.
package models

import (
	"database/sql"
	"time"
)

// User is a single account record. PasswordHash is never empty for a persisted
// user and is only ever written through the account service's password path.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	LastLogin    sql.NullTime
	AvatarKey    string
	CreatedAt    time.Time
}
