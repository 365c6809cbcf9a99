package users

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Role         string
	RegisteredAt time.Time
}

// Guest reports whether the user is not signed in.
func (u User) Guest() bool {
	return u.ID == uuid.Nil
}

type Secret struct {
	PasswordHash []byte
	Salt         []byte
}
