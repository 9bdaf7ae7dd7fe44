package model

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	UUID         string         `db:"uuid" json:"uuid"`
	Username     string         `db:"username" json:"username"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Roles        pq.StringArray `db:"roles" json:"roles"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// Identity : аутентифицированный принципал запроса
type Identity struct {
	UserUUID string   `json:"user_uuid"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (u *User) Identity() *Identity {
	return &Identity{
		UserUUID: u.UUID,
		Username: u.Username,
		Roles:    u.Roles,
	}
}
