package user

import (
	"time"
)

type User struct {
	ID        int64     `json:"-" db:"id"`
	Email     string    `json:"email" db:"email"`
	Company   string    `json:"company" db:"company"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
