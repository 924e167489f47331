package models

import "time"

// User is the database representation of an owner row.
type User struct {
	UserID    string
	Name      string
	CreatedAt time.Time
}
