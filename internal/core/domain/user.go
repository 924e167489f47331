package domain

import "time"

// User is the minimal owner reference the ledger needs: account ownership and
// onboarding. Registration, sessions and credentials live in an external
// collaborator.
type User struct {
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
