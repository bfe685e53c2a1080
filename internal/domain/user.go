package domain

import "time"

// Account holds sign-in credentials and identity.
type Account struct {
	ID           string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile is an account plus the summaries of the lists it owns.
type UserProfile struct {
	UID         string        `json:"uid"`
	Email       string        `json:"email"`
	DisplayName string        `json:"displayName"`
	TaskList    []ListSummary `json:"taskList"`
}
