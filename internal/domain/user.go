package domain

import "time"

// User represents a registered account of the system.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserSummary is the public part of a user embedded in post responses.
type UserSummary struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

// Summary strips credentials from the user.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
