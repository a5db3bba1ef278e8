package domain

import "time"

// Role is the access role carried by an authenticated user.
type Role string

const (
	RoleTourist Role = "tourist"
	RoleDriver  Role = "driver"
	RoleAdmin   Role = "admin"
)

// User is an account in the system.
type User struct {
	ID         string
	Email      string
	Role       Role
	IsVerified bool
	IsActive   bool
	CreatedAt  time.Time
}

// UserSummary is a user joined with the profile name for admin listings.
type UserSummary struct {
	User
	FirstName string
	LastName  string
	Phone     string
}

// Tourist is the profile of a user with the tourist role.
type Tourist struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Phone     string
	Country   string
}

// FullName joins first and last name.
func (t *Tourist) FullName() string {
	return joinName(t.FirstName, t.LastName)
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
