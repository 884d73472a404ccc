package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role reports the access level granted to an authenticated user.
func (u *User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Profile is owned by exactly one User. Name and email mirror the owner.
type Profile struct {
	ID             int64
	UserID         int64
	FirstName      string
	LastName       string
	PhoneNumber    string
	Email          string
	ProfilePicture string // object reference, empty when unset
	UpdatedAt      time.Time
}

// SyncFrom copies the mirrored fields from the owning user.
func (p *Profile) SyncFrom(u *User) {
	p.UserID = u.ID
	p.FirstName = u.FirstName
	p.LastName = u.LastName
	p.Email = u.Email
}
