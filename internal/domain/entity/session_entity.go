package entity

import "time"

// Session is the server-side record behind a pair of tokens. Access and
// refresh tokens are only honoured while their session exists.
type Session struct {
	ID        string
	UserID    int64
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
}

func (s *Session) Role() Role {
	if s.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}
