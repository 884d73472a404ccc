package entity

import "time"

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// IsTerminal reports whether no further review action is possible.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is a user's submission to an internship.
type Application struct {
	ID               int64
	UserID           int64
	InternshipID     int64
	File             string
	AdditionalTitles map[string]string
	Description      string
	Status           ApplicationStatus
	AppliedAt        time.Time
}
