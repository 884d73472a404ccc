package entity

import "time"

// ContactMessage is an anonymous contact-form submission.
type ContactMessage struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Message     string
	CreatedAt   time.Time
}
