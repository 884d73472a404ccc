package entity

import "time"

type Category struct {
	ID   int64
	Name string
}

type Company struct {
	ID   int64
	Name string
}

// Internship is a publicly listed position. Company and Category are
// populated by reads; writes only look at CompanyID and CategoryID.
type Internship struct {
	ID              int64
	Image           string
	CompanyID       int64
	CategoryID      int64
	Company         Company
	Category        Category
	Title           string
	Published       *time.Time
	Description     string
	FullDescription string
	ApplyURL        string
	CreatedAt       time.Time
}

// InternshipFilter narrows catalog listings. Empty fields match everything.
type InternshipFilter struct {
	Query    string // title or short description
	Category string // category name
	Company  string // company name
}

func (f InternshipFilter) IsEmpty() bool {
	return f.Query == "" && f.Category == "" && f.Company == ""
}
