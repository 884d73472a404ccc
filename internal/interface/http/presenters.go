package handlers

import (
	"time"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
)

const dateLayout = "2006-01-02"

type userView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"date_joined"`
}

func presentUser(u *entity.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

type profileView struct {
	ID             int64     `json:"id"`
	User           int64     `json:"user"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PhoneNumber    string    `json:"phone_number"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profile_picture"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func presentProfile(p *entity.Profile, url func(string) string) profileView {
	return profileView{
		ID:             p.ID,
		User:           p.UserID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		PhoneNumber:    p.PhoneNumber,
		Email:          p.Email,
		ProfilePicture: optionalURL(p.ProfilePicture, url),
		UpdatedAt:      p.UpdatedAt,
	}
}

type namedView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type internshipView struct {
	ID              int64     `json:"id"`
	Image           *string   `json:"image"`
	Company         namedView `json:"company"`
	Category        namedView `json:"category"`
	Title           string    `json:"title"`
	Published       *string   `json:"published"`
	Description     string    `json:"description"`
	FullDescription string    `json:"full_description"`
	ApplyURL        string    `json:"apply_url"`
	CreatedAt       time.Time `json:"created_at"`
}

func presentInternship(in *entity.Internship, url func(string) string) internshipView {
	v := internshipView{
		ID:              in.ID,
		Image:           optionalURL(in.Image, url),
		Company:         namedView{ID: in.Company.ID, Name: in.Company.Name},
		Category:        namedView{ID: in.Category.ID, Name: in.Category.Name},
		Title:           in.Title,
		Description:     in.Description,
		FullDescription: in.FullDescription,
		ApplyURL:        in.ApplyURL,
		CreatedAt:       in.CreatedAt,
	}
	if in.Published != nil {
		s := in.Published.Format(dateLayout)
		v.Published = &s
	}
	return v
}

func presentInternships(list []entity.Internship, url func(string) string) []internshipView {
	out := make([]internshipView, 0, len(list))
	for i := range list {
		out = append(out, presentInternship(&list[i], url))
	}
	return out
}

type applicationView struct {
	ID               int64             `json:"id"`
	User             int64             `json:"user"`
	Internship       int64             `json:"internship"`
	File             string            `json:"file"`
	AdditionalTitles map[string]string `json:"additional_titles"`
	Description      string            `json:"description"`
	Status           string            `json:"status"`
	AppliedAt        time.Time         `json:"applied_at"`
}

func presentApplications(list []entity.Application, url func(string) string) []applicationView {
	out := make([]applicationView, 0, len(list))
	for i := range list {
		out = append(out, presentApplication(&list[i], url))
	}
	return out
}

func presentApplication(a *entity.Application, url func(string) string) applicationView {
	return applicationView{
		ID:               a.ID,
		User:             a.UserID,
		Internship:       a.InternshipID,
		File:             url(a.File),
		AdditionalTitles: a.AdditionalTitles,
		Description:      a.Description,
		Status:           string(a.Status),
		AppliedAt:        a.AppliedAt,
	}
}

type contactView struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

func presentContact(m *entity.ContactMessage) contactView {
	return contactView{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Message:     m.Message,
		CreatedAt:   m.CreatedAt,
	}
}

func optionalURL(ref string, url func(string) string) *string {
	if ref == "" {
		return nil
	}
	u := url(ref)
	return &u
}
