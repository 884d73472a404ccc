package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	repo "github.com/oksasatya/internship-portal/internal/domain/repository"
	"github.com/oksasatya/internship-portal/pkg/validation"
)

// ContactService is the inbox behind the public contact form.
type ContactService struct {
	Repo   repo.ContactRepository
	Notify *Notifier
	Logger *logrus.Logger
}

func NewContactService(r repo.ContactRepository, notify *Notifier, logger *logrus.Logger) *ContactService {
	return &ContactService{Repo: r, Notify: notify, Logger: logger}
}

// ContactInput holds contact fields; nil pointers are left unchanged by Patch.
type ContactInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Message     *string
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*entity.ContactMessage, error) {
	m := &entity.ContactMessage{}
	if err := fillContact(m, in, true); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.Notify.ContactReceived(ctx, m)
	return m, nil
}

func (s *ContactService) List(ctx context.Context) ([]entity.ContactMessage, error) {
	return s.Repo.List(ctx)
}

func (s *ContactService) Get(ctx context.Context, id int64) (*entity.ContactMessage, error) {
	m, err := s.Repo.GetByID(ctx, id)
	return m, notFound(err)
}

// Update replaces every field; Patch only the ones present.
func (s *ContactService) Update(ctx context.Context, id int64, in ContactInput) (*entity.ContactMessage, error) {
	return s.write(ctx, id, in, true)
}

func (s *ContactService) Patch(ctx context.Context, id int64, in ContactInput) (*entity.ContactMessage, error) {
	return s.write(ctx, id, in, false)
}

func (s *ContactService) write(ctx context.Context, id int64, in ContactInput, full bool) (*entity.ContactMessage, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fillContact(m, in, full); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, m); err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return notFound(s.Repo.Delete(ctx, id))
}

func fillContact(m *entity.ContactMessage, in ContactInput, full bool) error {
	required := []struct {
		field string
		val   *string
		dst   *string
	}{
		{"first_name", in.FirstName, &m.FirstName},
		{"last_name", in.LastName, &m.LastName},
		{"email", in.Email, &m.Email},
		{"message", in.Message, &m.Message},
	}
	for _, r := range required {
		if r.val == nil {
			if full {
				return invalid(r.field, "is required")
			}
			continue
		}
		v := strings.TrimSpace(*r.val)
		if v == "" {
			return invalid(r.field, "is required")
		}
		*r.dst = v
	}
	if in.Email != nil {
		if !validation.IsEmail(m.Email) {
			return invalid("email", "must be a valid email")
		}
	}
	if in.PhoneNumber != nil {
		m.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	} else if full {
		m.PhoneNumber = ""
	}
	return nil
}
