package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	repo "github.com/oksasatya/internship-portal/internal/domain/repository"
)

const (
	extraFieldKeyMax   = 100
	extraFieldValueMax = 1000
	defaultMaxFields   = 20
)

// reviewActions maps the admin action in the URL to the resulting status.
var reviewActions = map[string]entity.ApplicationStatus{
	"approve": entity.StatusApproved,
	"reject":  entity.StatusRejected,
}

// WorkflowService handles applications to internships and their review.
type WorkflowService struct {
	Applications repo.ApplicationRepository
	Internships  repo.InternshipRepository
	Users        repo.UserRepository
	Files        FileStore
	Notify       *Notifier
	Logger       *logrus.Logger
	MaxFields    int
}

func NewWorkflowService(apps repo.ApplicationRepository, internships repo.InternshipRepository, users repo.UserRepository, files FileStore, notify *Notifier, logger *logrus.Logger, maxFields int) *WorkflowService {
	if maxFields <= 0 {
		maxFields = defaultMaxFields
	}
	return &WorkflowService{
		Applications: apps,
		Internships:  internships,
		Users:        users,
		Files:        files,
		Notify:       notify,
		Logger:       logger,
		MaxFields:    maxFields,
	}
}

type SubmitInput struct {
	InternshipID     int64
	File             *Upload
	AdditionalTitles map[string]string
	Description      string
}

// Submit stores a new pending application owned by userID.
func (s *WorkflowService) Submit(ctx context.Context, userID int64, in SubmitInput) (*entity.Application, error) {
	if in.InternshipID <= 0 {
		return nil, invalid("internship", "is required")
	}
	if _, err := s.Internships.GetByID(ctx, in.InternshipID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, invalid("internship", fmt.Sprintf("invalid pk %q - object does not exist", strconv.FormatInt(in.InternshipID, 10)))
		}
		return nil, err
	}
	if in.File == nil || in.File.Reader == nil {
		return nil, invalid("file", "no file was submitted")
	}
	titles, err := s.checkTitles(in.AdditionalTitles)
	if err != nil {
		return nil, err
	}

	ref, err := s.Files.Upload(ctx, objectPath("apply", strconv.FormatInt(userID, 10), in.File.Filename), in.File.ContentType, in.File.Reader)
	if err != nil {
		return nil, err
	}
	a := &entity.Application{
		UserID:           userID,
		InternshipID:     in.InternshipID,
		File:             ref,
		AdditionalTitles: titles,
		Description:      strings.TrimSpace(in.Description),
		Status:           entity.StatusPending,
	}
	if err := s.Applications.Create(ctx, a); err != nil {
		deleteFile(ctx, s.Files, s.Logger, ref)
		return nil, err
	}
	return a, nil
}

func (s *WorkflowService) checkTitles(in map[string]string) (map[string]string, error) {
	if len(in) > s.MaxFields {
		return nil, invalid("additional_titles", "must contain at most "+strconv.Itoa(s.MaxFields)+" items")
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.TrimSpace(k)
		switch {
		case key == "":
			return nil, invalid("additional_titles", "keys must not be empty")
		case utf8.RuneCountInString(key) > extraFieldKeyMax:
			return nil, invalid("additional_titles", "keys must be at most "+strconv.Itoa(extraFieldKeyMax)+" characters long")
		case utf8.RuneCountInString(v) > extraFieldValueMax:
			return nil, invalid("additional_titles", "values must be at most "+strconv.Itoa(extraFieldValueMax)+" characters long")
		}
		out[key] = v
	}
	return out, nil
}

func (s *WorkflowService) ListPending(ctx context.Context) ([]entity.Application, error) {
	return s.Applications.ListByStatus(ctx, entity.StatusPending)
}

func (s *WorkflowService) ListOwn(ctx context.Context, userID int64) ([]entity.Application, error) {
	return s.Applications.ListByUser(ctx, userID)
}

// Transition applies an admin review action to a pending application.
// Reviewed applications are final: a second action returns ErrConflict and
// leaves the stored status alone.
func (s *WorkflowService) Transition(ctx context.Context, id int64, action string) (*entity.Application, error) {
	cur, err := s.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	to, ok := reviewActions[strings.ToLower(action)]
	if !ok {
		return nil, invalid("action", "must be one of: approve, reject")
	}
	if cur.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: application is already %s", ErrConflict, cur.Status)
	}

	a, err := s.Applications.TransitionStatus(ctx, id, entity.StatusPending, to)
	switch {
	case errors.Is(err, repo.ErrStatusConflict):
		return nil, fmt.Errorf("%w: application was reviewed concurrently", ErrConflict)
	case err != nil:
		return nil, notFound(err)
	}
	s.notifyReviewed(ctx, a)
	return a, nil
}

func (s *WorkflowService) notifyReviewed(ctx context.Context, a *entity.Application) {
	if !s.Notify.enabled() {
		return
	}
	u, err := s.Users.GetByID(ctx, a.UserID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("application_id", a.ID).Warn("load applicant for notification failed")
		}
		return
	}
	title := ""
	if in, err := s.Internships.GetByID(ctx, a.InternshipID); err == nil {
		title = in.Title
	}
	s.Notify.ApplicationReviewed(ctx, u, title, a.Status)
}

// Delete removes the application and then, best effort, its file.
func (s *WorkflowService) Delete(ctx context.Context, id int64) error {
	a, err := s.Applications.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := s.Applications.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	deleteFile(ctx, s.Files, s.Logger, a.File)
	return nil
}

func (s *WorkflowService) CountApplications(ctx context.Context) (int64, error) {
	return s.Applications.Count(ctx)
}

func (s *WorkflowService) FileURL(ref string) string {
	return fileURL(s.Files, ref)
}
