package application

import (
	"context"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	repo "github.com/oksasatya/internship-portal/internal/domain/repository"
	"github.com/oksasatya/internship-portal/pkg/helpers"
)

// UserService covers registration, credentials, sessions and profiles.
type UserService struct {
	Users       repo.UserRepository
	Profiles    repo.ProfileRepository
	Sessions    repo.SessionStore
	JWT         *helpers.JWTManager
	Files       FileStore
	Notify      *Notifier
	Logger      *logrus.Logger
	Policy      helpers.PasswordPolicy
	RememberTTL time.Duration
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewUserService(users repo.UserRepository, profiles repo.ProfileRepository, sessions repo.SessionStore, jwt *helpers.JWTManager, files FileStore, notify *Notifier, logger *logrus.Logger, policy helpers.PasswordPolicy, rememberTTL time.Duration) *UserService {
	return &UserService{
		Users:       users,
		Profiles:    profiles,
		Sessions:    sessions,
		JWT:         jwt,
		Files:       files,
		Notify:      notify,
		Logger:      logger,
		Policy:      policy,
		RememberTTL: rememberTTL,
	}
}

type RegisterInput struct {
	Username        string
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates the user and then its profile. A failed profile insert
// removes the user again so no account exists without a profile.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, invalid("password", "password fields didn't match")
	}
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := s.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, invalid("username", "a user with that username already exists")
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, invalid("email", "a user with that email already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, invalid("email", "a user with that email or username already exists")
		}
		return nil, err
	}

	p := &entity.Profile{}
	p.SyncFrom(u)
	if err := s.Profiles.Create(ctx, p); err != nil {
		if dErr := s.Users.Delete(ctx, u.ID); dErr != nil && s.Logger != nil {
			s.Logger.WithError(dErr).WithField("user_id", u.ID).Error("rollback user after profile failure")
		}
		return nil, err
	}

	s.Notify.Welcome(ctx, u)
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Login(ctx context.Context, email, password string, remember bool) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	var ttl time.Duration
	if remember {
		ttl = s.RememberTTL
	}
	pair, err := s.IssueTokens(ctx, u, ttl)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// IssueTokens opens a new session and signs a token pair for it. A zero
// refreshTTL uses the JWT manager default.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User, refreshTTL time.Duration) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid, u.IsAdmin)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid, refreshTTL)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	sess := entity.Session{ID: sid, UserID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin, CreatedAt: time.Now().UTC()}
	if err := s.Sessions.Save(ctx, sess, time.Until(rexp)); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh exchanges a refresh token for a new pair on the same session. The
// presented token is denylisted and the new refresh token keeps its expiry.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	denied, err := s.Sessions.IsDenied(ctx, claims.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if denied {
		return TokenPair{}, ErrInvalidToken
	}
	sess, err := s.Sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return TokenPair{}, ErrInvalidToken
	}
	if err != nil {
		return TokenPair{}, err
	}
	if sess.UserID != claims.UserID {
		return TokenPair{}, ErrInvalidToken
	}
	remaining := claims.Remaining()
	if remaining <= 0 {
		return TokenPair{}, ErrInvalidToken
	}

	if err := s.Sessions.Deny(ctx, claims.ID, remaining); err != nil {
		return TokenPair{}, err
	}
	access, aexp, err := s.JWT.GenerateAccessToken(sess.UserID, sess.ID, sess.IsAdmin)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(sess.UserID, sess.ID, remaining)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Logout denylists the caller's refresh token and closes its session, which
// also stops access tokens of that session from being accepted.
func (s *UserService) Logout(ctx context.Context, userID int64, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return invalid("refresh_token", "is required")
	}
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return &ValidationError{Message: err.Error(), Fields: map[string]string{"refresh_token": "token is invalid or expired"}}
	}
	if claims.UserID != userID {
		return invalid("refresh_token", "token does not belong to the current user")
	}
	denied, err := s.Sessions.IsDenied(ctx, claims.ID)
	if err != nil {
		return err
	}
	if denied {
		return invalid("refresh_token", "token is blacklisted")
	}
	if err := s.Sessions.Deny(ctx, claims.ID, claims.Remaining()); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, claims.SessionID)
}

type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// ChangePassword replaces the stored hash. Sessions opened before the change
// stay valid.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, in ChangePasswordInput) error {
	if in.NewPassword != in.ConfirmPassword {
		return invalid("confirm_password", "password fields didn't match")
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, in.OldPassword) {
		return invalid("old_password", "old password is not correct")
	}
	if problems := s.Policy.Check(in.NewPassword, u.Username, u.Email, u.FirstName, u.LastName); len(problems) > 0 {
		return invalid("new_password", strings.Join(problems, "; "))
	}
	hash, err := helpers.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	s.Notify.PasswordChanged(ctx, u)
	return nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*entity.Profile, error) {
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return p, err
}

// Upload is a file received from a multipart request.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// UpdateProfileInput holds a partial update; nil fields are left unchanged.
type UpdateProfileInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Picture     *Upload
}

// UpdateProfile applies a partial update. Name and email belong to the user,
// so they are written there first and then mirrored onto the profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*entity.Profile, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	userChanged := false
	if in.FirstName != nil && *in.FirstName != u.FirstName {
		u.FirstName = *in.FirstName
		userChanged = true
	}
	if in.LastName != nil && *in.LastName != u.LastName {
		u.LastName = *in.LastName
		userChanged = true
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != u.Email {
			other, err := s.Users.GetByEmail(ctx, email)
			if err == nil && other.ID != u.ID {
				return nil, invalid("email", "a user with that email already exists")
			}
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
			u.Email = email
			userChanged = true
		}
	}
	if userChanged {
		if err := s.Users.Update(ctx, u); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return nil, invalid("email", "a user with that email already exists")
			}
			return nil, err
		}
	}

	p.SyncFrom(u)
	if in.PhoneNumber != nil {
		p.PhoneNumber = *in.PhoneNumber
	}
	oldPicture := ""
	if in.Picture != nil {
		ref, err := s.Files.Upload(ctx, objectPath("profile_pics", strconv.FormatInt(userID, 10), in.Picture.Filename), in.Picture.ContentType, in.Picture.Reader)
		if err != nil {
			return nil, err
		}
		oldPicture = p.ProfilePicture
		p.ProfilePicture = ref
	}
	if err := s.Profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	if oldPicture != "" {
		s.deleteFile(ctx, oldPicture)
	}
	return p, nil
}

// DeleteProfilePicture removes the avatar, failing when none is set.
func (s *UserService) DeleteProfilePicture(ctx context.Context, userID int64) error {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if p.ProfilePicture == "" {
		return &ValidationError{Message: "profile picture not found"}
	}
	ref := p.ProfilePicture
	p.ProfilePicture = ""
	if err := s.Profiles.Update(ctx, p); err != nil {
		return err
	}
	s.deleteFile(ctx, ref)
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.Users.List(ctx)
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.Users.Count(ctx)
}

// FileURL resolves a stored reference for API output.
func (s *UserService) FileURL(ref string) string {
	return fileURL(s.Files, ref)
}

func (s *UserService) deleteFile(ctx context.Context, ref string) {
	deleteFile(ctx, s.Files, s.Logger, ref)
}

func fileURL(fs FileStore, ref string) string {
	if ref == "" || fs == nil {
		return ""
	}
	return fs.URL(ref)
}

// deleteFile is best effort; the row is already gone when it runs.
func deleteFile(ctx context.Context, fs FileStore, logger *logrus.Logger, ref string) {
	if ref == "" || fs == nil {
		return
	}
	if err := fs.Delete(ctx, ref); err != nil && logger != nil {
		logger.WithError(err).WithField("ref", ref).Warn("delete stored file failed")
	}
}

// objectPath builds dir/sub/<uuid><ext> so uploads never overwrite each other.
func objectPath(dir, sub, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return path.Join(dir, sub, uuid.NewString()+ext)
}
