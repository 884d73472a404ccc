package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/internal/interface/middleware"
	"github.com/oksasatya/internship-portal/pkg/helpers"
	"github.com/oksasatya/internship-portal/pkg/response"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username        string `json:"username" binding:"required,max=150"`
	FirstName       string `json:"first_name" binding:"personname"`
	LastName        string `json:"last_name" binding:"personname"`
	Email           string `json:"email" binding:"required,email,max=254"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type loginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe any    `json:"remember_me"`
}

type tokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// updateProfileRequest binds JSON or multipart; absent fields stay nil.
type updateProfileRequest struct {
	FirstName      *string               `json:"first_name" form:"first_name" binding:"omitempty,max=100"`
	LastName       *string               `json:"last_name" form:"last_name" binding:"omitempty,max=100"`
	Email          *string               `json:"email" form:"email" binding:"omitempty,email"`
	PhoneNumber    *string               `json:"phone_number" form:"phone_number" binding:"omitempty,phone"`
	ProfilePicture *multipart.FileHeader `json:"-" form:"profile_picture"`
}

type tokenPairView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func pairMeta(p application.TokenPair) map[string]any {
	return map[string]any{"access_expires_at": p.AccessTokenExpiry, "refresh_expires_at": p.RefreshTokenExpiry}
}

// Register POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, presentUser(u), "user registered", nil)
}

// Login POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, truthy(req.RememberMe))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	h.Logger.WithField("user_id", u.ID).Info("user logged in")
	response.OK(c, http.StatusOK, tokenPairView{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, "login successful", pairMeta(pair))
}

// refreshToken reads the token from the body, falling back to the cookie.
func refreshToken(c *gin.Context) (string, error) {
	var req tokenRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", err
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie("refresh_token")
	}
	return req.RefreshToken, nil
}

// Refresh POST /api/users/token/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	token, err := refreshToken(c)
	if err != nil {
		bindError(c, err)
		return
	}
	if token == "" {
		response.Fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, http.StatusOK, tokenPairView{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, "token refreshed", pairMeta(pair))
}

// Logout POST /api/users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	token, err := refreshToken(c)
	if err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), middleware.CurrentUserID(c), token); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.OK(c, http.StatusOK, gin.H{"logged_out": true}, "successfully logged out", nil)
}

// ChangePassword POST /api/users/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), application.ChangePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"changed": true}, "password changed successfully", nil)
}

// GetProfile GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, presentProfile(p, h.Svc.FileURL), "profile", nil)
}

// UpdateProfile PUT /api/users/profile, JSON or multipart with profile_picture.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	pic, release, err := openUpload(req.ProfilePicture)
	if err != nil {
		bindError(c, err)
		return
	}
	defer release()

	p, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), application.UpdateProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Picture:     pic,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, presentProfile(p, h.Svc.FileURL), "profile updated", nil)
}

// DeleteProfilePicture DELETE /api/users/profile
func (h *UserHandler) DeleteProfilePicture(c *gin.Context) {
	if err := h.Svc.DeleteProfilePicture(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"deleted": true}, "profile picture deleted successfully", nil)
}

// AllUsers GET /api/users/all-users
func (h *UserHandler) AllUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, presentUser(&users[i]))
	}
	response.OK(c, http.StatusOK, gin.H{"user_count": len(out), "users": out}, "users", nil)
}

// UserCount GET /api/users/user-count
func (h *UserHandler) UserCount(c *gin.Context) {
	n, err := h.Svc.CountUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"user_count": n}, "user count", nil)
}
