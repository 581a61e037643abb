package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/config"
	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/utils"
)

// AuthHandler bundles dependencies for auth and user endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type signUpReq struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}
type signInReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64     `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
}
type authResp struct {
	Message string    `json:"message,omitempty"`
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func userPartOf(u *model.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// SignUp registers a guest account.  Tokens are issued by SignIn.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := model.ValidateRegistration(req.Username, req.Email, req.Password); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	userTaken, emailTaken, err := h.Users.Taken(ctx, strings.TrimSpace(req.Username), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	if userTaken || emailTaken {
		v := &model.ValidationError{}
		if userTaken {
			v.Add("username", "A user with that username already exists.")
		}
		if emailTaken {
			v.Add("email", "user with this email already exists.")
		}
		return respondError(c, v)
	}

	u := &model.User{Username: req.Username, Email: req.Email, Role: model.RoleGuest}
	if err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost); err != nil {
		return respondError(c, fieldOn(err, repository.ErrDuplicate, "username", "A user with that username or email already exists."))
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Registration successful"})
}

// SignIn verifies username and password and returns a fresh token pair.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return respondError(c, err)
	}
	hash := ""
	if u != nil {
		hash = u.PasswordHash
	}
	if !utils.VerifyPassword(hash, req.Password) || !u.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid credentials"})
	}

	access, refresh, err := h.issuePair(c, u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, authResp{
		Message: "Login successful",
		User:    userPartOf(u),
		Access:  access,
		Refresh: refresh,
	})
}

func (h *AuthHandler) issuePair(c echo.Context, u *model.User) (tokenPart, tokenPart, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	return tokenPart{Token: access.Token, Expires: access.Exp},
		tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, nil // raw back to client
}

// Refresh redeems a refresh token once and returns a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.Rotate(ctx,
		utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken)),
		utils.HashRefreshRaw(newRef.Raw), newRef.Exp)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err != nil {
		return respondError(c, err)
	}
	u, err := h.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !u.IsActive) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err != nil {
		return respondError(c, err)
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPartOf(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
	})
}

// RefreshAccess returns a new access token and leaves the refresh token
// valid.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken)))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil || !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the refresh token in the body.  A caller identified by
// bearer token who sends no refresh token is logged out everywhere.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, hasBearer := middleware.UserID(c)
	switch {
	case raw != "":
		if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw)); err != nil {
			return respondError(c, err)
		}
	case hasBearer:
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			return respondError(c, err)
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
