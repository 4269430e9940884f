package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/warebase/warebase"
	"github.com/warebase/warebase/internal/config"
	"github.com/warebase/warebase/internal/domain"
	"github.com/warebase/warebase/internal/present/rest/middleware"
	"github.com/warebase/warebase/internal/present/rest/presenter"
	"github.com/warebase/warebase/internal/usecase"
)

type IAMHandler struct {
	config  config.Config
	account *usecase.AccountUsecase
}

func NewIAMHandler(conf config.Config, account *usecase.AccountUsecase) *IAMHandler {
	return &IAMHandler{
		config:  conf,
		account: account,
	}
}

// RegisterRoutes declares every route with its required auth level; the
// middleware enforces the level before any handler body runs.
func (h *IAMHandler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware) {
	g := e.Group("/api/v1/iam")
	g.GET("/status", h.handleStatus, auth.Require(middleware.LevelNone))
	g.POST("/signup", h.handleSignup, auth.Require(middleware.LevelNone))
	g.POST("/login", h.handleLogin, auth.Require(middleware.LevelNone))
	g.GET("/users", h.handleUserList, auth.Require(middleware.LevelToken))
	g.GET("/users/:id", h.handleUserDetail, auth.Require(middleware.LevelToken))
	g.PATCH("/users/:id", h.handleUserUpdate, auth.Require(middleware.LevelToken))
	g.DELETE("/users/:id", h.handleUserDelete, auth.Require(middleware.LevelSuperuser))
	g.DELETE("/users/delete/bulk", h.handleUserBulkDelete, auth.Require(middleware.LevelSuperuser))
	g.POST("/authenticate", h.handleAuthenticate, auth.Require(middleware.LevelToken))
}

func (h *IAMHandler) handleStatus(c echo.Context) error {
	return presenter.OK(c, warebase.ServiceStatus{
		Message: "ok",
		Service: "iam",
		Version: warebase.Version,
		Scheme:  h.config.Auth.Scheme,
	})
}

type signupRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

func (h *IAMHandler) handleSignup(c echo.Context) error {
	ctx := c.Request().Context()

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	err := h.account.Signup(ctx, usecase.SignupInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	})
	if err != nil {
		var invalid domain.InvalidInputError
		if errors.As(err, &invalid) {
			return presenter.BadRequest(c, invalid.Reason)
		}

		// uniqueness violations and storage failures collapse into one
		// message; the cause stays in the log
		slog.ErrorContext(
			ctx, "Error creating new user",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
			slog.String("module", "iam"),
		)
		return presenter.BadRequest(c, "error creating new user")
	}

	return presenter.Created(c, echo.Map{"message": "new user created successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

func (h *IAMHandler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	user, token, err := h.account.Login(ctx, req.Email, req.Password)
	if errors.Is(err, domain.ErrNotFound) {
		return presenter.NotFound(c, "user not found")
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return presenter.BadRequest(c, "invalid password")
	}
	if err != nil {
		slog.ErrorContext(
			ctx, "Error logging in",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
			slog.String("module", "iam"),
		)
		return presenter.BadRequest(c, "error logging in")
	}

	// convenience only; the auth middleware never reads this cookie
	c.SetCookie(&http.Cookie{
		Name:  "user_id",
		Value: user.ID,
		Path:  "/",
	})

	return presenter.OK(c, loginResponse{
		Message: "auth token generated",
		Email:   user.Email,
		Token:   token.Key,
	})
}

func (h *IAMHandler) handleUserList(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset, err := paginationParams(c)
	if err != nil {
		return presenter.BadRequest(c, err.Error())
	}

	users, err := h.account.List(ctx, limit, offset)
	if err != nil {
		slog.ErrorContext(
			ctx, "Error listing users",
			slog.String("error", err.Error()),
			slog.String("module", "iam"),
		)
		return presenter.BadRequest(c, "error listing users")
	}

	return presenter.OK(c, echo.Map{
		"message": "users retrieved",
		"users":   users,
	})
}

func (h *IAMHandler) handleUserDetail(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.account.Get(ctx, c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		return presenter.NotFound(c, "user not found")
	}
	if err != nil {
		return presenter.BadRequest(c, "error retrieving user")
	}

	return presenter.OK(c, echo.Map{
		"message": "user retrieved",
		"user":    user,
	})
}

func (h *IAMHandler) handleUserUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var patch domain.UserPatch
	if err := c.Bind(&patch); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	user, err := h.account.Update(ctx, c.Param("id"), patch)
	if err != nil {
		var invalid domain.InvalidInputError
		if errors.As(err, &invalid) {
			return presenter.BadRequest(c, invalid.Reason)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "user not found")
		}
		slog.ErrorContext(
			ctx, "Error updating user",
			slog.String("id", c.Param("id")),
			slog.String("error", err.Error()),
			slog.String("module", "iam"),
		)
		return presenter.BadRequest(c, "error updating user")
	}

	return presenter.OK(c, echo.Map{
		"message": "user updated",
		"user":    user,
	})
}

func (h *IAMHandler) handleUserDelete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.account.Delete(ctx, c.Param("id")); err != nil {
		slog.ErrorContext(
			ctx, "Error deleting user",
			slog.String("id", c.Param("id")),
			slog.String("error", err.Error()),
			slog.String("module", "iam"),
		)
		return presenter.BadRequest(c, "error deleting user")
	}

	return presenter.ResetContent(c, echo.Map{"message": "user deleted"})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *IAMHandler) handleUserBulkDelete(c echo.Context) error {
	ctx := c.Request().Context()

	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	count, err := h.account.BulkDelete(ctx, req.IDs)
	if err != nil {
		var invalid domain.InvalidInputError
		if errors.As(err, &invalid) {
			return presenter.BadRequest(c, invalid.Reason)
		}
		slog.ErrorContext(
			ctx, "Error bulk deleting users",
			slog.Int("requested", len(req.IDs)),
			slog.String("error", err.Error()),
			slog.String("module", "iam"),
		)
		return presenter.BadRequest(c, "error deleting users")
	}

	return presenter.ResetContent(c, echo.Map{
		"message": "users deleted",
		"count":   count,
	})
}

// handleAuthenticate is the service-to-service contract: another process
// presents a token and receives the resolved identity. The user id is
// serialized as a string so the caller never has to cope with a
// storage-native key type.
func (h *IAMHandler) handleAuthenticate(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := domain.RequesterFromContext(ctx)
	if !ok {
		return presenter.Unauthorized(c)
	}
	token, ok := domain.AuthTokenFromContext(ctx)
	if !ok {
		return presenter.Unauthorized(c)
	}

	return presenter.OK(c, warebase.AuthenticateResponse{
		Message: "authenticated",
		User: warebase.AuthenticatedUser{
			ID:          user.ID,
			Email:       user.Email,
			Username:    user.Username,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			IsSuperuser: user.IsSuperuser,
			CreatedAt:   user.CreatedAt,
			UpdatedAt:   user.UpdatedAt,
		},
		Token: warebase.AuthenticatedToken{
			Key:       token.Key,
			UserID:    token.UserID,
			CreatedAt: token.CreatedAt,
			UpdatedAt: token.UpdatedAt,
		},
	})
}

func paginationParams(c echo.Context) (int, int, error) {
	limit := 20
	limitStr := c.QueryParam("limit")
	if limitStr != "" {
		limitInt, err := strconv.Atoi(limitStr)
		if err != nil || limitInt < 1 {
			return 0, 0, domain.InvalidInputError{Reason: "invalid limit parameter"}
		}
		limit = limitInt
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	offsetStr := c.QueryParam("offset")
	if offsetStr != "" {
		offsetInt, err := strconv.Atoi(offsetStr)
		if err != nil || offsetInt < 0 {
			return 0, 0, domain.InvalidInputError{Reason: "invalid offset parameter"}
		}
		offset = offsetInt
	}

	return limit, offset, nil
}
