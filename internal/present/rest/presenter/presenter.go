package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// failureResponse is the uniform failure envelope: same shape on every
// error so callers can branch on the status code alone.
type failureResponse struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// OK wraps a successful read or update.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Created wraps a successful resource creation.
func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

// ResetContent wraps a successful deletion. 205 is deliberate: it tells
// the caller its view of the resource must be refreshed.
func ResetContent(c echo.Context, payload any) error {
	return c.JSON(http.StatusResetContent, payload)
}

func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, failureResponse{Message: msg, Error: true})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, failureResponse{Message: msg, Error: true})
}

// Unauthorized carries one fixed message regardless of which
// authentication check failed.
func Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, failureResponse{Message: "unauthorized", Error: true})
}

func Forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, failureResponse{Message: "superuser required", Error: true})
}
