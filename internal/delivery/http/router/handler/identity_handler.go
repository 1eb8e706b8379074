// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"biopass/internal/delivery/http/middleware"
	"biopass/internal/delivery/http/response"
	"biopass/internal/usecase"
)

// IdentityHandler holds dependencies for registration and authentication handlers.
type IdentityHandler struct {
	uc     usecase.IdentityUsecase
	logger *slog.Logger
}

// NewIdentityHandler is the constructor for IdentityHandler, injected by Fx.
func NewIdentityHandler(uc usecase.IdentityUsecase, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		uc:     uc,
		logger: logger,
	}
}

// --- Request / response models ---
// Handlers bind into their own request structs and map to usecase inputs so
// wire-level tags never leak into the usecase layer.

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerBiometricRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	BiometricKey string `json:"biometricKey" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type biometricLoginRequest struct {
	BiometricKey string `json:"biometricKey" validate:"required"`
}

type enrollBiometricRequest struct {
	BiometricKey string `json:"biometricKey" validate:"required"`
}

type registerResponse struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	UserID            uuid.UUID `json:"userId"`
	Email             string    `json:"email"`
	BiometricKeyCount int       `json:"biometricKeyCount"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Register handles registration with a password credential.
func (h *IdentityHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.RegisterStandard(c.Request().Context(), &usecase.RegisterStandardInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, registerResponse{
		UserID:    output.UserID,
		Email:     output.Email,
		CreatedAt: output.CreatedAt,
	}, "User registered successfully")
}

// RegisterBiometric handles registration with a password credential plus an
// initial biometric key.
func (h *IdentityHandler) RegisterBiometric(c echo.Context) error {
	var req registerBiometricRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.RegisterWithBiometric(c.Request().Context(), &usecase.RegisterWithBiometricInput{
		Email:        req.Email,
		Password:     req.Password,
		BiometricKey: req.BiometricKey,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, registerResponse{
		UserID:    output.UserID,
		Email:     output.Email,
		CreatedAt: output.CreatedAt,
	}, "User registered successfully")
}

// Login handles password authentication.
func (h *IdentityHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.LoginStandard(c.Request().Context(), &usecase.LoginStandardInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, loginResponse{Token: output.Token}, "Login successful")
}

// LoginBiometric handles biometric key authentication.
func (h *IdentityHandler) LoginBiometric(c echo.Context) error {
	var req biometricLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.LoginBiometric(c.Request().Context(), &usecase.LoginBiometricInput{
		BiometricKey: req.BiometricKey,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, loginResponse{Token: output.Token}, "Login successful")
}

// EnrollBiometric enrolls an additional biometric key for the authenticated user.
func (h *IdentityHandler) EnrollBiometric(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	var req enrollBiometricRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid enrollment input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	err := h.uc.EnrollBiometric(c.Request().Context(), &usecase.EnrollBiometricInput{
		UserID:       userID,
		BiometricKey: req.BiometricKey,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Biometric key enrolled successfully")
}

// GetProfile handles the request to get the current user's profile.
func (h *IdentityHandler) GetProfile(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profileResponse{
		UserID:            profile.UserID,
		Email:             profile.Email,
		BiometricKeyCount: profile.BiometricKeyCount,
		CreatedAt:         profile.CreatedAt,
	}, "Profile retrieved successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
