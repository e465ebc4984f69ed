package autherrors

import (
	"go-tasktracker/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token expired",
		http.StatusUnauthorized,
	)
	ErrTokenMissing = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid refresh token",
		http.StatusUnauthorized,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate token",
		http.StatusInternalServerError,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"User already exists",
		http.StatusBadRequest,
	)
	ErrAdminSignupDisabled = apperror.New(
		apperror.CodeForbidden,
		"Admin registration is disabled",
		http.StatusForbidden,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)
	ErrUnsupportedProvider = apperror.New(
		apperror.CodeInvalidInput,
		"Unsupported OAuth provider",
		http.StatusBadRequest,
	)
	ErrOAuthFailed = apperror.New(
		apperror.CodeUnauthorized,
		"OAuth login failed",
		http.StatusUnauthorized,
	)
	ErrOAuthState = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid OAuth state",
		http.StatusBadRequest,
	)
)
