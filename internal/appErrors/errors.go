package appErrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an application error kind.
type ErrorCode string

// AppError is the application-level error carried between service,
// handler and response layers.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError without a wrapped cause.
func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// Wrap builds an AppError around an underlying error.
func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	out := *e
	out.Details = details
	return &out
}

func (e *AppError) WithError(err error) *AppError {
	out := *e
	out.Err = err
	return &out
}

// MarshalJSON keeps the wrapped error and HTTP code out of responses.
func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is wraps the standard errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As wraps the standard errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors
var (
	// Authentication
	ErrUnauthorized = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden    = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)

	// Membership plans
	ErrPlanNotFound  = New(CodePlanNotFound, "Membership plan not found", http.StatusNotFound)
	ErrPlanNotActive = New(CodePlanNotActive, "Membership plan is not available for purchase", http.StatusBadRequest)
	ErrUnknownTier   = New(CodeUnknownTier, "Membership plan tier is not recognized", http.StatusBadRequest)

	// Memberships
	ErrNoActiveMembership = New(CodeNoActiveMembership, "No active membership for this user", http.StatusNotFound)
	ErrMembershipExists   = New(CodeMembershipExists, "An active membership already exists", http.StatusConflict)
	ErrNotUpgradeable     = New(CodeNotUpgradeable, "Plan is not a valid upgrade target", http.StatusBadRequest)

	// ErrUpgradeConflict: the current subscription was modified by another
	// request before this upgrade could retire it. Retryable.
	ErrUpgradeConflict = New(CodeUpgradeConflict, "Membership was modified concurrently, please retry", http.StatusConflict)

	// ErrUpgradeIncomplete: payment was captured but the new subscription row
	// could not be activated. NOT retryable; needs support follow-up.
	ErrUpgradeIncomplete = New(CodeUpgradeIncomplete, "Payment captured but membership activation failed, contact support", http.StatusInternalServerError)

	// Payments
	ErrPaymentNotFound          = New(CodePaymentNotFound, "Payment order not found", http.StatusNotFound)
	ErrPaymentVerificationFailed = New(CodePaymentVerification, "Payment signature verification failed", http.StatusBadRequest)
	ErrPaymentNotCompleted      = New(CodePaymentNotCompleted, "Payment was not completed", http.StatusBadRequest)
	ErrPaymentAmountMismatch    = New(CodePaymentAmountMismatch, "Payment amount does not match the order", http.StatusBadRequest)
)

// Helper factories

func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func DatabaseError(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "Database operation failed", http.StatusInternalServerError)
}

func ExternalServiceError(service string, err error) *AppError {
	return Wrap(err, CodeExternalServiceError, fmt.Sprintf("%s request failed", service), http.StatusBadGateway)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

func NewConflictError(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}
