package core

import (
	"errors"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// Error codes borrow HTTP numbering.
const (
	ErrorCodeBadRequest = 400
	ErrorCodeForbidden  = 403
	ErrorCodeNotFound   = 404
	ErrorCodeTimeout    = 408
	ErrorCodeConflict   = 409
	ErrorCodeInternal   = 500
)

const genericUserMessage = "An error occurred while processing your request."

// HandlerError carries the text a player should see alongside the cause,
// which only goes to the logs.
type HandlerError struct {
	Err         error
	UserMessage string
	ShowToUser  bool
	Code        int
}

func (e *HandlerError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

func newHandlerError(err error, message string, code int) *HandlerError {
	return &HandlerError{Err: err, UserMessage: message, ShowToUser: true, Code: code}
}

// NewUserError reports a problem the player caused or can fix.
func NewUserError(message string, code int) *HandlerError {
	return newHandlerError(nil, message, code)
}

func NewValidationError(message string) *HandlerError {
	return newHandlerError(nil, message, ErrorCodeBadRequest)
}

func NewForbiddenError(message string) *HandlerError {
	return newHandlerError(nil, message, ErrorCodeForbidden)
}

func NewNotFoundError(what string) *HandlerError {
	return newHandlerError(nil, what+" not found", ErrorCodeNotFound)
}

// NewInternalError hides err behind the generic apology.
func NewInternalError(err error) *HandlerError {
	return newHandlerError(err, genericUserMessage, ErrorCodeInternal)
}

var serviceCodes = map[dnderr.Code]int{
	dnderr.CodeNotFound:           ErrorCodeNotFound,
	dnderr.CodeInvalidArgument:    ErrorCodeBadRequest,
	dnderr.CodeValidation:         ErrorCodeBadRequest,
	dnderr.CodePermissionDenied:   ErrorCodeForbidden,
	dnderr.CodeAlreadyExists:      ErrorCodeConflict,
	dnderr.CodeFailedPrecondition: ErrorCodeConflict,
	dnderr.CodeTimeout:            ErrorCodeTimeout,
}

// FromServiceError maps a service error onto a HandlerError. Coded errors
// keep the message the service wrote for the player, the rest are internal.
func FromServiceError(err error) *HandlerError {
	if err == nil {
		return nil
	}
	var herr *HandlerError
	if errors.As(err, &herr) {
		return herr
	}
	if code, ok := serviceCodes[dnderr.GetCode(err)]; ok {
		return newHandlerError(err, dnderr.GetMessage(err), code)
	}
	return NewInternalError(err)
}
