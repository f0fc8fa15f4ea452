package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
	ErrCollaborator = errors.New("collaborator error")
	ErrTimeout      = errors.New("operation timed out")

	ErrRoomNotFound        = NewKind(ErrNotFound, "room was not found")
	ErrParticipantNotFound = NewKind(ErrNotFound, "participant was not found")
	ErrMessageNotFound     = NewKind(ErrNotFound, "message was not found")
	ErrUnknownEvent        = NewKind(ErrValidation, "unknown event")
	ErrInvalidToken        = NewKind(ErrUnauthorized, "invalid or expired token")
	ErrShuttingDown        = NewKind(ErrCollaborator, "server is shutting down")
)

// kindError - ошибка со своим текстом, относящаяся к одному из видов таксономии
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NewKind создает ошибку с текстом msg, для которой errors.Is(err, kind) == true
func NewKind(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// IsClientError - ошибки, вызванные самим запросом, а не инфраструктурой
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrValidation)
}

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

// Validation оборачивает ошибку декодирования или валидации в ErrValidation.
// Ошибки validator превращаются в читаемый список полей.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// Classify приводит произвольную ошибку к таксономии шлюза:
// ошибки таксономии возвращаются как есть, истекший дедлайн становится ErrTimeout,
// все остальное - ErrCollaborator.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrCollaborator),
		errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return fmt.Errorf("%w: %v", ErrCollaborator, err)
	}
}

// Message - текст ошибки для клиента. Ошибки инфраструктуры сводятся к тексту
// своего вида, подробности остаются только в логах.
func Message(err error) string {
	var (
		apiErr  *APIError
		kindErr *kindError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Message
	case IsClientError(err):
		return err.Error()
	case errors.As(err, &kindErr):
		return kindErr.msg
	case errors.Is(err, ErrTimeout):
		return ErrTimeout.Error()
	default:
		return ErrCollaborator.Error()
	}
}

func HTTPStatusFromError(err error) int {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrCollaborator):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
