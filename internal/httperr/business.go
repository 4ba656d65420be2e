package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Códigos de negocio del subsistema de agenda.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeSlotUnavailable   = "slot_unavailable"
	CodeConflictDetected  = "conflict_detected"
	CodeInvalidTransition = "invalid_transition"
	CodeUnavailable       = "unavailable"
)

type BusinessError struct {
	Code    string
	Message string
	Details any
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func ErrBusinessDetails(code, message string, details any) error {
	return BusinessError{Code: code, Message: message, Details: details}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsAnyBusiness distingue fallas de negocio (terminales, no se
// reintentan) de fallas de infraestructura.
func IsAnyBusiness(err error) bool {
	var be BusinessError
	return errors.As(err, &be)
}

var statusByCode = map[string]int{
	CodeValidation:        http.StatusBadRequest,
	CodeNotFound:          http.StatusNotFound,
	CodeSlotUnavailable:   http.StatusConflict,
	CodeConflictDetected:  http.StatusConflict,
	CodeInvalidTransition: http.StatusUnprocessableEntity,
	CodeUnavailable:       http.StatusServiceUnavailable,
}

// Respond mapea un error de negocio a su respuesta HTTP; cualquier
// otro error se responde como 500 genérico.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		status, ok := statusByCode[be.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		msg := be.Message
		if msg == "" {
			msg = be.Code
		}
		WriteDetails(c, status, be.Code, msg, be.Details)
		return
	}

	Internal(c, "internal_error", "Error interno.")
}
