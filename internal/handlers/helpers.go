package handlers

import (
	"errors"
	"log"
	"net/http"

	"reading-room-library/internal/lending"
	"reading-room-library/internal/session"
)

// TemplateData zawiera wspólne dane dla wszystkich szablonów
type TemplateData map[string]interface{}

// NewTemplateData tworzy nowe dane szablonu z automatycznym dodaniem użytkownika
func NewTemplateData(sess *session.Session) TemplateData {
	data := make(TemplateData)

	if sess != nil {
		data["User"] = sess.User
		data["IsLoggedIn"] = true
		data["IsAdmin"] = sess.IsAdmin
	} else {
		data["User"] = nil
		data["IsLoggedIn"] = false
		data["IsAdmin"] = false
	}

	return data
}

// Set ustawia wartość w danych szablonu
func (t TemplateData) Set(key string, value interface{}) TemplateData {
	t[key] = value
	return t
}

// lendingErrorStatus tłumaczy błąd koordynatora wypożyczeń na status HTTP
func lendingErrorStatus(err error) int {
	switch {
	case errors.Is(err, lending.ErrAlreadyReserved):
		return http.StatusConflict
	case errors.Is(err, lending.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lending.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, lending.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, lending.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// reportLendingError loguje błąd przejścia i zwraca go wywołującemu.
// Żadne przejście nie jest ponawiane automatycznie - użytkownik musi
// ponowić akcję.
func reportLendingError(w http.ResponseWriter, op string, err error) {
	log.Printf("Błąd operacji %s: %v", op, err)
	http.Error(w, err.Error(), lendingErrorStatus(err))
}
