package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"reading-room-library/internal/lending"
)

func TestTemplateData(t *testing.T) {
	data := NewTemplateData(nil).Set("Error", "nieprawidłowe dane logowania")

	assert.Equal(t, "nieprawidłowe dane logowania", data["Error"])
	assert.Equal(t, false, data["IsLoggedIn"])
	assert.Equal(t, false, data["IsAdmin"])
}

func TestLendingErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"konflikt rezerwacji", lending.ErrAlreadyReserved, http.StatusConflict},
		{"brak rekordu", lending.ErrNotFound, http.StatusNotFound},
		{"brak uprawnień", lending.ErrUnauthorized, http.StatusForbidden},
		{"błąd walidacji", lending.ErrValidationFailed, http.StatusBadRequest},
		{"awaria bazy", lending.ErrRemoteUnavailable, http.StatusServiceUnavailable},
		{"nieznany błąd", fmt.Errorf("coś poszło nie tak"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lendingErrorStatus(tc.err))
		})
	}

	t.Run("rozpoznaje błędy opakowane przez fmt.Errorf", func(t *testing.T) {
		err := fmt.Errorf("%w: książka book-1 nie jest w stanie zarezerwowanym", lending.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, lendingErrorStatus(err))
	})
}
