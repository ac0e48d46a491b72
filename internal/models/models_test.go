package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reading-room-library/internal/models"
)

func TestValidateRating(t *testing.T) {
	for _, rating := range []float64{0, 0.5, 2.5, 5} {
		assert.NoError(t, models.ValidateRating(rating), "ocena %v", rating)
	}
	for _, rating := range []float64{-0.1, 5.1, 42} {
		assert.Error(t, models.ValidateRating(rating), "ocena %v", rating)
	}
}

func TestBookNormalize(t *testing.T) {
	t.Run("stary rekord z availability true", func(t *testing.T) {
		book := &models.Book{Availability: true}
		book.Normalize()
		assert.Equal(t, models.BookStatusAvailable, book.Status)
		assert.True(t, book.Availability)
	})

	t.Run("stary rekord z availability false", func(t *testing.T) {
		book := &models.Book{Availability: false}
		book.Normalize()
		assert.Equal(t, models.BookStatusReserved, book.Status)
		assert.False(t, book.Availability)
	})

	t.Run("availability podąża za stanem", func(t *testing.T) {
		book := &models.Book{Status: models.BookStatusCheckedOut, Availability: true}
		book.Normalize()
		assert.False(t, book.Availability)
	})
}

func TestBookSetStatus(t *testing.T) {
	book := &models.Book{}
	book.SetStatus(models.BookStatusAvailable)
	assert.True(t, book.Availability)
	assert.Equal(t, "available", book.AvailabilityLabel())

	book.SetStatus(models.BookStatusReserved)
	assert.False(t, book.Availability)
	assert.Equal(t, "unavailable", book.AvailabilityLabel())
}

func TestUserRecordLists(t *testing.T) {
	user := &models.UserRecord{
		ReservedBooks: []string{"b1", "b2"},
		CurrentBooks:  []string{"b3"},
		Wishlist:      []string{"b4"},
	}

	assert.True(t, user.HasReserved("b1"))
	assert.False(t, user.HasReserved("b3"))
	assert.True(t, user.HasCurrent("b3"))
	assert.True(t, user.HasInWishlist("b4"))

	user.RemoveReserved("b1")
	assert.Equal(t, []string{"b2"}, user.ReservedBooks)

	user.RemoveCurrent("b3")
	assert.Empty(t, user.CurrentBooks)

	user.RemoveFromWishlist("b4")
	assert.Empty(t, user.Wishlist)

	// Usunięcie nieobecnego elementu niczego nie zmienia
	user.RemoveReserved("nie-ma")
	assert.Equal(t, []string{"b2"}, user.ReservedBooks)
}

func TestPendingReturnIsDamaged(t *testing.T) {
	assert.False(t, (&models.PendingReturn{Reason: models.PendingReasonReturn}).IsDamaged())
	assert.True(t, (&models.PendingReturn{Reason: models.PendingReasonDamaged}).IsDamaged())
}

func TestReservationIsOwnedBy(t *testing.T) {
	res := &models.Reservation{BookID: "b1", UID: "u1"}
	assert.True(t, res.IsOwnedBy("u1"))
	assert.False(t, res.IsOwnedBy("u2"))
}

func TestAdminRoleSet(t *testing.T) {
	roles := &models.AdminRoleSet{Admin: []string{"u1", "u9"}}
	assert.True(t, roles.IsAdmin("u1"))
	assert.False(t, roles.IsAdmin("u2"))
	assert.False(t, (&models.AdminRoleSet{}).IsAdmin("u1"))
}
