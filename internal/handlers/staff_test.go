package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reading-room-library/internal/catalog"
	"reading-room-library/internal/models"
)

func TestPendingDisplay(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ref := catalog.BookRef{BookID: "book-1", Title: "Solaris", Author: "Stanisław Lem"}

	t.Run("zwykły zwrot", func(t *testing.T) {
		p := &models.PendingReturn{
			BookID:    "book-1",
			CreatorID: "u1",
			Reason:    models.PendingReasonReturn,
			Notes:     "bez uwag",
			CreatedAt: created,
		}

		row := pendingDisplay(p, ref, "jan")

		assert.Equal(t, "book-1", row.BookID)
		assert.Equal(t, "Solaris", row.Title)
		assert.Equal(t, "Stanisław Lem", row.Author)
		assert.Equal(t, "u1", row.UID)
		assert.Equal(t, "jan", row.Nickname)
		assert.Equal(t, string(models.PendingReasonReturn), row.Reason)
		assert.Equal(t, "bez uwag", row.Notes)
		assert.False(t, row.IsDamaged)
		assert.Equal(t, created, row.RequestedAt)
	})

	t.Run("zwrot oznaczony jako uszkodzenie", func(t *testing.T) {
		p := &models.PendingReturn{
			BookID:    "book-1",
			CreatorID: "u1",
			Reason:    models.PendingReasonDamaged,
			CreatedAt: created,
		}

		row := pendingDisplay(p, ref, "jan")

		assert.Equal(t, string(models.PendingReasonDamaged), row.Reason)
		assert.True(t, row.IsDamaged)
	})
}

func TestFilterUsers(t *testing.T) {
	users := []*models.UserRecord{
		{UID: "u1", Nickname: "Jan", Email: "jan@czytelnia.pl"},
		{UID: "u2", Nickname: "Anna", Email: "anna@czytelnia.pl"},
	}

	t.Run("puste zapytanie zwraca wszystkich", func(t *testing.T) {
		assert.Len(t, filterUsers(users, ""), 2)
	})

	t.Run("dopasowanie po pseudonimie bez rozróżniania wielkości", func(t *testing.T) {
		got := filterUsers(users, "ANNA")
		assert.Len(t, got, 1)
		assert.Equal(t, "u2", got[0].UID)
	})

	t.Run("dopasowanie po UID", func(t *testing.T) {
		got := filterUsers(users, "u1")
		assert.Len(t, got, 1)
		assert.Equal(t, "Jan", got[0].Nickname)
	})
}

func TestPaginateUsers(t *testing.T) {
	users := make([]*models.UserRecord, 25)
	for i := range users {
		users[i] = &models.UserRecord{UID: string(rune('a' + i))}
	}

	assert.Len(t, paginateUsers(users, 1), usersPerPage)
	assert.Len(t, paginateUsers(users, 2), 5)
	assert.Nil(t, paginateUsers(users, 3))
	assert.Len(t, paginateUsers(users, 0), usersPerPage)
}
