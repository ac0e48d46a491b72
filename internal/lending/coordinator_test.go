package lending_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reading-room-library/internal/lending"
	"reading-room-library/internal/models"
)

func availableBook() *models.Book {
	book := &models.Book{
		ID:     "book-1",
		Title:  "Solaris",
		Author: "Stanisław Lem",
	}
	book.SetStatus(models.BookStatusAvailable)
	return book
}

func bookInStatus(status models.BookStatus) *models.Book {
	book := availableBook()
	book.SetStatus(status)
	return book
}

func reader(uid string) *models.UserRecord {
	return &models.UserRecord{
		UID:                 uid,
		Nickname:            "czytelnik-" + uid,
		Email:               uid + "@czytelnia.pl",
		AllowedToUseLibrary: true,
	}
}

// checkBookInvariant sprawdza, że pole availability jest zsynchronizowane
// ze stanem po każdym przejściu
func checkBookInvariant(t *testing.T, book *models.Book) {
	t.Helper()
	assert.Equal(t, book.Status == models.BookStatusAvailable, book.Availability,
		"availability musi odpowiadać stanowi %s", book.Status)
}

func TestReserve(t *testing.T) {
	t.Run("rezerwuje dostępną książkę", func(t *testing.T) {
		snap := lending.Snapshot{
			Book: availableBook(),
			User: reader("u1"),
		}

		cs, err := lending.Reserve(snap, "u1")
		require.NoError(t, err)

		require.NotNil(t, cs.Book)
		assert.Equal(t, models.BookStatusReserved, cs.Book.Status)
		checkBookInvariant(t, cs.Book)

		require.NotNil(t, cs.SetReservation)
		assert.Equal(t, "book-1", cs.SetReservation.BookID)
		assert.Equal(t, "u1", cs.SetReservation.UID)
		assert.Equal(t, "Solaris", cs.SetReservation.Title)
		assert.False(t, cs.SetReservation.ReservedAt.IsZero())

		require.NotNil(t, cs.User)
		assert.Contains(t, cs.User.ReservedBooks, "book-1")
	})

	t.Run("odrzuca rezerwację gdy rezerwacja już istnieje", func(t *testing.T) {
		snap := lending.Snapshot{
			Book:        bookInStatus(models.BookStatusReserved),
			Reservation: &models.Reservation{BookID: "book-1", UID: "inny"},
			User:        reader("u1"),
		}

		_, err := lending.Reserve(snap, "u1")
		assert.ErrorIs(t, err, lending.ErrAlreadyReserved)
	})

	t.Run("odrzuca rezerwację książki w obcym stanie", func(t *testing.T) {
		for _, status := range []models.BookStatus{
			models.BookStatusCheckedOut,
			models.BookStatusPendingReturn,
			models.BookStatusAwaitingRepair,
		} {
			snap := lending.Snapshot{
				Book: bookInStatus(status),
				User: reader("u1"),
			}

			_, err := lending.Reserve(snap, "u1")
			assert.ErrorIs(t, err, lending.ErrAlreadyReserved, "stan %s", status)
		}
	})

	t.Run("odrzuca rezerwację dla nieistniejącej książki", func(t *testing.T) {
		snap := lending.Snapshot{User: reader("u1")}

		_, err := lending.Reserve(snap, "u1")
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})

	t.Run("odrzuca rezerwację dla nieistniejącego użytkownika", func(t *testing.T) {
		snap := lending.Snapshot{Book: availableBook()}

		_, err := lending.Reserve(snap, "u1")
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})

	t.Run("odrzuca rezerwację przy zablokowanym koncie", func(t *testing.T) {
		blocked := reader("u1")
		blocked.AllowedToUseLibrary = false
		snap := lending.Snapshot{
			Book: availableBook(),
			User: blocked,
		}

		_, err := lending.Reserve(snap, "u1")
		assert.ErrorIs(t, err, lending.ErrUnauthorized)
	})

	t.Run("nie modyfikuje migawki wejściowej", func(t *testing.T) {
		user := reader("u1")
		snap := lending.Snapshot{Book: availableBook(), User: user}

		_, err := lending.Reserve(snap, "u1")
		require.NoError(t, err)

		assert.Empty(t, user.ReservedBooks)
		assert.Equal(t, models.BookStatusAvailable, snap.Book.Status)
	})
}

func TestUnreserve(t *testing.T) {
	snapFor := func(owner string) lending.Snapshot {
		user := reader(owner)
		user.ReservedBooks = []string{"book-1"}
		return lending.Snapshot{
			Book:        bookInStatus(models.BookStatusReserved),
			Reservation: &models.Reservation{BookID: "book-1", UID: owner},
			User:        user,
		}
	}

	t.Run("właściciel zwalnia własną rezerwację", func(t *testing.T) {
		cs, err := lending.Unreserve(snapFor("u1"), "u1", false)
		require.NoError(t, err)

		assert.Equal(t, models.BookStatusAvailable, cs.Book.Status)
		checkBookInvariant(t, cs.Book)
		assert.True(t, cs.DeleteReservation)
		assert.NotContains(t, cs.User.ReservedBooks, "book-1")
	})

	t.Run("obcy użytkownik nie może zwolnić rezerwacji", func(t *testing.T) {
		_, err := lending.Unreserve(snapFor("u1"), "u2", false)
		assert.ErrorIs(t, err, lending.ErrUnauthorized)
	})

	t.Run("administrator zwalnia cudzą rezerwację", func(t *testing.T) {
		cs, err := lending.Unreserve(snapFor("u1"), "admin", true)
		require.NoError(t, err)
		assert.True(t, cs.DeleteReservation)
	})

	t.Run("brak rezerwacji zgłasza NotFound", func(t *testing.T) {
		snap := lending.Snapshot{Book: bookInStatus(models.BookStatusReserved)}

		_, err := lending.Unreserve(snap, "u1", false)
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})
}

func TestHandIn(t *testing.T) {
	t.Run("wydaje zarezerwowaną książkę", func(t *testing.T) {
		user := reader("u1")
		user.ReservedBooks = []string{"book-1"}
		snap := lending.Snapshot{
			Book:        bookInStatus(models.BookStatusReserved),
			Reservation: &models.Reservation{BookID: "book-1", UID: "u1"},
			User:        user,
		}

		cs, err := lending.HandIn(snap)
		require.NoError(t, err)

		assert.Equal(t, models.BookStatusCheckedOut, cs.Book.Status)
		checkBookInvariant(t, cs.Book)
		assert.True(t, cs.DeleteReservation)
		assert.NotContains(t, cs.User.ReservedBooks, "book-1")
		assert.Contains(t, cs.User.CurrentBooks, "book-1")
	})

	t.Run("odmawia wydania bez rezerwacji", func(t *testing.T) {
		snap := lending.Snapshot{Book: availableBook(), User: reader("u1")}

		_, err := lending.HandIn(snap)
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})
}

func TestReturn(t *testing.T) {
	snapWith := func(user *models.UserRecord) lending.Snapshot {
		return lending.Snapshot{
			Book: bookInStatus(models.BookStatusCheckedOut),
			User: user,
		}
	}

	t.Run("przyjmuje zwrot z recenzją", func(t *testing.T) {
		user := reader("u1")
		user.CurrentBooks = []string{"book-1"}

		cs, err := lending.Return(snapWith(user), "u1", "Świetna lektura", "bez uwag", 4.5)
		require.NoError(t, err)

		assert.Equal(t, models.BookStatusPendingReturn, cs.Book.Status)
		checkBookInvariant(t, cs.Book)

		require.NotNil(t, cs.SetPending)
		assert.Equal(t, models.PendingReasonReturn, cs.SetPending.Reason)
		assert.Equal(t, "u1", cs.SetPending.CreatorID)

		require.NotNil(t, cs.SetReview)
		assert.Equal(t, "u1", cs.SetReview.UID)
		assert.Equal(t, "Solaris", cs.SetReview.Title)
		assert.Equal(t, "Świetna lektura", cs.SetReview.Feedback)
		assert.InDelta(t, 4.5, cs.SetReview.Rating, 0.001)

		assert.NotContains(t, cs.User.CurrentBooks, "book-1")
	})

	t.Run("pusta recenzja jest dopuszczalna", func(t *testing.T) {
		user := reader("u1")
		user.CurrentBooks = []string{"book-1"}

		cs, err := lending.Return(snapWith(user), "u1", "", "", 0)
		require.NoError(t, err)
		assert.NotNil(t, cs.SetReview)
	})

	t.Run("ocena poza zakresem zgłasza ValidationFailed", func(t *testing.T) {
		user := reader("u1")
		user.CurrentBooks = []string{"book-1"}

		for _, rating := range []float64{-0.5, 5.5, 100} {
			_, err := lending.Return(snapWith(user), "u1", "", "", rating)
			assert.ErrorIs(t, err, lending.ErrValidationFailed, "ocena %v", rating)
		}
	})

	t.Run("zwrot książki spoza własnej listy zgłasza NotFound", func(t *testing.T) {
		_, err := lending.Return(snapWith(reader("u1")), "u1", "", "", 3)
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})
}

func TestMarkDamaged(t *testing.T) {
	snap := func() lending.Snapshot {
		return lending.Snapshot{
			Book: bookInStatus(models.BookStatusPendingReturn),
			Pending: &models.PendingReturn{
				BookID:    "book-1",
				CreatorID: "u1",
				Reason:    models.PendingReasonReturn,
			},
			User: reader("u1"),
		}
	}

	t.Run("oznacza zwrot jako uszkodzenie", func(t *testing.T) {
		cs, err := lending.MarkDamaged(snap(), "wyrwane strony", "")
		require.NoError(t, err)

		assert.Equal(t, models.BookStatusAwaitingRepair, cs.Book.Status)
		checkBookInvariant(t, cs.Book)

		require.NotNil(t, cs.SetPending)
		assert.Equal(t, models.PendingReasonDamaged, cs.SetPending.Reason)
		assert.Equal(t, "wyrwane strony", cs.SetPending.Notes)
		assert.Nil(t, cs.User)
	})

	t.Run("adnotacja trafia do rekordu czytelnika", func(t *testing.T) {
		cs, err := lending.MarkDamaged(snap(), "wyrwane strony", "zwrócił uszkodzoną książkę")
		require.NoError(t, err)

		require.NotNil(t, cs.User)
		assert.Equal(t, "zwrócił uszkodzoną książkę", cs.User.Notes)
	})

	t.Run("brak oczekującego zwrotu zgłasza NotFound", func(t *testing.T) {
		_, err := lending.MarkDamaged(lending.Snapshot{Book: availableBook()}, "", "")
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})
}

func TestRepairComplete(t *testing.T) {
	snapIn := func(status models.BookStatus) lending.Snapshot {
		return lending.Snapshot{
			Book: bookInStatus(status),
			Pending: &models.PendingReturn{
				BookID:    "book-1",
				CreatorID: "u1",
				Reason:    models.PendingReasonDamaged,
			},
			User: reader("u1"),
		}
	}

	t.Run("zamyka zwrot i dopisuje historię", func(t *testing.T) {
		for _, status := range []models.BookStatus{
			models.BookStatusPendingReturn,
			models.BookStatusAwaitingRepair,
		} {
			cs, err := lending.RepairComplete(snapIn(status))
			require.NoError(t, err, "stan %s", status)

			assert.Equal(t, models.BookStatusAvailable, cs.Book.Status)
			checkBookInvariant(t, cs.Book)
			assert.True(t, cs.DeletePending)
			assert.Contains(t, cs.User.ReadingHistory, "book-1")
		}
	})

	t.Run("nie duplikuje wpisu w historii", func(t *testing.T) {
		snap := snapIn(models.BookStatusAwaitingRepair)
		snap.User.ReadingHistory = []string{"book-1", "book-7"}

		cs, err := lending.RepairComplete(snap)
		require.NoError(t, err)
		assert.Equal(t, []string{"book-1", "book-7"}, cs.User.ReadingHistory)
	})

	t.Run("brak oczekującego zwrotu zgłasza NotFound", func(t *testing.T) {
		snap := lending.Snapshot{Book: bookInStatus(models.BookStatusAwaitingRepair), User: reader("u1")}

		_, err := lending.RepairComplete(snap)
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})
}

// TestStateDrift sprawdza przejścia na rozjechanych danych: dokument
// towarzyszący istnieje, ale książka jest w innym stanie. Taki konflikt
// musi zostać zgłoszony w taksonomii błędów (NotFound), a nie jako
// awaria bazy.
func TestStateDrift(t *testing.T) {
	t.Run("anulowanie rezerwacji książki poza stanem zarezerwowanym", func(t *testing.T) {
		snap := lending.Snapshot{
			Book:        bookInStatus(models.BookStatusCheckedOut),
			Reservation: &models.Reservation{BookID: "book-1", UID: "u1"},
			User:        reader("u1"),
		}

		_, err := lending.Unreserve(snap, "u1", false)
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})

	t.Run("wydanie książki poza stanem zarezerwowanym", func(t *testing.T) {
		snap := lending.Snapshot{
			Book:        bookInStatus(models.BookStatusAwaitingRepair),
			Reservation: &models.Reservation{BookID: "book-1", UID: "u1"},
			User:        reader("u1"),
		}

		_, err := lending.HandIn(snap)
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})

	t.Run("zwrot książki poza stanem wypożyczonym", func(t *testing.T) {
		user := reader("u1")
		user.CurrentBooks = []string{"book-1"}
		snap := lending.Snapshot{Book: availableBook(), User: user}

		_, err := lending.Return(snap, "u1", "", "", 3)
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})

	t.Run("oznaczenie uszkodzenia książki poza kolejką zwrotów", func(t *testing.T) {
		snap := lending.Snapshot{
			Book:    bookInStatus(models.BookStatusReserved),
			Pending: &models.PendingReturn{BookID: "book-1", CreatorID: "u1"},
			User:    reader("u1"),
		}

		_, err := lending.MarkDamaged(snap, "pęknięty grzbiet", "")
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})

	t.Run("zamknięcie zwrotu książki poza kolejką zwrotów", func(t *testing.T) {
		snap := lending.Snapshot{
			Book:    availableBook(),
			Pending: &models.PendingReturn{BookID: "book-1", CreatorID: "u1"},
			User:    reader("u1"),
		}

		_, err := lending.RepairComplete(snap)
		assert.ErrorIs(t, err, lending.ErrNotFound)
	})
}

// TestFullLifecycle przeprowadza książkę przez cały cykl, aplikując kolejne
// ChangeSety do lokalnego stanu tak, jak robi to warstwa Firestore
func TestFullLifecycle(t *testing.T) {
	book := availableBook()
	user := reader("u1")

	var reservation *models.Reservation
	var pending *models.PendingReturn

	apply := func(cs *lending.ChangeSet) {
		if cs.Book != nil {
			book = cs.Book
		}
		if cs.SetReservation != nil {
			reservation = cs.SetReservation
		}
		if cs.DeleteReservation {
			reservation = nil
		}
		if cs.SetPending != nil {
			pending = cs.SetPending
		}
		if cs.DeletePending {
			pending = nil
		}
		if cs.User != nil {
			user = cs.User
		}
	}

	snap := func() lending.Snapshot {
		return lending.Snapshot{Book: book, Reservation: reservation, Pending: pending, User: user}
	}

	// Rezerwacja
	cs, err := lending.Reserve(snap(), "u1")
	require.NoError(t, err)
	apply(cs)
	assert.Equal(t, models.BookStatusReserved, book.Status)
	require.NotNil(t, reservation)

	// Druga rezerwacja tej samej książki musi się nie powieść
	_, err = lending.Reserve(snap(), "u2")
	assert.ErrorIs(t, err, lending.ErrAlreadyReserved)

	// Wydanie
	cs, err = lending.HandIn(snap())
	require.NoError(t, err)
	apply(cs)
	assert.Equal(t, models.BookStatusCheckedOut, book.Status)
	assert.Nil(t, reservation)
	assert.Contains(t, user.CurrentBooks, "book-1")

	// Zwrot z recenzją
	cs, err = lending.Return(snap(), "u1", "dobra", "", 5)
	require.NoError(t, err)
	apply(cs)
	assert.Equal(t, models.BookStatusPendingReturn, book.Status)
	require.NotNil(t, pending)

	// Uszkodzenie
	cs, err = lending.MarkDamaged(snap(), "plama na okładce", "")
	require.NoError(t, err)
	apply(cs)
	assert.Equal(t, models.BookStatusAwaitingRepair, book.Status)
	assert.Equal(t, models.PendingReasonDamaged, pending.Reason)

	// Naprawa zakończona
	cs, err = lending.RepairComplete(snap())
	require.NoError(t, err)
	apply(cs)
	assert.Equal(t, models.BookStatusAvailable, book.Status)
	assert.Nil(t, pending)
	assert.Contains(t, user.ReadingHistory, "book-1")
	checkBookInvariant(t, book)

	// Po pełnym cyklu książkę można zarezerwować ponownie
	cs, err = lending.Reserve(snap(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.BookStatusReserved, cs.Book.Status)
}
