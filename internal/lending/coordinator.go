// Package lending implementuje koordynatora wypożyczeń: maszynę stanów
// książki oraz przejścia cyklu rezerwacja -> wydanie -> zwrot -> naprawa.
//
// Każde przejście jest czystą funkcją Snapshot -> ChangeSet. Warstwa
// Firestore odczytuje migawkę wewnątrz transakcji, wywołuje funkcję
// przejścia i zapisuje wynikowy ChangeSet jako jeden atomowy commit.
// Dzięki temu żaden wywołujący nie może wykonać częściowej aktualizacji,
// a warunki wstępne są sprawdzane ponownie przy konflikcie transakcji.
package lending

import (
	"fmt"
	"time"

	"reading-room-library/internal/models"
)

// Snapshot to spójny odczyt rekordów, których dotyczy przejście.
// Pola Reservation i Pending są nil, gdy odpowiedni dokument nie istnieje.
type Snapshot struct {
	Book        *models.Book
	Reservation *models.Reservation
	Pending     *models.PendingReturn
	// User to rekord czytelnika, którego listy modyfikuje przejście
	// (rezerwujący, zwracający albo właściciel rezerwacji)
	User *models.UserRecord
}

// ChangeSet opisuje komplet zapisów jednego przejścia. Wszystkie wpisy
// muszą zostać zastosowane w jednej transakcji - albo żaden.
type ChangeSet struct {
	Book *models.Book

	SetReservation    *models.Reservation
	DeleteReservation bool

	SetPending    *models.PendingReturn
	DeletePending bool

	SetReview *models.Review

	User *models.UserRecord
}

// Reserve rezerwuje dostępną książkę dla czytelnika
func Reserve(snap Snapshot, uid string) (*ChangeSet, error) {
	if snap.Book == nil {
		return nil, fmt.Errorf("%w: książka nie istnieje", ErrNotFound)
	}
	if snap.User == nil {
		return nil, fmt.Errorf("%w: użytkownik %s nie istnieje", ErrNotFound, uid)
	}
	if !snap.User.AllowedToUseLibrary {
		return nil, fmt.Errorf("%w: konto ma zablokowany dostęp do czytelni", ErrUnauthorized)
	}
	if snap.Reservation != nil || !CanApply(snap.Book.Status, TransitionReserve) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyReserved, snap.Book.ID)
	}

	book := *snap.Book
	book.SetStatus(models.BookStatusReserved)
	book.UpdatedAt = time.Now()

	user := cloneUser(snap.User)
	user.ReservedBooks = append(user.ReservedBooks, book.ID)

	return &ChangeSet{
		Book: &book,
		SetReservation: &models.Reservation{
			BookID:     book.ID,
			UID:        uid,
			Title:      book.Title,
			ReservedAt: time.Now(),
		},
		User: user,
	}, nil
}

// Unreserve anuluje rezerwację. Czytelnik może anulować tylko własną
// rezerwację; administrator dowolną.
func Unreserve(snap Snapshot, actingUID string, isAdmin bool) (*ChangeSet, error) {
	if snap.Book == nil || snap.Reservation == nil {
		return nil, fmt.Errorf("%w: brak rezerwacji dla książki", ErrNotFound)
	}
	if !isAdmin && !snap.Reservation.IsOwnedBy(actingUID) {
		return nil, fmt.Errorf("%w: rezerwacja należy do innego użytkownika", ErrUnauthorized)
	}
	if snap.User == nil {
		return nil, fmt.Errorf("%w: właściciel rezerwacji nie istnieje", ErrNotFound)
	}
	if !CanApply(snap.Book.Status, TransitionUnreserve) {
		return nil, fmt.Errorf("%w: książka %s nie jest w stanie zarezerwowanym (%s)", ErrNotFound, snap.Book.ID, snap.Book.Status)
	}

	book := *snap.Book
	book.SetStatus(models.BookStatusAvailable)
	book.UpdatedAt = time.Now()

	user := cloneUser(snap.User)
	user.RemoveReserved(book.ID)

	return &ChangeSet{
		Book:              &book,
		DeleteReservation: true,
		User:              user,
	}, nil
}

// HandIn wydaje fizyczną książkę rezerwującemu czytelnikowi
// (operacja bibliotekarza)
func HandIn(snap Snapshot) (*ChangeSet, error) {
	if snap.Book == nil || snap.Reservation == nil {
		return nil, fmt.Errorf("%w: brak rezerwacji dla książki", ErrNotFound)
	}
	if snap.User == nil {
		return nil, fmt.Errorf("%w: właściciel rezerwacji nie istnieje", ErrNotFound)
	}
	if !CanApply(snap.Book.Status, TransitionHandIn) {
		return nil, fmt.Errorf("%w: książka %s nie jest w stanie zarezerwowanym (%s)", ErrNotFound, snap.Book.ID, snap.Book.Status)
	}

	book := *snap.Book
	book.SetStatus(models.BookStatusCheckedOut)
	book.UpdatedAt = time.Now()

	user := cloneUser(snap.User)
	user.RemoveReserved(book.ID)
	user.CurrentBooks = append(user.CurrentBooks, book.ID)

	return &ChangeSet{
		Book:              &book,
		DeleteReservation: true,
		User:              user,
	}, nil
}

// Return przyjmuje zwrot od czytelnika: książka trafia do kolejki
// oczekujących zwrotów, a recenzja do historii czytania. Puste feedback
// i notes są dopuszczalne; ocena musi mieścić się w zakresie 0-5.
func Return(snap Snapshot, uid, feedback, notes string, rating float64) (*ChangeSet, error) {
	if err := models.ValidateRating(rating); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if snap.Book == nil {
		return nil, fmt.Errorf("%w: książka nie istnieje", ErrNotFound)
	}
	if snap.User == nil {
		return nil, fmt.Errorf("%w: użytkownik %s nie istnieje", ErrNotFound, uid)
	}
	if !snap.User.HasCurrent(snap.Book.ID) {
		return nil, fmt.Errorf("%w: książka nie jest wypożyczona przez tego użytkownika", ErrNotFound)
	}
	if !CanApply(snap.Book.Status, TransitionReturn) {
		return nil, fmt.Errorf("%w: książka %s nie jest w stanie wypożyczonym (%s)", ErrNotFound, snap.Book.ID, snap.Book.Status)
	}

	now := time.Now()

	book := *snap.Book
	book.SetStatus(models.BookStatusPendingReturn)
	book.UpdatedAt = now

	user := cloneUser(snap.User)
	user.RemoveCurrent(book.ID)

	return &ChangeSet{
		Book: &book,
		SetPending: &models.PendingReturn{
			BookID:    book.ID,
			CreatorID: uid,
			Reason:    models.PendingReasonReturn,
			Notes:     notes,
			CreatedAt: now,
		},
		SetReview: &models.Review{
			BookID:    book.ID,
			UID:       uid,
			Title:     book.Title,
			Author:    book.Author,
			Feedback:  feedback,
			Notes:     notes,
			Rating:    rating,
			CreatedAt: now,
		},
		User: user,
	}, nil
}

// MarkDamaged oznacza oczekujący zwrot jako uszkodzenie (operacja
// bibliotekarza). Opcjonalna adnotacja userNote trafia do rekordu
// zwracającego czytelnika.
func MarkDamaged(snap Snapshot, notes, userNote string) (*ChangeSet, error) {
	if snap.Book == nil || snap.Pending == nil {
		return nil, fmt.Errorf("%w: brak oczekującego zwrotu dla książki", ErrNotFound)
	}
	if !CanApply(snap.Book.Status, TransitionMarkDamaged) {
		return nil, fmt.Errorf("%w: książka %s nie czeka na decyzję (%s)", ErrNotFound, snap.Book.ID, snap.Book.Status)
	}

	book := *snap.Book
	book.SetStatus(models.BookStatusAwaitingRepair)
	book.UpdatedAt = time.Now()

	pending := *snap.Pending
	pending.Reason = models.PendingReasonDamaged
	pending.Notes = notes
	pending.CreatedAt = time.Now()

	cs := &ChangeSet{
		Book:       &book,
		SetPending: &pending,
	}

	if userNote != "" {
		if snap.User == nil {
			return nil, fmt.Errorf("%w: zwracający użytkownik nie istnieje", ErrNotFound)
		}
		user := cloneUser(snap.User)
		user.Notes = userNote
		cs.User = user
	}

	return cs, nil
}

// RepairComplete kończy obsługę zwrotu: bibliotekarz przyjął książkę bez
// zastrzeżeń albo zakończył naprawę. Książka wraca do katalogu, a wpis
// trafia do historii czytania zwracającego.
func RepairComplete(snap Snapshot) (*ChangeSet, error) {
	if snap.Book == nil || snap.Pending == nil {
		return nil, fmt.Errorf("%w: brak oczekującego zwrotu dla książki", ErrNotFound)
	}
	if snap.User == nil {
		return nil, fmt.Errorf("%w: zwracający użytkownik nie istnieje", ErrNotFound)
	}
	if !CanApply(snap.Book.Status, TransitionRepairComplete) {
		return nil, fmt.Errorf("%w: książka %s nie czeka na decyzję (%s)", ErrNotFound, snap.Book.ID, snap.Book.Status)
	}

	book := *snap.Book
	book.SetStatus(models.BookStatusAvailable)
	book.UpdatedAt = time.Now()

	user := cloneUser(snap.User)
	if !containsBookID(user.ReadingHistory, book.ID) {
		user.ReadingHistory = append(user.ReadingHistory, book.ID)
	}

	return &ChangeSet{
		Book:          &book,
		DeletePending: true,
		User:          user,
	}, nil
}

// cloneUser kopiuje rekord użytkownika wraz z listami, żeby przejścia nie
// modyfikowały migawki wejściowej
func cloneUser(u *models.UserRecord) *models.UserRecord {
	clone := *u
	clone.ReservedBooks = append([]string(nil), u.ReservedBooks...)
	clone.CurrentBooks = append([]string(nil), u.CurrentBooks...)
	clone.Wishlist = append([]string(nil), u.Wishlist...)
	clone.ReadingHistory = append([]string(nil), u.ReadingHistory...)
	return &clone
}

func containsBookID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
