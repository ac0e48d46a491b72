package firebase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"reading-room-library/internal/lending"
	"reading-room-library/internal/models"
)

// Przejścia cyklu wypożyczenia. Każde przejście to jedna transakcja
// Firestore: odczyt migawki, czysta funkcja z pakietu lending, zapis
// kompletu zmian. Firestore szereguje konfliktujące transakcje i przy
// konflikcie ponawia je od odczytu, więc warunki wstępne są zawsze
// sprawdzane na aktualnym stanie - z dwóch równoczesnych rezerwacji tej
// samej książki powiedzie się co najwyżej jedna.

// Reserve rezerwuje książkę dla czytelnika
func (c *Client) Reserve(bookID, uid string) error {
	err := c.Firestore.RunTransaction(c.ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := c.readSnapshot(tx, bookID, uid)
		if err != nil {
			return err
		}

		cs, err := lending.Reserve(snap, uid)
		if err != nil {
			return err
		}

		return c.applyChangeSet(tx, bookID, cs)
	})
	if err != nil {
		return wrapLendingErr("rezerwacja", bookID, err)
	}

	log.Printf("Zarezerwowano książkę %s dla użytkownika %s", bookID, uid)
	return nil
}

// Unreserve anuluje rezerwację książki. Administrator może anulować
// cudzą rezerwację.
func (c *Client) Unreserve(bookID, actingUID string, isAdmin bool) error {
	err := c.Firestore.RunTransaction(c.ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := c.readSnapshot(tx, bookID, "")
		if err != nil {
			return err
		}

		// Listy modyfikujemy u właściciela rezerwacji, nie u wykonującego
		if snap.Reservation != nil {
			snap.User, err = c.readUserRecord(tx, snap.Reservation.UID)
			if err != nil {
				return err
			}
		}

		cs, err := lending.Unreserve(snap, actingUID, isAdmin)
		if err != nil {
			return err
		}

		return c.applyChangeSet(tx, bookID, cs)
	})
	if err != nil {
		return wrapLendingErr("anulowanie rezerwacji", bookID, err)
	}

	log.Printf("Anulowano rezerwację książki %s", bookID)
	return nil
}

// HandIn wydaje zarezerwowaną książkę czytelnikowi (operacja bibliotekarza)
func (c *Client) HandIn(bookID string) error {
	err := c.Firestore.RunTransaction(c.ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := c.readSnapshot(tx, bookID, "")
		if err != nil {
			return err
		}

		if snap.Reservation != nil {
			snap.User, err = c.readUserRecord(tx, snap.Reservation.UID)
			if err != nil {
				return err
			}
		}

		cs, err := lending.HandIn(snap)
		if err != nil {
			return err
		}

		return c.applyChangeSet(tx, bookID, cs)
	})
	if err != nil {
		return wrapLendingErr("wydanie książki", bookID, err)
	}

	log.Printf("Wydano książkę %s czytelnikowi", bookID)
	return nil
}

// Return przyjmuje zwrot książki od czytelnika wraz z recenzją
func (c *Client) Return(bookID, uid, feedback, notes string, rating float64) error {
	err := c.Firestore.RunTransaction(c.ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := c.readSnapshot(tx, bookID, uid)
		if err != nil {
			return err
		}

		cs, err := lending.Return(snap, uid, feedback, notes, rating)
		if err != nil {
			return err
		}

		return c.applyChangeSet(tx, bookID, cs)
	})
	if err != nil {
		return wrapLendingErr("zwrot książki", bookID, err)
	}

	log.Printf("Przyjęto zwrot książki %s od użytkownika %s", bookID, uid)
	return nil
}

// MarkDamaged oznacza oczekujący zwrot jako uszkodzenie; opcjonalna
// adnotacja trafia do rekordu zwracającego czytelnika
func (c *Client) MarkDamaged(bookID, notes, userNote string) error {
	err := c.Firestore.RunTransaction(c.ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := c.readSnapshot(tx, bookID, "")
		if err != nil {
			return err
		}

		if snap.Pending != nil {
			snap.User, err = c.readUserRecord(tx, snap.Pending.CreatorID)
			if err != nil {
				return err
			}
		}

		cs, err := lending.MarkDamaged(snap, notes, userNote)
		if err != nil {
			return err
		}

		return c.applyChangeSet(tx, bookID, cs)
	})
	if err != nil {
		return wrapLendingErr("oznaczenie uszkodzenia", bookID, err)
	}

	log.Printf("Oznaczono książkę %s jako uszkodzoną", bookID)
	return nil
}

// RepairComplete kończy obsługę zwrotu i przywraca książkę do katalogu
func (c *Client) RepairComplete(bookID string) error {
	err := c.Firestore.RunTransaction(c.ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := c.readSnapshot(tx, bookID, "")
		if err != nil {
			return err
		}

		if snap.Pending != nil {
			snap.User, err = c.readUserRecord(tx, snap.Pending.CreatorID)
			if err != nil {
				return err
			}
		}

		cs, err := lending.RepairComplete(snap)
		if err != nil {
			return err
		}

		return c.applyChangeSet(tx, bookID, cs)
	})
	if err != nil {
		return wrapLendingErr("przywrócenie książki", bookID, err)
	}

	log.Printf("Książka %s wróciła do katalogu", bookID)
	return nil
}

// readSnapshot odczytuje wewnątrz transakcji komplet dokumentów dla
// książki: rekord książki, rezerwację, oczekujący zwrot oraz (jeśli
// podano uid) rekord czytelnika. Wszystkie odczyty muszą nastąpić przed
// zapisami - wymóg transakcji Firestore.
func (c *Client) readSnapshot(tx *firestore.Transaction, bookID, uid string) (lending.Snapshot, error) {
	var snap lending.Snapshot

	bookDoc, err := tx.Get(c.Firestore.Collection(BooksCollection).Doc(bookID))
	if err != nil && !isNotFound(err) {
		return snap, fmt.Errorf("błąd odczytu książki: %w", err)
	}
	if err == nil {
		var book models.Book
		if err := bookDoc.DataTo(&book); err != nil {
			return snap, fmt.Errorf("błąd parsowania książki: %w", err)
		}
		book.ID = bookDoc.Ref.ID
		book.Normalize()
		snap.Book = &book
	}

	resDoc, err := tx.Get(c.Firestore.Collection(ReservationsCollection).Doc(bookID))
	if err != nil && !isNotFound(err) {
		return snap, fmt.Errorf("błąd odczytu rezerwacji: %w", err)
	}
	if err == nil {
		var reservation models.Reservation
		if err := resDoc.DataTo(&reservation); err != nil {
			return snap, fmt.Errorf("błąd parsowania rezerwacji: %w", err)
		}
		snap.Reservation = &reservation
	}

	pendingDoc, err := tx.Get(c.Firestore.Collection(PendingCollection).Doc(bookID))
	if err != nil && !isNotFound(err) {
		return snap, fmt.Errorf("błąd odczytu oczekującego zwrotu: %w", err)
	}
	if err == nil {
		var pending models.PendingReturn
		if err := pendingDoc.DataTo(&pending); err != nil {
			return snap, fmt.Errorf("błąd parsowania oczekującego zwrotu: %w", err)
		}
		snap.Pending = &pending
	}

	if uid != "" {
		snap.User, err = c.readUserRecord(tx, uid)
		if err != nil {
			return snap, err
		}
	}

	return snap, nil
}

// readUserRecord odczytuje rekord czytelnika wewnątrz transakcji.
// Zwraca nil gdy rekord nie istnieje.
func (c *Client) readUserRecord(tx *firestore.Transaction, uid string) (*models.UserRecord, error) {
	doc, err := tx.Get(c.Firestore.Collection(UsersCollection).Doc(uid))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("błąd odczytu użytkownika: %w", err)
	}

	var user models.UserRecord
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("błąd parsowania użytkownika: %w", err)
	}

	user.UID = doc.Ref.ID
	return &user, nil
}

// applyChangeSet zapisuje komplet zmian jednego przejścia w ramach
// transakcji
func (c *Client) applyChangeSet(tx *firestore.Transaction, bookID string, cs *lending.ChangeSet) error {
	if cs.Book != nil {
		if err := tx.Set(c.Firestore.Collection(BooksCollection).Doc(bookID), cs.Book); err != nil {
			return fmt.Errorf("błąd zapisu książki: %w", err)
		}
	}

	if cs.SetReservation != nil {
		if err := tx.Set(c.Firestore.Collection(ReservationsCollection).Doc(bookID), cs.SetReservation); err != nil {
			return fmt.Errorf("błąd zapisu rezerwacji: %w", err)
		}
	}
	if cs.DeleteReservation {
		if err := tx.Delete(c.Firestore.Collection(ReservationsCollection).Doc(bookID)); err != nil {
			return fmt.Errorf("błąd usuwania rezerwacji: %w", err)
		}
	}

	if cs.SetPending != nil {
		if err := tx.Set(c.Firestore.Collection(PendingCollection).Doc(bookID), cs.SetPending); err != nil {
			return fmt.Errorf("błąd zapisu oczekującego zwrotu: %w", err)
		}
	}
	if cs.DeletePending {
		if err := tx.Delete(c.Firestore.Collection(PendingCollection).Doc(bookID)); err != nil {
			return fmt.Errorf("błąd usuwania oczekującego zwrotu: %w", err)
		}
	}

	if cs.SetReview != nil {
		if err := tx.Set(c.Firestore.Collection(ReviewsCollection).Doc(bookID), cs.SetReview); err != nil {
			return fmt.Errorf("błąd zapisu recenzji: %w", err)
		}
	}

	if cs.User != nil {
		if err := tx.Set(c.Firestore.Collection(UsersCollection).Doc(cs.User.UID), cs.User); err != nil {
			return fmt.Errorf("błąd zapisu użytkownika: %w", err)
		}
	}

	return nil
}

// wrapLendingErr zachowuje błędy taksonomii koordynatora, a pozostałe
// (sieć, baza) opakowuje jako niedostępność zdalnego magazynu
func wrapLendingErr(op, bookID string, err error) error {
	if errors.Is(err, lending.ErrAlreadyReserved) ||
		errors.Is(err, lending.ErrNotFound) ||
		errors.Is(err, lending.ErrUnauthorized) ||
		errors.Is(err, lending.ErrValidationFailed) {
		return fmt.Errorf("%s książki %s: %w", op, bookID, err)
	}
	return fmt.Errorf("%s książki %s: %w: %v", op, bookID, lending.ErrRemoteUnavailable, err)
}

// isNotFound sprawdza czy błąd Firestore oznacza brak dokumentu
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
