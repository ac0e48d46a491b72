package firebase

import (
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"reading-room-library/internal/models"
)

const (
	// ReservationsCollection to nazwa kolekcji aktywnych rezerwacji.
	// Identyfikatorem dokumentu jest ID książki, więc jedna książka może
	// mieć co najwyżej jedną aktywną rezerwację.
	ReservationsCollection = "reserve"
)

// ListReservations pobiera wszystkie aktywne rezerwacje, najstarsze
// pierwsze (kolejność listy oczekujących)
func (c *Client) ListReservations() ([]*models.Reservation, error) {
	var reservations []*models.Reservation

	iter := c.Firestore.Collection(ReservationsCollection).
		OrderBy("reserved_at", firestore.Asc).
		Documents(c.ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("błąd iteracji po rezerwacjach: %w", err)
		}

		var reservation models.Reservation
		if err := doc.DataTo(&reservation); err != nil {
			return nil, fmt.Errorf("błąd parsowania rezerwacji: %w", err)
		}

		reservations = append(reservations, &reservation)
	}

	return reservations, nil
}
