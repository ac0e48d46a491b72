package firebase

import (
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"reading-room-library/internal/models"
)

const (
	// PendingCollection to nazwa kolekcji zwrotów oczekujących na decyzję
	// bibliotekarza. Identyfikatorem dokumentu jest ID książki.
	PendingCollection = "pending"
)

// ListPendingReturns pobiera wszystkie oczekujące zwroty, najstarsze pierwsze
func (c *Client) ListPendingReturns() ([]*models.PendingReturn, error) {
	var pendings []*models.PendingReturn

	iter := c.Firestore.Collection(PendingCollection).
		OrderBy("created_at", firestore.Asc).
		Documents(c.ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("błąd iteracji po oczekujących zwrotach: %w", err)
		}

		var pending models.PendingReturn
		if err := doc.DataTo(&pending); err != nil {
			return nil, fmt.Errorf("błąd parsowania oczekującego zwrotu: %w", err)
		}

		pendings = append(pendings, &pending)
	}

	return pendings, nil
}

// ListDamagedBooks pobiera zwroty oznaczone jako uszkodzenie (widok
// strony napraw)
func (c *Client) ListDamagedBooks() ([]*models.PendingReturn, error) {
	var pendings []*models.PendingReturn

	iter := c.Firestore.Collection(PendingCollection).
		Where("reason", "==", string(models.PendingReasonDamaged)).
		Documents(c.ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("błąd iteracji po uszkodzonych książkach: %w", err)
		}

		var pending models.PendingReturn
		if err := doc.DataTo(&pending); err != nil {
			return nil, fmt.Errorf("błąd parsowania oczekującego zwrotu: %w", err)
		}

		pendings = append(pendings, &pending)
	}

	return pendings, nil
}
