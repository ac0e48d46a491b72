package firebase

import (
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"reading-room-library/internal/lending"
	"reading-room-library/internal/models"
)

const (
	// ReviewsCollection to nazwa kolekcji recenzji zostawianych przy
	// zwrocie. Identyfikatorem dokumentu jest ID książki, więc ponowny
	// zwrot tej samej książki nadpisuje poprzednią recenzję.
	ReviewsCollection = "booksReviewUsers"
)

// GetUserReviews pobiera recenzje danego czytelnika (jego historię czytania)
func (c *Client) GetUserReviews(uid string) ([]*models.Review, error) {
	if uid == "" {
		return nil, fmt.Errorf("UID użytkownika nie może być pusty")
	}

	var reviews []*models.Review

	iter := c.Firestore.Collection(ReviewsCollection).
		Where("uid", "==", uid).
		Documents(c.ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("błąd iteracji po recenzjach: %w", err)
		}

		var review models.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, fmt.Errorf("błąd parsowania recenzji: %w", err)
		}

		reviews = append(reviews, &review)
	}

	return reviews, nil
}

// UpdateReview aktualizuje treść recenzji. Czytelnik może edytować tylko
// własną recenzję; ocena jest ponownie walidowana.
func (c *Client) UpdateReview(bookID, uid, feedback, notes string, rating float64) error {
	if bookID == "" {
		return fmt.Errorf("ID książki nie może być puste")
	}
	if err := models.ValidateRating(rating); err != nil {
		return fmt.Errorf("%w: %v", lending.ErrValidationFailed, err)
	}

	docRef := c.Firestore.Collection(ReviewsCollection).Doc(bookID)

	doc, err := docRef.Get(c.ctx)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: recenzja książki %s", lending.ErrNotFound, bookID)
		}
		return fmt.Errorf("błąd pobierania recenzji: %w", err)
	}

	var review models.Review
	if err := doc.DataTo(&review); err != nil {
		return fmt.Errorf("błąd parsowania recenzji: %w", err)
	}

	if review.UID != uid {
		return fmt.Errorf("%w: recenzja należy do innego użytkownika", lending.ErrUnauthorized)
	}

	_, err = docRef.Update(c.ctx, []firestore.Update{
		{Path: "feedback", Value: feedback},
		{Path: "notes", Value: notes},
		{Path: "rating", Value: rating},
	})
	if err != nil {
		return fmt.Errorf("błąd aktualizacji recenzji: %w", err)
	}

	return nil
}
