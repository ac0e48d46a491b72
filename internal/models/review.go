package models

import (
	"fmt"
	"time"
)

// Review reprezentuje recenzję pozostawioną przy zwrocie książki.
// Identyfikatorem dokumentu jest BookID, więc ponowne wypożyczenie tej
// samej książki nadpisuje poprzednią recenzję.
type Review struct {
	BookID    string    `json:"book_id" firestore:"book_id"`
	UID       string    `json:"uid" firestore:"uid"`
	Title     string    `json:"title" firestore:"title"`
	Author    string    `json:"author" firestore:"author"`
	Feedback  string    `json:"feedback" firestore:"feedback"`
	Notes     string    `json:"notes" firestore:"notes"`
	Rating    float64   `json:"rating" firestore:"rating"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

// ValidateRating sprawdza czy ocena mieści się w dozwolonym zakresie 0-5
func ValidateRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("ocena musi być w zakresie 0-5, otrzymano %.1f", rating)
	}
	return nil
}
