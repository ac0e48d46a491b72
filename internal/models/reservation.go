package models

import "time"

// Reservation reprezentuje aktywną rezerwację książki.
// Identyfikatorem dokumentu jest BookID - dla jednej książki może istnieć
// co najwyżej jedna aktywna rezerwacja.
type Reservation struct {
	BookID string `json:"book_id" firestore:"book_id"`
	UID    string `json:"uid" firestore:"uid"`
	// Title to zdenormalizowana kopia tytułu na potrzeby listy oczekujących
	Title      string    `json:"title" firestore:"title"`
	ReservedAt time.Time `json:"reserved_at" firestore:"reserved_at"`
}

// IsOwnedBy sprawdza czy rezerwacja należy do danego użytkownika
func (r *Reservation) IsOwnedBy(uid string) bool {
	return r.UID == uid
}
