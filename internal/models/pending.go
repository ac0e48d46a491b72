package models

import "time"

// PendingReason określa powód, dla którego książka czeka na decyzję bibliotekarza
type PendingReason string

const (
	PendingReasonReturn  PendingReason = "return"  // Zwykły zwrot
	PendingReasonDamaged PendingReason = "damaged" // Zgłoszone uszkodzenie
)

// PendingReturn reprezentuje zwróconą książkę oczekującą na decyzję
// bibliotekarza (przyjęcie albo naprawa). Identyfikatorem dokumentu jest
// BookID - jedna książka może czekać co najwyżej raz.
type PendingReturn struct {
	BookID string `json:"book_id" firestore:"book_id"`
	// CreatorID to UID czytelnika, który zwrócił książkę
	CreatorID string        `json:"creator_id" firestore:"creator_id"`
	Reason    PendingReason `json:"reason" firestore:"reason"`
	Notes     string        `json:"notes" firestore:"notes"`
	CreatedAt time.Time     `json:"created_at" firestore:"created_at"`
}

// IsDamaged sprawdza czy zwrot został oznaczony jako uszkodzenie
func (p *PendingReturn) IsDamaged() bool {
	return p.Reason == PendingReasonDamaged
}
