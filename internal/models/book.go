package models

import "time"

// BookStatus określa stan książki w cyklu wypożyczenia
type BookStatus string

const (
	BookStatusAvailable      BookStatus = "available"       // Dostępna do rezerwacji
	BookStatusReserved       BookStatus = "reserved"        // Zarezerwowana, czeka na wydanie
	BookStatusCheckedOut     BookStatus = "checked_out"     // Wypożyczona (u czytelnika)
	BookStatusPendingReturn  BookStatus = "pending_return"  // Zwrócona, czeka na decyzję bibliotekarza
	BookStatusAwaitingRepair BookStatus = "awaiting_repair" // Uszkodzona, czeka na naprawę
)

// Book reprezentuje książkę w katalogu czytelni
type Book struct {
	ID        string     `json:"id" firestore:"id"`
	Title     string     `json:"title" firestore:"title"`
	Author    string     `json:"author" firestore:"author"`
	Genres    []string   `json:"genres" firestore:"genres"`
	Year      int        `json:"year" firestore:"year"`
	Publisher string     `json:"publisher" firestore:"publisher"`
	Language  string     `json:"language" firestore:"language"`
	Status    BookStatus `json:"status" firestore:"status"`
	// Availability to historyczne pole bool, trzymane w zgodzie ze Status
	// (true wyłącznie gdy Status == available)
	Availability bool      `json:"availability" firestore:"availability"`
	CreatedAt    time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updated_at"`
}

// IsAvailable sprawdza czy książka jest dostępna do rezerwacji
func (b *Book) IsAvailable() bool {
	return b.Status == BookStatusAvailable
}

// SetStatus ustawia stan książki i synchronizuje pole Availability
func (b *Book) SetStatus(status BookStatus) {
	b.Status = status
	b.Availability = status == BookStatusAvailable
}

// Normalize uzupełnia stan w starych rekordach, które mają tylko pole Availability
func (b *Book) Normalize() {
	if b.Status == "" {
		if b.Availability {
			b.Status = BookStatusAvailable
		} else {
			b.Status = BookStatusReserved
		}
	}
	b.Availability = b.Status == BookStatusAvailable
}

// AvailabilityLabel zwraca tekstową etykietę dostępności do wyszukiwania i wyświetlania
func (b *Book) AvailabilityLabel() string {
	if b.IsAvailable() {
		return "available"
	}
	return "unavailable"
}
