package models

import "time"

// UserRecord reprezentuje konto czytelnika. Identyfikatorem dokumentu
// jest UID z Firebase Auth.
type UserRecord struct {
	UID       string    `json:"uid" firestore:"uid"`
	Nickname  string    `json:"nickname" firestore:"nickname"`
	Email     string    `json:"email" firestore:"email"`
	Avatar    string    `json:"avatar" firestore:"avatar"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`

	// Listy identyfikatorów książek - modyfikowane wyłącznie przez
	// koordynatora wypożyczeń (poza Wishlist)
	ReservedBooks  []string `json:"reserved_books" firestore:"reserved_books"`
	CurrentBooks   []string `json:"current_books" firestore:"current_books"`
	Wishlist       []string `json:"wishlist" firestore:"wishlist"`
	ReadingHistory []string `json:"reading_history" firestore:"reading_history"`

	// Notes to adnotacja bibliotekarza (np. raport o uszkodzeniu)
	Notes               string    `json:"notes" firestore:"notes"`
	AllowedToUseLibrary bool      `json:"allowed_to_use_library" firestore:"allowed_to_use_library"`
	LastSession         time.Time `json:"last_session" firestore:"last_session"`
}

// HasReserved sprawdza czy użytkownik ma zarezerwowaną daną książkę
func (u *UserRecord) HasReserved(bookID string) bool {
	return containsID(u.ReservedBooks, bookID)
}

// HasCurrent sprawdza czy użytkownik ma wypożyczoną daną książkę
func (u *UserRecord) HasCurrent(bookID string) bool {
	return containsID(u.CurrentBooks, bookID)
}

// HasInWishlist sprawdza czy książka jest na liście życzeń
func (u *UserRecord) HasInWishlist(bookID string) bool {
	return containsID(u.Wishlist, bookID)
}

// RemoveReserved usuwa książkę z listy rezerwacji
func (u *UserRecord) RemoveReserved(bookID string) {
	u.ReservedBooks = removeID(u.ReservedBooks, bookID)
}

// RemoveCurrent usuwa książkę z listy wypożyczonych
func (u *UserRecord) RemoveCurrent(bookID string) {
	u.CurrentBooks = removeID(u.CurrentBooks, bookID)
}

// RemoveFromWishlist usuwa książkę z listy życzeń
func (u *UserRecord) RemoveFromWishlist(bookID string) {
	u.Wishlist = removeID(u.Wishlist, bookID)
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	result := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			result = append(result, existing)
		}
	}
	return result
}
