package firebase

import (
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"reading-room-library/internal/models"
)

const (
	// UsersCollection to nazwa kolekcji czytelników. Identyfikatorem
	// dokumentu jest UID z Firebase Auth.
	UsersCollection = "users"
)

// GetUserRecord pobiera rekord czytelnika po UID
func (c *Client) GetUserRecord(uid string) (*models.UserRecord, error) {
	if uid == "" {
		return nil, fmt.Errorf("UID użytkownika nie może być pusty")
	}

	doc, err := c.Firestore.Collection(UsersCollection).Doc(uid).Get(c.ctx)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania użytkownika: %w", err)
	}

	var user models.UserRecord
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("błąd parsowania danych użytkownika: %w", err)
	}

	user.UID = doc.Ref.ID
	return &user, nil
}

// CreateUserRecord tworzy rekord czytelnika przy rejestracji
func (c *Client) CreateUserRecord(user *models.UserRecord) error {
	if user == nil {
		return fmt.Errorf("użytkownik nie może być nil")
	}

	// Walidacja
	if user.UID == "" {
		return fmt.Errorf("UID użytkownika jest wymagany")
	}
	if user.Email == "" {
		return fmt.Errorf("email jest wymagany")
	}

	// Domyślne wartości
	user.CreatedAt = time.Now()
	user.AllowedToUseLibrary = true
	if user.Avatar == "" {
		user.Avatar = "avatar1"
	}
	if user.ReservedBooks == nil {
		user.ReservedBooks = []string{}
	}
	if user.CurrentBooks == nil {
		user.CurrentBooks = []string{}
	}
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}
	if user.ReadingHistory == nil {
		user.ReadingHistory = []string{}
	}

	_, err := c.Firestore.Collection(UsersCollection).Doc(user.UID).Set(c.ctx, user)
	if err != nil {
		return fmt.Errorf("błąd zapisywania użytkownika: %w", err)
	}

	return nil
}

// UpdateProfile aktualizuje pola profilu edytowalne przez samego
// czytelnika (pseudonim i awatar)
func (c *Client) UpdateProfile(uid, nickname, avatar string) error {
	if uid == "" {
		return fmt.Errorf("UID użytkownika nie może być pusty")
	}
	if nickname == "" {
		return fmt.Errorf("pseudonim nie może być pusty")
	}

	_, err := c.Firestore.Collection(UsersCollection).Doc(uid).Update(c.ctx, []firestore.Update{
		{Path: "nickname", Value: nickname},
		{Path: "avatar", Value: avatar},
	})
	if err != nil {
		return fmt.Errorf("błąd aktualizacji profilu: %w", err)
	}

	return nil
}

// UpdateUserByStaff aktualizuje pola dostępne dla bibliotekarza:
// pseudonim, adnotację i dostęp do czytelni
func (c *Client) UpdateUserByStaff(uid, nickname, notes string, allowed bool) error {
	if uid == "" {
		return fmt.Errorf("UID użytkownika nie może być pusty")
	}

	_, err := c.Firestore.Collection(UsersCollection).Doc(uid).Update(c.ctx, []firestore.Update{
		{Path: "nickname", Value: nickname},
		{Path: "notes", Value: notes},
		{Path: "allowed_to_use_library", Value: allowed},
	})
	if err != nil {
		return fmt.Errorf("błąd aktualizacji użytkownika: %w", err)
	}

	return nil
}

// TouchLastSession zapisuje moment ostatniego logowania
func (c *Client) TouchLastSession(uid string) error {
	_, err := c.Firestore.Collection(UsersCollection).Doc(uid).Update(c.ctx, []firestore.Update{
		{Path: "last_session", Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("błąd zapisu ostatniej sesji: %w", err)
	}
	return nil
}

// ListUserRecords pobiera wszystkich czytelników posortowanych rosnąco po
// wskazanym polu (domyślnie po UID)
func (c *Client) ListUserRecords(sortBy string) ([]*models.UserRecord, error) {
	switch sortBy {
	case "uid", "nickname", "email":
	default:
		sortBy = "uid"
	}

	var users []*models.UserRecord

	iter := c.Firestore.Collection(UsersCollection).
		OrderBy(sortBy, firestore.Asc).
		Documents(c.ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("błąd iteracji po użytkownikach: %w", err)
		}

		var user models.UserRecord
		if err := doc.DataTo(&user); err != nil {
			return nil, fmt.Errorf("błąd parsowania użytkownika: %w", err)
		}

		user.UID = doc.Ref.ID
		users = append(users, &user)
	}

	return users, nil
}

// AddToWishlist dodaje książkę do listy życzeń. Lista życzeń nie wpływa
// na dostępność, więc nie przechodzi przez koordynatora wypożyczeń.
func (c *Client) AddToWishlist(uid, bookID string) error {
	if uid == "" || bookID == "" {
		return fmt.Errorf("UID użytkownika i ID książki są wymagane")
	}

	user, err := c.GetUserRecord(uid)
	if err != nil {
		return err
	}

	if user.HasInWishlist(bookID) {
		return fmt.Errorf("książka jest już na liście życzeń")
	}

	_, err = c.Firestore.Collection(UsersCollection).Doc(uid).Update(c.ctx, []firestore.Update{
		{Path: "wishlist", Value: firestore.ArrayUnion(bookID)},
	})
	if err != nil {
		return fmt.Errorf("błąd dodawania do listy życzeń: %w", err)
	}

	return nil
}

// RemoveFromWishlist usuwa książkę z listy życzeń
func (c *Client) RemoveFromWishlist(uid, bookID string) error {
	if uid == "" || bookID == "" {
		return fmt.Errorf("UID użytkownika i ID książki są wymagane")
	}

	_, err := c.Firestore.Collection(UsersCollection).Doc(uid).Update(c.ctx, []firestore.Update{
		{Path: "wishlist", Value: firestore.ArrayRemove(bookID)},
	})
	if err != nil {
		return fmt.Errorf("błąd usuwania z listy życzeń: %w", err)
	}

	return nil
}

// CountTotalUsers zwraca całkowitą liczbę czytelników
func (c *Client) CountTotalUsers() (int, error) {
	docs, err := c.Firestore.Collection(UsersCollection).Documents(c.ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("błąd liczenia użytkowników: %w", err)
	}
	return len(docs), nil
}
