package firebase

import (
	"fmt"

	"cloud.google.com/go/firestore"

	"reading-room-library/internal/models"
)

const (
	// PropertiesCollection to kolekcja dokumentów konfiguracyjnych
	PropertiesCollection = "properties"
	// RolesDocument to dokument z globalną listą administratorów
	RolesDocument = "roles"
)

// GetAdminRoleSet pobiera globalną listę administratorów. Brak dokumentu
// oznacza pustą listę (nikt nie jest administratorem).
func (c *Client) GetAdminRoleSet() (*models.AdminRoleSet, error) {
	doc, err := c.Firestore.Collection(PropertiesCollection).Doc(RolesDocument).Get(c.ctx)
	if err != nil {
		if isNotFound(err) {
			return &models.AdminRoleSet{}, nil
		}
		return nil, fmt.Errorf("błąd pobierania listy administratorów: %w", err)
	}

	var roles models.AdminRoleSet
	if err := doc.DataTo(&roles); err != nil {
		return nil, fmt.Errorf("błąd parsowania listy administratorów: %w", err)
	}

	return &roles, nil
}

// IsAdmin rozstrzyga rolę użytkownika na podstawie globalnej listy.
// Jedyne miejsce w aplikacji, które zagląda do properties/roles.
func (c *Client) IsAdmin(uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}

	roles, err := c.GetAdminRoleSet()
	if err != nil {
		return false, err
	}

	return roles.IsAdmin(uid), nil
}

// GrantAdmin dopisuje UID do globalnej listy administratorów. Używane
// wyłącznie przez narzędzie cmd/create_admin.
func (c *Client) GrantAdmin(uid string) error {
	if uid == "" {
		return fmt.Errorf("UID użytkownika nie może być pusty")
	}

	docRef := c.Firestore.Collection(PropertiesCollection).Doc(RolesDocument)

	_, err := docRef.Set(c.ctx, map[string]interface{}{
		"admin": firestore.ArrayUnion(uid),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("błąd dopisywania administratora: %w", err)
	}

	return nil
}
