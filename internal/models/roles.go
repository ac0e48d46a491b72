package models

// AdminRoleSet reprezentuje globalny dokument properties/roles z listą
// UID-ów administratorów. Aplikacja tylko go czyta - wpisy dodaje
// narzędzie cmd/create_admin.
type AdminRoleSet struct {
	Admin []string `json:"admin" firestore:"admin"`
}

// IsAdmin sprawdza czy dany UID znajduje się na liście administratorów
func (a *AdminRoleSet) IsAdmin(uid string) bool {
	for _, adminUID := range a.Admin {
		if adminUID == uid {
			return true
		}
	}
	return false
}
