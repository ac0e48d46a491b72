package handlers

import (
	"html/template"
	"log"
	"net/http"

	"reading-room-library/internal/catalog"
	"reading-room-library/internal/firebase"
	"reading-room-library/internal/middleware"
	"reading-room-library/internal/session"
)

// Awatary do wyboru w profilu; pliki leżą w static/avatars
var profileAvatars = []string{
	"avatar1",
	"avatar2",
	"avatar3",
	"avatar4",
	"avatar5",
	"avatar6",
}

// ProfileHandler obsługuje profil czytelnika
type ProfileHandler struct {
	template *template.Template
}

// NewProfileHandler tworzy nowy handler profilu
func NewProfileHandler() *ProfileHandler {
	tmpl, err := template.ParseFiles("internal/templates/user/profile.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu profile.html: %v", err)
	}

	return &ProfileHandler{
		template: tmpl,
	}
}

// ShowProfile wyświetla profil z pełną historią czytelnika (GET /user/profile)
func (h *ProfileHandler) ShowProfile(w http.ResponseWriter, r *http.Request) {
	if h.template == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	user, err := firebase.GlobalClient.GetUserRecord(sess.UID)
	if err != nil {
		log.Printf("Błąd pobierania rekordu czytelnika: %v", err)
		http.Error(w, "Błąd pobierania danych", http.StatusInternalServerError)
		return
	}
	session.GetManager().RefreshUser(sess.ID, user)

	ids := append([]string{}, user.ReservedBooks...)
	ids = append(ids, user.CurrentBooks...)
	ids = append(ids, user.Wishlist...)
	ids = append(ids, user.ReadingHistory...)

	books, err := firebase.GlobalClient.GetBooksByIDs(ids)
	if err != nil {
		log.Printf("Błąd pobierania tytułów: %v", err)
		http.Error(w, "Błąd pobierania danych", http.StatusInternalServerError)
		return
	}
	idx := catalog.BuildTitleIndex(books)

	data := NewTemplateData(sess)
	data["User"] = user
	data["Reserved"] = idx.Resolve(user.ReservedBooks)
	data["CurrentBooks"] = idx.Resolve(user.CurrentBooks)
	data["Wishlist"] = idx.Resolve(user.Wishlist)
	data["ReadingHistory"] = idx.Resolve(user.ReadingHistory)
	data["Avatars"] = profileAvatars

	if err := h.template.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania profilu: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// UpdateProfile zapisuje pseudonim i awatar czytelnika (POST /user/profile)
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Błąd parsowania formularza", http.StatusBadRequest)
		return
	}

	nickname := r.FormValue("nickname")
	avatar := r.FormValue("avatar")

	if nickname == "" {
		http.Error(w, "Pseudonim jest wymagany", http.StatusBadRequest)
		return
	}
	if avatar != "" && !isKnownAvatar(avatar) {
		http.Error(w, "Nieznany awatar", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	if err := firebase.GlobalClient.UpdateProfile(sess.UID, nickname, avatar); err != nil {
		log.Printf("Błąd aktualizacji profilu: %v", err)
		http.Error(w, "Błąd aktualizacji profilu", http.StatusInternalServerError)
		return
	}

	user, err := firebase.GlobalClient.GetUserRecord(sess.UID)
	if err == nil {
		session.GetManager().RefreshUser(sess.ID, user)
	}

	http.Redirect(w, r, "/user/profile", http.StatusSeeOther)
}

func isKnownAvatar(avatar string) bool {
	for _, a := range profileAvatars {
		if a == avatar {
			return true
		}
	}
	return false
}
