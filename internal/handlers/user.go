package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"reading-room-library/internal/catalog"
	"reading-room-library/internal/firebase"
	"reading-room-library/internal/middleware"
	"reading-room-library/internal/session"
)

// UserHandler obsługuje półkę czytelnika: rezerwacje, listę życzeń i czytelnię
type UserHandler struct {
	libraryTemplate *template.Template
	readingTemplate *template.Template
	returnTemplate  *template.Template
	reviewsTemplate *template.Template
}

// NewUserHandler tworzy nowy handler czytelnika
func NewUserHandler() *UserHandler {
	libraryTmpl, err := template.ParseFiles("internal/templates/user/library.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu library.html: %v", err)
	}

	readingTmpl, err := template.ParseFiles("internal/templates/user/reading_room.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu reading_room.html: %v", err)
	}

	returnTmpl, err := template.ParseFiles("internal/templates/user/return_form.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu return_form.html: %v", err)
	}

	reviewsTmpl, err := template.ParseFiles("internal/templates/user/reviews.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu reviews.html: %v", err)
	}

	return &UserHandler{
		libraryTemplate: libraryTmpl,
		readingTemplate: readingTmpl,
		returnTemplate:  returnTmpl,
		reviewsTemplate: reviewsTmpl,
	}
}

// ShowLibrary wyświetla rezerwacje i listę życzeń czytelnika (GET /user/library)
func (h *UserHandler) ShowLibrary(w http.ResponseWriter, r *http.Request) {
	if h.libraryTemplate == nil {
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

	// Jedno zbiorcze pobranie dla obu list zamiast zapytania na każdy tytuł
	ids := append(append([]string{}, user.ReservedBooks...), user.Wishlist...)
	idx, err := h.titleIndex(ids)
	if err != nil {
		log.Printf("Błąd pobierania tytułów: %v", err)
		http.Error(w, "Błąd pobierania danych", http.StatusInternalServerError)
		return
	}

	data := NewTemplateData(sess)
	data["User"] = user
	data["Reserved"] = idx.Resolve(user.ReservedBooks)
	data["Wishlist"] = idx.Resolve(user.Wishlist)

	if err := h.libraryTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania biblioteczki: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// UnreserveBook zwalnia własną rezerwację czytelnika (POST /user/library/{id}/unreserve)
func (h *UserHandler) UnreserveBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	if err := firebase.GlobalClient.Unreserve(bookID, sess.UID, false); err != nil {
		reportLendingError(w, "zwolnienia rezerwacji", err)
		return
	}

	http.Redirect(w, r, "/user/library", http.StatusSeeOther)
}

// RemoveFromWishlist usuwa książkę z listy życzeń (POST /user/library/{id}/unwish)
func (h *UserHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	if err := firebase.GlobalClient.RemoveFromWishlist(sess.UID, bookID); err != nil {
		log.Printf("Błąd usuwania z listy życzeń: %v", err)
		http.Error(w, "Błąd usuwania z listy życzeń", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/user/library", http.StatusSeeOther)
}

// ShowReadingRoom wyświetla książki aktualnie u czytelnika (GET /user/reading-room)
func (h *UserHandler) ShowReadingRoom(w http.ResponseWriter, r *http.Request) {
	if h.readingTemplate == nil {
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

	idx, err := h.titleIndex(user.CurrentBooks)
	if err != nil {
		log.Printf("Błąd pobierania tytułów: %v", err)
		http.Error(w, "Błąd pobierania danych", http.StatusInternalServerError)
		return
	}

	data := NewTemplateData(sess)
	data["User"] = user
	data["CurrentBooks"] = idx.Resolve(user.CurrentBooks)

	if err := h.readingTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania czytelni: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// ShowReturnForm wyświetla formularz zwrotu z recenzją (GET /user/reading-room/{id}/return)
func (h *UserHandler) ShowReturnForm(w http.ResponseWriter, r *http.Request) {
	if h.returnTemplate == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	bookID := chi.URLParam(r, "id")
	book, err := firebase.GlobalClient.GetBook(bookID)
	if err != nil {
		log.Printf("Błąd pobierania książki: %v", err)
		http.Error(w, "Książka nie została znaleziona", http.StatusNotFound)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["Book"] = book

	if err := h.returnTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania formularza zwrotu: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// ReturnBook odkłada książkę do zwrotu wraz z recenzją (POST /user/reading-room/{id}/return)
func (h *UserHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Błąd parsowania formularza", http.StatusBadRequest)
		return
	}

	feedback := r.FormValue("feedback")
	notes := r.FormValue("notes")
	rating, err := strconv.ParseFloat(r.FormValue("rating"), 64)
	if err != nil {
		http.Error(w, "Ocena musi być liczbą", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	if err := firebase.GlobalClient.Return(bookID, sess.UID, feedback, notes, rating); err != nil {
		reportLendingError(w, "zwrotu", err)
		return
	}

	http.Redirect(w, r, "/user/reading-room", http.StatusSeeOther)
}

// ShowReviews wyświetla recenzje czytelnika (GET /user/reviews)
func (h *UserHandler) ShowReviews(w http.ResponseWriter, r *http.Request) {
	if h.reviewsTemplate == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	reviews, err := firebase.GlobalClient.GetUserReviews(sess.UID)
	if err != nil {
		log.Printf("Błąd pobierania recenzji: %v", err)
		http.Error(w, "Błąd pobierania recenzji", http.StatusInternalServerError)
		return
	}

	data := NewTemplateData(sess)
	data["Reviews"] = reviews

	if err := h.reviewsTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania recenzji: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// UpdateReview poprawia własną recenzję czytelnika (POST /user/reviews/{id})
func (h *UserHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Błąd parsowania formularza", http.StatusBadRequest)
		return
	}

	feedback := r.FormValue("feedback")
	notes := r.FormValue("notes")
	rating, err := strconv.ParseFloat(r.FormValue("rating"), 64)
	if err != nil {
		http.Error(w, "Ocena musi być liczbą", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	if err := firebase.GlobalClient.UpdateReview(bookID, sess.UID, feedback, notes, rating); err != nil {
		reportLendingError(w, "edycji recenzji", err)
		return
	}

	http.Redirect(w, r, "/user/reviews", http.StatusSeeOther)
}

func (h *UserHandler) titleIndex(ids []string) (catalog.TitleIndex, error) {
	books, err := firebase.GlobalClient.GetBooksByIDs(ids)
	if err != nil {
		return nil, err
	}
	return catalog.BuildTitleIndex(books), nil
}
