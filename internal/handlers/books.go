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

// BooksHandler obsługuje przeglądanie katalogu i rezerwowanie książek
type BooksHandler struct {
	listTemplate *template.Template
}

// NewBooksHandler tworzy nowy handler katalogu czytelnika
func NewBooksHandler() *BooksHandler {
	funcMap := template.FuncMap{
		"sub": func(a, b int) int {
			return a - b
		},
		"add": func(a, b int) int {
			return a + b
		},
		"mkRange": func(start, end int) []int {
			result := make([]int, end-start+1)
			for i := range result {
				result[i] = start + i
			}
			return result
		},
	}

	listTmpl, err := template.New("books_list.html").Funcs(funcMap).ParseFiles("internal/templates/books/books_list.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu books_list.html: %v", err)
	}

	return &BooksHandler{
		listTemplate: listTmpl,
	}
}

// ListBooks wyświetla katalog z filtrowaniem, sortowaniem i paginacją (GET /books)
func (h *BooksHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if h.listTemplate == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	query := r.URL.Query().Get("q")
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "title"
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	// Pełna lista z bazy; filtrowanie i stronicowanie wykonujemy lokalnie,
	// bo Firestore nie wspiera wyszukiwania po fragmencie tekstu
	books, err := firebase.GlobalClient.ListBooks("title")
	if err != nil {
		log.Printf("Błąd pobierania książek: %v", err)
		http.Error(w, "Błąd pobierania książek", http.StatusInternalServerError)
		return
	}

	filtered := catalog.Filter(books, query)
	catalog.SortBooks(filtered, sortBy)

	totalPages := catalog.TotalPages(len(filtered), catalog.BooksPerPage)
	pageBooks := catalog.Paginate(filtered, page, catalog.BooksPerPage)

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["Books"] = pageBooks
	data["CurrentPage"] = page
	data["TotalPages"] = totalPages
	data["TotalCount"] = len(filtered)
	data["SearchQuery"] = query
	data["SortBy"] = sortBy

	if err := h.listTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania katalogu: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// ReserveBook rezerwuje książkę dla zalogowanego czytelnika (POST /books/{id}/reserve)
func (h *BooksHandler) ReserveBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := firebase.GlobalClient.Reserve(bookID, sess.UID); err != nil {
		reportLendingError(w, "rezerwacji", err)
		return
	}

	h.refreshSessionUser(sess)
	http.Redirect(w, r, "/user/library", http.StatusSeeOther)
}

// AddToWishlist dodaje książkę do listy życzeń (POST /books/{id}/wishlist)
func (h *BooksHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := firebase.GlobalClient.AddToWishlist(sess.UID, bookID); err != nil {
		log.Printf("Błąd dodawania do listy życzeń: %v", err)
		http.Error(w, "Błąd dodawania do listy życzeń", http.StatusInternalServerError)
		return
	}

	h.refreshSessionUser(sess)
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

// refreshSessionUser odświeża rekord czytelnika w sesji po zmianie w bazie
func (h *BooksHandler) refreshSessionUser(sess *session.Session) {
	user, err := firebase.GlobalClient.GetUserRecord(sess.UID)
	if err != nil {
		log.Printf("Błąd odświeżania sesji: %v", err)
		return
	}
	session.GetManager().RefreshUser(sess.ID, user)
}
