package handlers

import (
	"html/template"
	"log"
	"net/http"

	"reading-room-library/internal/catalog"
	"reading-room-library/internal/firebase"
	"reading-room-library/internal/middleware"
)

// IndexHandler obsługuje stronę główną
type IndexHandler struct {
	template *template.Template
}

// NewIndexHandler tworzy nowy handler strony głównej
func NewIndexHandler() *IndexHandler {
	tmpl, err := template.ParseFiles("internal/templates/index.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu index.html: %v", err)
	}

	return &IndexHandler{
		template: tmpl,
	}
}

// ServeHTTP wyświetla stronę główną (GET /)
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.template == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)

	// Statystyki biblioteki na stronie głównej
	if firebase.GlobalClient != nil {
		books, err := firebase.GlobalClient.ListBooks("title")
		if err != nil {
			log.Printf("Błąd pobierania statystyk książek: %v", err)
		} else {
			data["TotalBooks"] = len(books)
			data["AvailableBooks"] = catalog.CountAvailable(books)
		}

		totalUsers, err := firebase.GlobalClient.CountTotalUsers()
		if err != nil {
			log.Printf("Błąd pobierania liczby użytkowników: %v", err)
		} else {
			data["TotalUsers"] = totalUsers
		}
	}

	if err := h.template.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania strony głównej: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}
