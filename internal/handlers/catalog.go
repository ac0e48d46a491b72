package handlers

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"reading-room-library/internal/firebase"
	"reading-room-library/internal/middleware"
	"reading-room-library/internal/models"
)

// Kolumny pliku CSV używane przy imporcie i eksporcie katalogu
var csvHeader = []string{"id", "title", "author", "genres", "year", "publisher", "language", "status"}

// CatalogHandler obsługuje zarządzanie katalogiem książek przez bibliotekarza
type CatalogHandler struct {
	formTemplate *template.Template
	fbClient     *firebase.Client
}

// NewCatalogHandler tworzy nowy handler katalogu
func NewCatalogHandler(fbClient *firebase.Client) *CatalogHandler {
	formTmpl, err := template.ParseFiles("internal/templates/staff/catalog_form.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu catalog_form.html: %v", err)
	}

	return &CatalogHandler{
		formTemplate: formTmpl,
		fbClient:     fbClient,
	}
}

// ShowNewBookForm wyświetla formularz dodawania książki (GET /staff/catalog/new)
func (h *CatalogHandler) ShowNewBookForm(w http.ResponseWriter, r *http.Request) {
	if h.formTemplate == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["Action"] = "create"
	data["Book"] = &models.Book{}

	if err := h.formTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania formularza: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// CreateBook dodaje nową książkę do katalogu (POST /staff/catalog)
func (h *CatalogHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Błąd parsowania formularza", http.StatusBadRequest)
		return
	}

	book, errMsg := h.bookFromForm(r)
	if errMsg != "" {
		h.renderFormError(w, r, "create", errMsg, book)
		return
	}

	if err := h.fbClient.CreateBook(book); err != nil {
		log.Printf("Błąd tworzenia książki: %v", err)
		h.renderFormError(w, r, "create", "Błąd zapisywania książki: "+err.Error(), book)
		return
	}

	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

// ShowEditBookForm wyświetla formularz edycji książki (GET /staff/catalog/{id}/edit)
func (h *CatalogHandler) ShowEditBookForm(w http.ResponseWriter, r *http.Request) {
	if h.formTemplate == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	book, err := h.fbClient.GetBook(bookID)
	if err != nil {
		log.Printf("Błąd pobierania książki: %v", err)
		http.Error(w, "Książka nie została znaleziona", http.StatusNotFound)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["Action"] = "edit"
	data["Book"] = book

	if err := h.formTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania formularza: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// UpdateBook aktualizuje metadane książki (POST /staff/catalog/{id}).
// Dostępność książki zmieniają wyłącznie operacje wypożyczeń, nie ten
// formularz.
func (h *CatalogHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Błąd parsowania formularza", http.StatusBadRequest)
		return
	}

	book, errMsg := h.bookFromForm(r)
	if errMsg != "" {
		book.ID = bookID
		h.renderFormError(w, r, "edit", errMsg, book)
		return
	}
	book.ID = bookID

	if err := h.fbClient.UpdateBookDetails(bookID, book); err != nil {
		log.Printf("Błąd aktualizacji książki: %v", err)
		h.renderFormError(w, r, "edit", "Błąd zapisywania książki: "+err.Error(), book)
		return
	}

	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

// ExportCSV zapisuje cały katalog do pliku CSV (GET /staff/catalog/export)
func (h *CatalogHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	books, err := h.fbClient.ListBooks("title")
	if err != nil {
		log.Printf("Błąd pobierania książek do eksportu: %v", err)
		http.Error(w, "Błąd eksportu katalogu", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("katalog-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		log.Printf("Błąd zapisu nagłówka CSV: %v", err)
		return
	}

	for _, book := range books {
		record := []string{
			book.ID,
			book.Title,
			book.Author,
			strings.Join(book.Genres, ";"),
			strconv.Itoa(book.Year),
			book.Publisher,
			book.Language,
			string(book.Status),
		}
		if err := writer.Write(record); err != nil {
			log.Printf("Błąd zapisu wiersza CSV: %v", err)
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("Błąd eksportu CSV: %v", err)
	}
}

// ImportCSV wczytuje książki z pliku CSV (POST /staff/catalog/import).
// Wiersze z błędami są pomijane, reszta trafia do katalogu jako nowe,
// dostępne książki.
func (h *CatalogHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Brak pliku CSV", http.StatusBadRequest)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Printf("Błąd czytania pliku CSV: %v", err)
		http.Error(w, "Nieprawidłowy plik CSV", http.StatusBadRequest)
		return
	}

	imported := 0
	skipped := 0
	for i, record := range records {
		// Pomiń wiersz nagłówka
		if i == 0 && len(record) > 1 && strings.EqualFold(record[1], "title") {
			continue
		}

		book, ok := bookFromCSVRecord(record)
		if !ok {
			skipped++
			continue
		}

		if err := h.fbClient.CreateBook(book); err != nil {
			log.Printf("Błąd importu wiersza %d: %v", i+1, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("Import CSV zakończony: %d dodanych, %d pominiętych", imported, skipped)
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

// Funkcje pomocnicze

func (h *CatalogHandler) bookFromForm(r *http.Request) (*models.Book, string) {
	year, _ := strconv.Atoi(r.FormValue("year"))

	var genres []string
	for _, g := range strings.Split(r.FormValue("genres"), ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}

	book := &models.Book{
		Title:     r.FormValue("title"),
		Author:    r.FormValue("author"),
		Genres:    genres,
		Year:      year,
		Publisher: r.FormValue("publisher"),
		Language:  r.FormValue("language"),
	}

	if book.Title == "" {
		return book, "Tytuł jest wymagany"
	}
	if book.Author == "" {
		return book, "Autor jest wymagany"
	}

	return book, ""
}

func bookFromCSVRecord(record []string) (*models.Book, bool) {
	// Kolumny id i status są ignorowane przy imporcie; nowy dokument
	// dostaje świeże ID i zaczyna jako dostępny
	if len(record) < 3 || record[1] == "" || record[2] == "" {
		return nil, false
	}

	book := &models.Book{
		Title:  record[1],
		Author: record[2],
	}

	if len(record) > 3 && record[3] != "" {
		book.Genres = strings.Split(record[3], ";")
	}
	if len(record) > 4 {
		book.Year, _ = strconv.Atoi(record[4])
	}
	if len(record) > 5 {
		book.Publisher = record[5]
	}
	if len(record) > 6 {
		book.Language = record[6]
	}

	return book, true
}

func (h *CatalogHandler) renderFormError(w http.ResponseWriter, r *http.Request, action, errorMsg string, book *models.Book) {
	if h.formTemplate == nil {
		http.Error(w, errorMsg, http.StatusBadRequest)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["Action"] = action
	data["Error"] = errorMsg
	data["Book"] = book

	w.WriteHeader(http.StatusBadRequest)
	if err := h.formTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania formularza z błędem: %v", err)
	}
}
