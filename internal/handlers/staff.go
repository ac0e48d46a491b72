package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"reading-room-library/internal/catalog"
	"reading-room-library/internal/firebase"
	"reading-room-library/internal/middleware"
	"reading-room-library/internal/models"
)

const usersPerPage = 20

// StaffHandler obsługuje panel bibliotekarza
type StaffHandler struct {
	dashboardTemplate *template.Template
	waitingTemplate   *template.Template
	repairTemplate    *template.Template
	usersTemplate     *template.Template
	userEditTemplate  *template.Template
	fbClient          *firebase.Client
}

// WaitingDisplay to wiersz listy oczekujących: rezerwacja albo zwrot
// czekający na przyjęcie, z dołączonym tytułem i pseudonimem czytelnika
type WaitingDisplay struct {
	BookID      string
	Title       string
	Author      string
	UID         string
	Nickname    string
	Reason      string
	Notes       string
	IsDamaged   bool
	RequestedAt time.Time
}

// NewStaffHandler tworzy nowy handler panelu bibliotekarza
func NewStaffHandler(fbClient *firebase.Client) *StaffHandler {
	dashboardTmpl, err := template.ParseFiles("internal/templates/staff/dashboard.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu staff/dashboard.html: %v", err)
	}

	waitingTmpl, err := template.ParseFiles("internal/templates/staff/waiting_list.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu staff/waiting_list.html: %v", err)
	}

	repairTmpl, err := template.ParseFiles("internal/templates/staff/repairs.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu staff/repairs.html: %v", err)
	}

	usersTmpl, err := template.ParseFiles("internal/templates/staff/users.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu staff/users.html: %v", err)
	}

	userEditTmpl, err := template.ParseFiles("internal/templates/staff/user_edit.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu staff/user_edit.html: %v", err)
	}

	return &StaffHandler{
		dashboardTemplate: dashboardTmpl,
		waitingTemplate:   waitingTmpl,
		repairTemplate:    repairTmpl,
		usersTemplate:     usersTmpl,
		userEditTemplate:  userEditTmpl,
		fbClient:          fbClient,
	}
}

// ShowDashboard wyświetla pulpit bibliotekarza (GET /staff)
func (h *StaffHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	if h.dashboardTemplate == nil {
		http.Error(w, "Szablon dashboardu nie został załadowany", http.StatusInternalServerError)
		return
	}

	stats := map[string]interface{}{
		"totalBooks":     0,
		"availableBooks": 0,
		"reservations":   0,
		"pendingReturns": 0,
		"damagedBooks":   0,
		"totalUsers":     0,
	}

	if h.fbClient != nil {
		if totalBooks, err := h.fbClient.CountTotalBooks(); err == nil {
			stats["totalBooks"] = totalBooks
		} else {
			log.Printf("Błąd pobierania liczby książek: %v", err)
		}

		if books, err := h.fbClient.ListBooks("title"); err == nil {
			stats["availableBooks"] = catalog.CountAvailable(books)
		} else {
			log.Printf("Błąd pobierania książek: %v", err)
		}

		if reservations, err := h.fbClient.ListReservations(); err == nil {
			stats["reservations"] = len(reservations)
		} else {
			log.Printf("Błąd pobierania rezerwacji: %v", err)
		}

		if pending, err := h.fbClient.ListPendingReturns(); err == nil {
			damaged := 0
			for _, p := range pending {
				if p.IsDamaged() {
					damaged++
				}
			}
			stats["pendingReturns"] = len(pending) - damaged
			stats["damagedBooks"] = damaged
		} else {
			log.Printf("Błąd pobierania oczekujących zwrotów: %v", err)
		}

		if totalUsers, err := h.fbClient.CountTotalUsers(); err == nil {
			stats["totalUsers"] = totalUsers
		} else {
			log.Printf("Błąd pobierania liczby użytkowników: %v", err)
		}
	}

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["Stats"] = stats

	if err := h.dashboardTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania dashboardu: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// ShowWaitingList wyświetla rezerwacje do wydania i zwroty do przyjęcia
// (GET /staff/waiting)
func (h *StaffHandler) ShowWaitingList(w http.ResponseWriter, r *http.Request) {
	if h.waitingTemplate == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	reservations, err := h.fbClient.ListReservations()
	if err != nil {
		log.Printf("Błąd pobierania rezerwacji: %v", err)
		http.Error(w, "Błąd pobierania rezerwacji", http.StatusInternalServerError)
		return
	}

	pending, err := h.fbClient.ListPendingReturns()
	if err != nil {
		log.Printf("Błąd pobierania oczekujących zwrotów: %v", err)
		http.Error(w, "Błąd pobierania zwrotów", http.StatusInternalServerError)
		return
	}

	// Jedno zbiorcze pobranie tytułów i pseudonimów dla całej listy
	bookIDs := make([]string, 0, len(reservations)+len(pending))
	uids := make([]string, 0, len(reservations)+len(pending))
	for _, res := range reservations {
		bookIDs = append(bookIDs, res.BookID)
		uids = append(uids, res.UID)
	}
	for _, p := range pending {
		bookIDs = append(bookIDs, p.BookID)
		uids = append(uids, p.CreatorID)
	}

	idx, nicknames, err := h.joinBooksAndUsers(bookIDs, uids)
	if err != nil {
		log.Printf("Błąd dołączania danych: %v", err)
		http.Error(w, "Błąd pobierania danych", http.StatusInternalServerError)
		return
	}

	var toHandIn []WaitingDisplay
	for _, res := range reservations {
		ref := idx.Resolve([]string{res.BookID})[0]
		toHandIn = append(toHandIn, WaitingDisplay{
			BookID:      res.BookID,
			Title:       ref.Title,
			Author:      ref.Author,
			UID:         res.UID,
			Nickname:    nicknames[res.UID],
			RequestedAt: res.ReservedAt,
		})
	}

	var toAccept []WaitingDisplay
	for _, p := range pending {
		ref := idx.Resolve([]string{p.BookID})[0]
		toAccept = append(toAccept, pendingDisplay(p, ref, nicknames[p.CreatorID]))
	}

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["ToHandIn"] = toHandIn
	data["ToAccept"] = toAccept

	if err := h.waitingTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania listy oczekujących: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// HandInBook wydaje zarezerwowaną książkę czytelnikowi
// (POST /staff/waiting/{id}/hand-in)
func (h *StaffHandler) HandInBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	if err := h.fbClient.HandIn(bookID); err != nil {
		reportLendingError(w, "wydania książki", err)
		return
	}

	http.Redirect(w, r, "/staff/waiting", http.StatusSeeOther)
}

// CancelReservation anuluje cudzą rezerwację z panelu bibliotekarza
// (POST /staff/waiting/{id}/unreserve)
func (h *StaffHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	if err := h.fbClient.Unreserve(bookID, sess.UID, true); err != nil {
		reportLendingError(w, "anulowania rezerwacji", err)
		return
	}

	http.Redirect(w, r, "/staff/waiting", http.StatusSeeOther)
}

// AcceptReturn przyjmuje zwrot i odkłada książkę na półkę
// (POST /staff/waiting/{id}/accept)
func (h *StaffHandler) AcceptReturn(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	if err := h.fbClient.RepairComplete(bookID); err != nil {
		reportLendingError(w, "przyjęcia zwrotu", err)
		return
	}

	http.Redirect(w, r, "/staff/waiting", http.StatusSeeOther)
}

// MarkDamaged oznacza zwracaną książkę jako uszkodzoną
// (POST /staff/waiting/{id}/damaged)
func (h *StaffHandler) MarkDamaged(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Błąd parsowania formularza", http.StatusBadRequest)
		return
	}

	notes := r.FormValue("notes")
	userNote := r.FormValue("user_note")

	if err := h.fbClient.MarkDamaged(bookID, notes, userNote); err != nil {
		reportLendingError(w, "oznaczenia uszkodzenia", err)
		return
	}

	http.Redirect(w, r, "/staff/waiting", http.StatusSeeOther)
}

// ShowRepairs wyświetla książki czekające na naprawę (GET /staff/repairs)
func (h *StaffHandler) ShowRepairs(w http.ResponseWriter, r *http.Request) {
	if h.repairTemplate == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	damaged, err := h.fbClient.ListDamagedBooks()
	if err != nil {
		log.Printf("Błąd pobierania uszkodzonych książek: %v", err)
		http.Error(w, "Błąd pobierania danych", http.StatusInternalServerError)
		return
	}

	bookIDs := make([]string, 0, len(damaged))
	uids := make([]string, 0, len(damaged))
	for _, p := range damaged {
		bookIDs = append(bookIDs, p.BookID)
		uids = append(uids, p.CreatorID)
	}

	idx, nicknames, err := h.joinBooksAndUsers(bookIDs, uids)
	if err != nil {
		log.Printf("Błąd dołączania danych: %v", err)
		http.Error(w, "Błąd pobierania danych", http.StatusInternalServerError)
		return
	}

	var rows []WaitingDisplay
	for _, p := range damaged {
		ref := idx.Resolve([]string{p.BookID})[0]
		rows = append(rows, pendingDisplay(p, ref, nicknames[p.CreatorID]))
	}

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["Damaged"] = rows

	if err := h.repairTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania napraw: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// MarkRepaired kończy naprawę i zwraca książkę do obiegu
// (POST /staff/repairs/{id}/complete)
func (h *StaffHandler) MarkRepaired(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	if err := h.fbClient.RepairComplete(bookID); err != nil {
		reportLendingError(w, "zakończenia naprawy", err)
		return
	}

	http.Redirect(w, r, "/staff/repairs", http.StatusSeeOther)
}

// ListUsers wyświetla katalog czytelników z wyszukiwaniem i paginacją
// (GET /staff/users)
func (h *StaffHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if h.usersTemplate == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	query := r.URL.Query().Get("q")
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "nickname"
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	users, err := h.fbClient.ListUserRecords(sortBy)
	if err != nil {
		log.Printf("Błąd pobierania czytelników: %v", err)
		http.Error(w, "Błąd pobierania czytelników", http.StatusInternalServerError)
		return
	}

	filtered := filterUsers(users, query)

	totalPages := catalog.TotalPages(len(filtered), usersPerPage)
	pageUsers := paginateUsers(filtered, page)

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["Users"] = pageUsers
	data["CurrentPage"] = page
	data["TotalPages"] = totalPages
	data["TotalCount"] = len(filtered)
	data["SearchQuery"] = query
	data["SortBy"] = sortBy

	if err := h.usersTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania listy czytelników: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// ShowEditUser wyświetla kartę czytelnika z jego listami
// (GET /staff/users/{uid}/edit)
func (h *StaffHandler) ShowEditUser(w http.ResponseWriter, r *http.Request) {
	if h.userEditTemplate == nil {
		http.Error(w, "Szablon nie został załadowany", http.StatusInternalServerError)
		return
	}

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		http.Error(w, "Brak UID czytelnika", http.StatusBadRequest)
		return
	}

	user, err := h.fbClient.GetUserRecord(uid)
	if err != nil {
		log.Printf("Błąd pobierania czytelnika: %v", err)
		http.Error(w, "Czytelnik nie został znaleziony", http.StatusNotFound)
		return
	}

	ids := append([]string{}, user.ReservedBooks...)
	ids = append(ids, user.CurrentBooks...)
	ids = append(ids, user.ReadingHistory...)

	books, err := h.fbClient.GetBooksByIDs(ids)
	if err != nil {
		log.Printf("Błąd pobierania tytułów: %v", err)
		http.Error(w, "Błąd pobierania danych", http.StatusInternalServerError)
		return
	}
	idx := catalog.BuildTitleIndex(books)

	sess := middleware.GetSessionFromContext(r.Context())
	data := NewTemplateData(sess)
	data["Reader"] = user
	data["Reserved"] = idx.Resolve(user.ReservedBooks)
	data["CurrentBooks"] = idx.Resolve(user.CurrentBooks)
	data["ReadingHistory"] = idx.Resolve(user.ReadingHistory)

	if err := h.userEditTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania karty czytelnika: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// UpdateUser zapisuje zmiany bibliotekarza na karcie czytelnika
// (POST /staff/users/{uid})
func (h *StaffHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		http.Error(w, "Brak UID czytelnika", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Błąd parsowania formularza", http.StatusBadRequest)
		return
	}

	nickname := r.FormValue("nickname")
	notes := r.FormValue("notes")
	allowed := r.FormValue("allowed") == "on"

	if nickname == "" {
		http.Error(w, "Pseudonim jest wymagany", http.StatusBadRequest)
		return
	}

	if err := h.fbClient.UpdateUserByStaff(uid, nickname, notes, allowed); err != nil {
		log.Printf("Błąd aktualizacji czytelnika: %v", err)
		http.Error(w, "Błąd aktualizacji czytelnika", http.StatusInternalServerError)
		return
	}

	log.Printf("Bibliotekarz zaktualizował kartę czytelnika %s", uid)
	http.Redirect(w, r, "/staff/users", http.StatusSeeOther)
}

// ReserveForUser rezerwuje książkę w imieniu czytelnika
// (POST /staff/users/{uid}/reserve)
func (h *StaffHandler) ReserveForUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		http.Error(w, "Brak UID czytelnika", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Błąd parsowania formularza", http.StatusBadRequest)
		return
	}

	bookID := r.FormValue("book_id")
	if bookID == "" {
		http.Error(w, "Brak ID książki", http.StatusBadRequest)
		return
	}

	if err := h.fbClient.Reserve(bookID, uid); err != nil {
		reportLendingError(w, "rezerwacji w imieniu czytelnika", err)
		return
	}

	log.Printf("Bibliotekarz zarezerwował książkę %s dla czytelnika %s", bookID, uid)
	http.Redirect(w, r, "/staff/users/"+uid+"/edit", http.StatusSeeOther)
}

// Funkcje pomocnicze

// joinBooksAndUsers pobiera zbiorczo tytuły i pseudonimy dla list panelu
func (h *StaffHandler) joinBooksAndUsers(bookIDs, uids []string) (catalog.TitleIndex, map[string]string, error) {
	books, err := h.fbClient.GetBooksByIDs(bookIDs)
	if err != nil {
		return nil, nil, err
	}

	nicknames := make(map[string]string, len(uids))
	seen := make(map[string]bool, len(uids))
	for _, uid := range uids {
		if uid == "" || seen[uid] {
			continue
		}
		seen[uid] = true

		user, err := h.fbClient.GetUserRecord(uid)
		if err != nil {
			log.Printf("Błąd pobierania czytelnika %s: %v", uid, err)
			nicknames[uid] = uid
			continue
		}
		nicknames[uid] = user.Nickname
	}

	return catalog.BuildTitleIndex(books), nicknames, nil
}

// pendingDisplay buduje wiersz listy z oczekującego zwrotu
func pendingDisplay(p *models.PendingReturn, ref catalog.BookRef, nickname string) WaitingDisplay {
	return WaitingDisplay{
		BookID:      p.BookID,
		Title:       ref.Title,
		Author:      ref.Author,
		UID:         p.CreatorID,
		Nickname:    nickname,
		Reason:      string(p.Reason),
		Notes:       p.Notes,
		IsDamaged:   p.IsDamaged(),
		RequestedAt: p.CreatedAt,
	}
}

func filterUsers(users []*models.UserRecord, query string) []*models.UserRecord {
	if query == "" {
		return users
	}

	needle := strings.ToLower(query)
	var out []*models.UserRecord
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Nickname), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) ||
			strings.Contains(strings.ToLower(u.UID), needle) {
			out = append(out, u)
		}
	}
	return out
}

func paginateUsers(users []*models.UserRecord, page int) []*models.UserRecord {
	if page < 1 {
		page = 1
	}

	start := (page - 1) * usersPerPage
	if start >= len(users) {
		return nil
	}

	end := start + usersPerPage
	if end > len(users) {
		end = len(users)
	}
	return users[start:end]
}
