package handlers

import (
	"html/template"
	"log"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"

	"reading-room-library/internal/firebase"
	"reading-room-library/internal/models"
	"reading-room-library/internal/session"
)

// AuthHandler obsługuje logowanie i rejestrację
type AuthHandler struct {
	loginTemplate    *template.Template
	registerTemplate *template.Template
}

// NewAuthHandler tworzy nowy handler autoryzacji
func NewAuthHandler() *AuthHandler {
	loginTmpl, err := template.ParseFiles("internal/templates/auth/login.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu login.html: %v", err)
	}

	registerTmpl, err := template.ParseFiles("internal/templates/auth/register.html")
	if err != nil {
		log.Printf("Błąd ładowania szablonu register.html: %v", err)
	}

	return &AuthHandler{
		loginTemplate:    loginTmpl,
		registerTemplate: registerTmpl,
	}
}

// ShowLoginPage wyświetla stronę logowania (GET /login)
func (h *AuthHandler) ShowLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.loginTemplate == nil {
		http.Error(w, "Szablon logowania nie został załadowany", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Error": nil,
	}

	if err := h.loginTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania strony logowania: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// HandleLogin obsługuje logowanie (POST /login)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		h.renderLoginError(w, "Email i hasło są wymagane")
		return
	}

	// Sprawdź czy Firebase jest zainicjalizowany
	if firebase.GlobalClient == nil {
		h.renderLoginError(w, "System autoryzacji nie jest dostępny")
		return
	}

	// Weryfikuj email i hasło przez Firebase Authentication REST API
	uid, err := firebase.GlobalClient.VerifyPassword(email, password)
	if err != nil {
		log.Printf("Błąd weryfikacji hasła: %v", err)
		h.renderLoginError(w, err.Error())
		return
	}

	// Pobierz rekord czytelnika z Firestore
	dbUser, err := firebase.GlobalClient.GetUserRecord(uid)
	if err != nil {
		log.Printf("Użytkownik nie znaleziony w bazie: %v", err)
		h.renderLoginError(w, "Użytkownik nie istnieje w systemie")
		return
	}

	// Rola wynika wyłącznie z globalnej listy administratorów
	isAdmin, err := firebase.GlobalClient.IsAdmin(uid)
	if err != nil {
		log.Printf("Błąd odczytu ról: %v", err)
		h.renderLoginError(w, "Błąd logowania")
		return
	}

	// Utwórz sesję
	sess, err := session.GetManager().CreateSession(dbUser, isAdmin)
	if err != nil {
		log.Printf("Błąd tworzenia sesji: %v", err)
		h.renderLoginError(w, "Błąd logowania")
		return
	}

	// Ustaw cookie z sesją
	session.SetSessionCookie(w, sess.ID)

	// Zapisz czas ostatniego logowania
	if err := firebase.GlobalClient.TouchLastSession(uid); err != nil {
		log.Printf("Błąd zapisu ostatniej sesji: %v", err)
	}

	log.Printf("Użytkownik zalogowany: %s (admin: %v)", email, isAdmin)

	// Przekieruj w zależności od roli
	if isAdmin {
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/books", http.StatusSeeOther)
	}
}

// ShowRegisterPage wyświetla stronę rejestracji (GET /register)
func (h *AuthHandler) ShowRegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.registerTemplate == nil {
		http.Error(w, "Szablon rejestracji nie został załadowany", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Error": nil,
	}

	if err := h.registerTemplate.Execute(w, data); err != nil {
		log.Printf("Błąd renderowania strony rejestracji: %v", err)
		http.Error(w, "Błąd renderowania strony", http.StatusInternalServerError)
	}
}

// HandleRegister obsługuje rejestrację (POST /register)
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	// Pobierz dane z formularza
	nickname := r.FormValue("nickname")
	email := r.FormValue("email")
	password := r.FormValue("password")

	// Walidacja
	if nickname == "" || email == "" || password == "" {
		h.renderRegisterError(w, "Pseudonim, email i hasło są wymagane")
		return
	}

	if len(password) < 6 {
		h.renderRegisterError(w, "Hasło musi mieć minimum 6 znaków")
		return
	}

	// Sprawdź czy Firebase jest zainicjalizowany
	if firebase.GlobalClient == nil {
		h.renderRegisterError(w, "System autoryzacji nie jest dostępny")
		return
	}

	// Utwórz użytkownika w Firebase Auth
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(nickname)

	firebaseUser, err := firebase.GlobalClient.Auth.CreateUser(r.Context(), params)
	if err != nil {
		log.Printf("Błąd tworzenia użytkownika w Firebase Auth: %v", err)
		h.renderRegisterError(w, "Użytkownik z tym adresem email już istnieje lub hasło jest za słabe")
		return
	}

	// Utwórz rekord czytelnika w Firestore
	user := &models.UserRecord{
		UID:       firebaseUser.UID,
		Nickname:  nickname,
		Email:     email,
		CreatedAt: time.Now(),
	}

	if err := firebase.GlobalClient.CreateUserRecord(user); err != nil {
		log.Printf("Błąd tworzenia rekordu czytelnika w Firestore: %v", err)
		// Próba usunięcia użytkownika z Auth jeśli nie udało się dodać do Firestore
		firebase.GlobalClient.Auth.DeleteUser(r.Context(), firebaseUser.UID)
		h.renderRegisterError(w, "Błąd tworzenia konta użytkownika")
		return
	}

	log.Printf("Nowy czytelnik zarejestrowany: %s (%s)", nickname, email)

	// Automatycznie zaloguj użytkownika; świeże konto nigdy nie jest administratorem
	sess, err := session.GetManager().CreateSession(user, false)
	if err != nil {
		log.Printf("Błąd tworzenia sesji: %v", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	session.SetSessionCookie(w, sess.ID)
	log.Printf("Użytkownik automatycznie zalogowany po rejestracji")

	// Przekieruj na stronę książek
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, errorMsg string) {
	if h.loginTemplate == nil {
		http.Error(w, errorMsg, http.StatusBadRequest)
		return
	}

	data := NewTemplateData(nil).Set("Error", errorMsg)
	h.loginTemplate.Execute(w, data)
}

func (h *AuthHandler) renderRegisterError(w http.ResponseWriter, errorMsg string) {
	if h.registerTemplate == nil {
		http.Error(w, errorMsg, http.StatusBadRequest)
		return
	}

	data := NewTemplateData(nil).Set("Error", errorMsg)
	h.registerTemplate.Execute(w, data)
}

// HandleLogout obsługuje wylogowanie
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess, exists := session.GetSessionFromRequest(r)
	if exists {
		session.GetManager().DeleteSession(sess.ID)
	}

	session.ClearSessionCookie(w)
	log.Println("Użytkownik wylogowany")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
