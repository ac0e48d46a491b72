package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"reading-room-library/internal/firebase"
	"reading-room-library/internal/handlers"
	authmw "reading-room-library/internal/middleware"
	"reading-room-library/internal/session"
)

func main() {
	// Wczytaj zmienne środowiskowe z pliku .env
	if err := godotenv.Load(); err != nil {
		log.Println("Brak pliku .env - używam zmiennych systemowych")
	}

	// Pobierz port z zmiennych środowiskowych lub użyj domyślnego
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Inicjalizacja Firebase
	fbClient, err := firebase.InitFirebase()
	if err != nil {
		log.Printf("UWAGA: Firebase nie został zainicjalizowany: %v", err)
		log.Println("Aplikacja będzie działać w trybie bez bazy danych")
	} else {
		log.Println("Firebase zainicjalizowany pomyślnie")
	}

	// Inicjalizacja systemu sesji
	session.Init()
	log.Println("System sesji zainicjalizowany")

	// Inicjalizacja routera Chi
	r := chi.NewRouter()

	// Middleware do logowania requestów
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Middleware sesji - dodaj sesję do kontekstu każdego żądania
	r.Use(authmw.SessionMiddleware)

	// Serwowanie plików statycznych (CSS, awatary)
	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Inicjalizacja handlerów
	indexHandler := handlers.NewIndexHandler()
	authHandler := handlers.NewAuthHandler()
	booksHandler := handlers.NewBooksHandler()
	userHandler := handlers.NewUserHandler()
	profileHandler := handlers.NewProfileHandler()
	staffHandler := handlers.NewStaffHandler(fbClient)
	catalogHandler := handlers.NewCatalogHandler(fbClient)

	// Strona główna - publiczna
	r.Get("/", indexHandler.ServeHTTP)

	// Routy dla autoryzacji
	r.Get("/login", authHandler.ShowLoginPage)
	r.Post("/login", authHandler.HandleLogin)
	r.Get("/register", authHandler.ShowRegisterPage)
	r.Post("/register", authHandler.HandleRegister)
	r.Post("/logout", authHandler.HandleLogout)

	// Katalog - publiczne przeglądanie, rezerwacje po zalogowaniu
	r.Route("/books", func(r chi.Router) {
		r.Get("/", booksHandler.ListBooks)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth)
			r.Post("/{id}/reserve", booksHandler.ReserveBook)
			r.Post("/{id}/wishlist", booksHandler.AddToWishlist)
		})
	})

	// Panel czytelnika (dla zalogowanych)
	r.Route("/user", func(r chi.Router) {
		r.Use(authmw.RequireAuth)

		r.Get("/library", userHandler.ShowLibrary)
		r.Post("/library/{id}/unreserve", userHandler.UnreserveBook)
		r.Post("/library/{id}/unwish", userHandler.RemoveFromWishlist)

		r.Get("/reading-room", userHandler.ShowReadingRoom)
		r.Get("/reading-room/{id}/return", userHandler.ShowReturnForm)
		r.Post("/reading-room/{id}/return", userHandler.ReturnBook)

		r.Get("/reviews", userHandler.ShowReviews)
		r.Post("/reviews/{id}", userHandler.UpdateReview)

		r.Get("/profile", profileHandler.ShowProfile)
		r.Post("/profile", profileHandler.UpdateProfile)
	})

	// Panel bibliotekarza (tylko dla adminów)
	r.Route("/staff", func(r chi.Router) {
		r.Use(authmw.RequireAuth)
		r.Use(authmw.RequireAdmin)
		r.Get("/", staffHandler.ShowDashboard)

		// Lista oczekujących: wydania i zwroty
		r.Get("/waiting", staffHandler.ShowWaitingList)
		r.Post("/waiting/{id}/hand-in", staffHandler.HandInBook)
		r.Post("/waiting/{id}/unreserve", staffHandler.CancelReservation)
		r.Post("/waiting/{id}/accept", staffHandler.AcceptReturn)
		r.Post("/waiting/{id}/damaged", staffHandler.MarkDamaged)

		// Naprawy
		r.Get("/repairs", staffHandler.ShowRepairs)
		r.Post("/repairs/{id}/complete", staffHandler.MarkRepaired)

		// Zarządzanie katalogiem
		r.Get("/catalog/new", catalogHandler.ShowNewBookForm)
		r.Post("/catalog", catalogHandler.CreateBook)
		r.Get("/catalog/{id}/edit", catalogHandler.ShowEditBookForm)
		r.Post("/catalog/{id}", catalogHandler.UpdateBook)
		r.Get("/catalog/export", catalogHandler.ExportCSV)
		r.Post("/catalog/import", catalogHandler.ImportCSV)

		// Zarządzanie czytelnikami
		r.Get("/users", staffHandler.ListUsers)
		r.Get("/users/{uid}/edit", staffHandler.ShowEditUser)
		r.Post("/users/{uid}", staffHandler.UpdateUser)
		r.Post("/users/{uid}/reserve", staffHandler.ReserveForUser)
	})

	// Start serwera
	log.Printf("Serwer uruchomiony na porcie %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
