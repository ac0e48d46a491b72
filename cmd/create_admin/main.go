package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"reading-room-library/internal/firebase"
	"reading-room-library/internal/models"

	firebaseAuth "firebase.google.com/go/v4/auth"
)

func main() {
	// Wczytaj zmienne środowiskowe
	if err := godotenv.Load(); err != nil {
		log.Println("Brak pliku .env - używam zmiennych systemowych")
	}

	// Inicjalizacja Firebase
	client, err := firebase.InitFirebase()
	if err != nil {
		log.Fatalf("Błąd inicjalizacji Firebase: %v", err)
	}

	fmt.Println("=== Tworzenie konta bibliotekarza ===")

	// Dane bibliotekarza
	email := "admin@czytelnia.pl"
	password := "admin123"
	nickname := "Bibliotekarz"

	// Utwórz użytkownika w Firebase Auth
	params := (&firebaseAuth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(nickname)

	firebaseUser, err := client.Auth.CreateUser(client.GetContext(), params)
	if err != nil {
		log.Fatalf("Błąd tworzenia użytkownika w Firebase Auth: %v", err)
	}

	fmt.Printf("✓ Utworzono użytkownika Auth: %s (UID: %s)\n", email, firebaseUser.UID)

	// Utwórz rekord czytelnika w Firestore
	user := &models.UserRecord{
		UID:       firebaseUser.UID,
		Nickname:  nickname,
		Email:     email,
		CreatedAt: time.Now(),
	}

	if err := client.CreateUserRecord(user); err != nil {
		log.Fatalf("Błąd tworzenia rekordu w Firestore: %v", err)
	}

	fmt.Printf("✓ Utworzono rekord czytelnika: %s\n", user.UID)

	// Dopisz UID do globalnej listy administratorów
	if err := client.GrantAdmin(firebaseUser.UID); err != nil {
		log.Fatalf("Błąd nadawania uprawnień administratora: %v", err)
	}

	fmt.Println("✓ Nadano uprawnienia administratora")
	fmt.Println("\n=== Konto bibliotekarza utworzone pomyślnie ===")
	fmt.Printf("Email: %s\n", email)
	fmt.Printf("Hasło: %s\n", password)
	fmt.Println("\nMożesz teraz zalogować się do panelu bibliotekarza.")
}
