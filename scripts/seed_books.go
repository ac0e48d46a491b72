package main

import (
	"log"

	"reading-room-library/internal/firebase"
	"reading-room-library/internal/models"
)

func main() {
	// Inicjalizacja Firebase
	fbClient, err := firebase.InitFirebase()
	if err != nil {
		log.Fatalf("Błąd inicjalizacji Firebase: %v", err)
	}

	log.Println("Dodawanie przykładowych książek do bazy danych...")

	books := []models.Book{
		{
			Title:     "Wiedźmin: Ostatnie życzenie",
			Author:    "Andrzej Sapkowski",
			Genres:    []string{"Fantasy"},
			Year:      1993,
			Publisher: "SuperNowa",
			Language:  "polski",
		},
		{
			Title:     "Zbrodnia i kara",
			Author:    "Fiodor Dostojewski",
			Genres:    []string{"Klasyka"},
			Year:      1866,
			Publisher: "Świat Książki",
			Language:  "polski",
		},
		{
			Title:     "Sapiens: Od zwierząt do bogów",
			Author:    "Yuval Noah Harari",
			Genres:    []string{"Popularnonaukowa", "Historia"},
			Year:      2011,
			Publisher: "Wydawnictwo Literackie",
			Language:  "polski",
		},
		{
			Title:     "Rok 1984",
			Author:    "George Orwell",
			Genres:    []string{"Science Fiction", "Dystopia"},
			Year:      1949,
			Publisher: "Muza",
			Language:  "polski",
		},
		{
			Title:     "Atomowe nawyki",
			Author:    "James Clear",
			Genres:    []string{"Rozwój osobisty"},
			Year:      2018,
			Publisher: "Znak Literanova",
			Language:  "polski",
		},
		{
			Title:     "Lalka",
			Author:    "Bolesław Prus",
			Genres:    []string{"Klasyka"},
			Year:      1890,
			Publisher: "Ossolineum",
			Language:  "polski",
		},
		{
			Title:     "Solaris",
			Author:    "Stanisław Lem",
			Genres:    []string{"Science Fiction"},
			Year:      1961,
			Publisher: "Wydawnictwo Literackie",
			Language:  "polski",
		},
		{
			Title:     "The Pragmatic Programmer",
			Author:    "Andrew Hunt, David Thomas",
			Genres:    []string{"Informatyka"},
			Year:      1999,
			Publisher: "Addison-Wesley",
			Language:  "angielski",
		},
	}

	added := 0
	for i := range books {
		if err := fbClient.CreateBook(&books[i]); err != nil {
			log.Printf("Błąd dodawania książki %q: %v", books[i].Title, err)
			continue
		}
		log.Printf("Dodano: %s - %s", books[i].Author, books[i].Title)
		added++
	}

	log.Printf("Zakończono: dodano %d z %d książek", added, len(books))
}
