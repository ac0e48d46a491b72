// Package catalog implementuje warstwę zapytań katalogu: filtrowanie
// podłańcuchowe, sortowanie po jednym polu, arytmetykę stronicowania oraz
// projekcję identyfikator -> tytuł budowaną przy odczycie. Filtrowanie
// działa po stronie aplikacji na pobranym zbiorze - przy skali setek do
// kilku tysięcy rekordów to wystarcza.
package catalog

import (
	"sort"
	"strconv"
	"strings"

	"reading-room-library/internal/models"
)

// BooksPerPage to stały rozmiar strony katalogu
const BooksPerPage = 20

// Filter zwraca książki pasujące do zapytania. Dopasowanie jest
// podłańcuchowe, bez rozróżniania wielkości liter, po identyfikatorze,
// tytule, autorze, gatunkach, języku, wydawcy, roku oraz etykiecie
// dostępności ("available"/"unavailable"). Puste zapytanie zwraca
// wszystkie książki.
func Filter(books []*models.Book, query string) []*models.Book {
	if query == "" {
		return books
	}

	needle := strings.ToLower(query)
	var results []*models.Book

	for _, book := range books {
		if matchesBook(book, needle) {
			results = append(results, book)
		}
	}

	return results
}

func matchesBook(book *models.Book, needle string) bool {
	if strings.Contains(strings.ToLower(book.ID), needle) ||
		strings.Contains(strings.ToLower(book.Title), needle) ||
		strings.Contains(strings.ToLower(book.Author), needle) ||
		strings.Contains(strings.ToLower(book.Language), needle) ||
		strings.Contains(strings.ToLower(book.Publisher), needle) ||
		strings.Contains(strconv.Itoa(book.Year), needle) ||
		strings.Contains(book.AvailabilityLabel(), needle) {
		return true
	}

	for _, genre := range book.Genres {
		if strings.Contains(strings.ToLower(genre), needle) {
			return true
		}
	}

	return false
}

// SortBooks sortuje książki rosnąco po wskazanym polu. Nieznane pole
// sortuje po tytule. Sortowanie jest stabilne, więc powtórne wywołania na
// niezmienionych danych dają ten sam porządek.
func SortBooks(books []*models.Book, field string) {
	less := func(a, b *models.Book) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}

	switch field {
	case "author":
		less = func(a, b *models.Book) bool {
			return strings.ToLower(a.Author) < strings.ToLower(b.Author)
		}
	case "genres":
		less = func(a, b *models.Book) bool {
			return strings.ToLower(strings.Join(a.Genres, ", ")) < strings.ToLower(strings.Join(b.Genres, ", "))
		}
	case "year":
		less = func(a, b *models.Book) bool {
			return a.Year < b.Year
		}
	case "language":
		less = func(a, b *models.Book) bool {
			return strings.ToLower(a.Language) < strings.ToLower(b.Language)
		}
	case "publisher":
		less = func(a, b *models.Book) bool {
			return strings.ToLower(a.Publisher) < strings.ToLower(b.Publisher)
		}
	case "availability":
		// Dostępne książki przed niedostępnymi
		less = func(a, b *models.Book) bool {
			return a.IsAvailable() && !b.IsAvailable()
		}
	}

	sort.SliceStable(books, func(i, j int) bool {
		return less(books[i], books[j])
	})
}

// Paginate wycina stronę o numerze page (liczone od 1) przy rozmiarze
// strony pageSize. Strona poza zakresem zwraca pustą listę.
func Paginate(books []*models.Book, page, pageSize int) []*models.Book {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start >= len(books) {
		return nil
	}

	end := start + pageSize
	if end > len(books) {
		end = len(books)
	}

	return books[start:end]
}

// TotalPages zwraca liczbę stron dla danej liczby rekordów
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	return (total + pageSize - 1) / pageSize
}

// CountAvailable zwraca liczbę dostępnych książek
func CountAvailable(books []*models.Book) int {
	count := 0
	for _, book := range books {
		if book.IsAvailable() {
			count++
		}
	}
	return count
}

// BookRef to wynik projekcji: identyfikator z dołączonym tytułem i autorem
type BookRef struct {
	BookID string
	Title  string
	Author string
}

// TitleIndex mapuje identyfikatory książek na tytuły i autorów. Budowany
// przy odczycie z katalogu, zamiast utrzymywania zdenormalizowanych kopii
// w rekordach użytkowników.
type TitleIndex map[string]BookRef

// BuildTitleIndex buduje indeks z listy książek
func BuildTitleIndex(books []*models.Book) TitleIndex {
	index := make(TitleIndex, len(books))
	for _, book := range books {
		index[book.ID] = BookRef{
			BookID: book.ID,
			Title:  book.Title,
			Author: book.Author,
		}
	}
	return index
}

// Resolve zamienia listę identyfikatorów na listę referencji z tytułami,
// zachowując kolejność wejściową. Nieznane identyfikatory dostają
// zastępczy tytuł, żeby lista zawsze miała tę samą długość co wejście.
func (idx TitleIndex) Resolve(bookIDs []string) []BookRef {
	refs := make([]BookRef, 0, len(bookIDs))
	for _, id := range bookIDs {
		if ref, ok := idx[id]; ok {
			refs = append(refs, ref)
			continue
		}
		refs = append(refs, BookRef{
			BookID: id,
			Title:  "Unknown Title",
			Author: "Unknown Author",
		})
	}
	return refs
}
