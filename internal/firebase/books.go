package firebase

import (
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"reading-room-library/internal/models"
)

const (
	// BooksCollection to nazwa kolekcji książek w Firestore
	BooksCollection = "books"
)

// GetBook pobiera książkę po ID
func (c *Client) GetBook(id string) (*models.Book, error) {
	if id == "" {
		return nil, fmt.Errorf("ID książki nie może być puste")
	}

	doc, err := c.Firestore.Collection(BooksCollection).Doc(id).Get(c.ctx)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania książki: %w", err)
	}

	var book models.Book
	if err := doc.DataTo(&book); err != nil {
		return nil, fmt.Errorf("błąd parsowania danych książki: %w", err)
	}

	// Ustaw ID z dokumentu Firestore i uzupełnij stan starych rekordów
	book.ID = doc.Ref.ID
	book.Normalize()

	return &book, nil
}

// CreateBook dodaje nową książkę do katalogu. Nowa książka zawsze
// zaczyna w stanie dostępnym.
func (c *Client) CreateBook(book *models.Book) error {
	if book == nil {
		return fmt.Errorf("książka nie może być nil")
	}

	// Walidacja podstawowych pól
	if book.Title == "" {
		return fmt.Errorf("tytuł książki jest wymagany")
	}
	if book.Author == "" {
		return fmt.Errorf("autor książki jest wymagany")
	}

	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	book.SetStatus(models.BookStatusAvailable)

	// Jeśli nie ma ID, Firestore wygeneruje automatycznie
	var docRef *firestore.DocumentRef
	if book.ID == "" {
		docRef = c.Firestore.Collection(BooksCollection).NewDoc()
		book.ID = docRef.ID
	} else {
		docRef = c.Firestore.Collection(BooksCollection).Doc(book.ID)
	}

	_, err := docRef.Set(c.ctx, book)
	if err != nil {
		return fmt.Errorf("błąd zapisywania książki: %w", err)
	}

	return nil
}

// UpdateBookDetails aktualizuje metadane książki (tytuł, autor, gatunki,
// rok, wydawca, język). Stan dostępności modyfikuje wyłącznie koordynator
// wypożyczeń, więc to pole jest tu pomijane.
func (c *Client) UpdateBookDetails(id string, details *models.Book) error {
	if id == "" {
		return fmt.Errorf("ID książki nie może być puste")
	}
	if details == nil {
		return fmt.Errorf("dane książki nie mogą być nil")
	}
	if details.Title == "" || details.Author == "" {
		return fmt.Errorf("tytuł i autor są wymagane")
	}

	// Sprawdź czy książka istnieje
	if _, err := c.GetBook(id); err != nil {
		return fmt.Errorf("książka nie istnieje: %w", err)
	}

	_, err := c.Firestore.Collection(BooksCollection).Doc(id).Update(c.ctx, []firestore.Update{
		{Path: "title", Value: details.Title},
		{Path: "author", Value: details.Author},
		{Path: "genres", Value: details.Genres},
		{Path: "year", Value: details.Year},
		{Path: "publisher", Value: details.Publisher},
		{Path: "language", Value: details.Language},
		{Path: "updated_at", Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("błąd aktualizacji książki: %w", err)
	}

	return nil
}

// ListBooks pobiera wszystkie książki posortowane rosnąco po wskazanym
// polu (domyślnie po tytule). Filtrowanie podłańcuchowe odbywa się potem
// po stronie aplikacji w pakiecie catalog.
func (c *Client) ListBooks(sortBy string) ([]*models.Book, error) {
	if !isBookSortField(sortBy) {
		sortBy = "title"
	}

	var books []*models.Book

	iter := c.Firestore.Collection(BooksCollection).
		OrderBy(sortBy, firestore.Asc).
		Documents(c.ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("błąd iteracji po książkach: %w", err)
		}

		var book models.Book
		if err := doc.DataTo(&book); err != nil {
			return nil, fmt.Errorf("błąd parsowania książki: %w", err)
		}

		book.ID = doc.Ref.ID
		book.Normalize()

		books = append(books, &book)
	}

	return books, nil
}

// GetBooksByIDs pobiera wiele książek jednym zbiorczym odczytem zamiast
// osobnego zapytania na każdy identyfikator. Brakujące dokumenty są
// pomijane - projekcja tytułów uzupełni je zastępczą wartością.
func (c *Client) GetBooksByIDs(ids []string) ([]*models.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		refs = append(refs, c.Firestore.Collection(BooksCollection).Doc(id))
	}

	docs, err := c.Firestore.GetAll(c.ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("błąd zbiorczego pobierania książek: %w", err)
	}

	books := make([]*models.Book, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}

		var book models.Book
		if err := doc.DataTo(&book); err != nil {
			return nil, fmt.Errorf("błąd parsowania książki: %w", err)
		}

		book.ID = doc.Ref.ID
		book.Normalize()

		books = append(books, &book)
	}

	return books, nil
}

// CountTotalBooks zwraca całkowitą liczbę książek w katalogu
func (c *Client) CountTotalBooks() (int, error) {
	docs, err := c.Firestore.Collection(BooksCollection).Documents(c.ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("błąd liczenia książek: %w", err)
	}
	return len(docs), nil
}

// isBookSortField sprawdza czy pole jest dozwolone w OrderBy
func isBookSortField(field string) bool {
	switch field {
	case "title", "author", "genres", "year", "language", "publisher", "availability":
		return true
	}
	return false
}
