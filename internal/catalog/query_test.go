package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reading-room-library/internal/catalog"
	"reading-room-library/internal/models"
)

func testBooks() []*models.Book {
	lalka := &models.Book{
		ID:        "b1",
		Title:     "Lalka",
		Author:    "Bolesław Prus",
		Genres:    []string{"Klasyka"},
		Year:      1890,
		Publisher: "Ossolineum",
		Language:  "polski",
	}
	lalka.SetStatus(models.BookStatusAvailable)

	solaris := &models.Book{
		ID:        "b2",
		Title:     "Solaris",
		Author:    "Stanisław Lem",
		Genres:    []string{"Science Fiction"},
		Year:      1961,
		Publisher: "Wydawnictwo Literackie",
		Language:  "polski",
	}
	solaris.SetStatus(models.BookStatusCheckedOut)

	pragmatic := &models.Book{
		ID:        "b3",
		Title:     "The Pragmatic Programmer",
		Author:    "Andrew Hunt",
		Genres:    []string{"Informatyka"},
		Year:      1999,
		Publisher: "Addison-Wesley",
		Language:  "angielski",
	}
	pragmatic.SetStatus(models.BookStatusAvailable)

	return []*models.Book{lalka, solaris, pragmatic}
}

func titles(books []*models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	books := testBooks()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"puste zapytanie zwraca wszystko", "", []string{"Lalka", "Solaris", "The Pragmatic Programmer"}},
		{"po tytule", "solaris", []string{"Solaris"}},
		{"bez rozróżniania wielkości liter", "LALKA", []string{"Lalka"}},
		{"fragment tytułu", "pragma", []string{"The Pragmatic Programmer"}},
		{"po autorze", "lem", []string{"Solaris"}},
		{"po gatunku", "informatyka", []string{"The Pragmatic Programmer"}},
		{"po języku", "angielski", []string{"The Pragmatic Programmer"}},
		{"po wydawcy", "ossolineum", []string{"Lalka"}},
		{"po roku", "1961", []string{"Solaris"}},
		{"po identyfikatorze", "b2", []string{"Solaris"}},
		{"po etykiecie dostępności", "unavailable", []string{"Solaris"}},
		{"brak dopasowania", "wiedźmin", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := catalog.Filter(books, tc.query)
			assert.Equal(t, tc.want, titles(got))
		})
	}
}

func TestFilter_AvailableMatchesBothLabels(t *testing.T) {
	// "available" jest podłańcuchem "unavailable", więc to zapytanie
	// dopasowuje wszystkie książki
	books := testBooks()
	got := catalog.Filter(books, "available")
	assert.Len(t, got, len(books))
}

func TestSortBooks(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"po tytule", "title", []string{"Lalka", "Solaris", "The Pragmatic Programmer"}},
		{"po autorze", "author", []string{"The Pragmatic Programmer", "Lalka", "Solaris"}},
		{"po roku", "year", []string{"Lalka", "Solaris", "The Pragmatic Programmer"}},
		{"po języku", "language", []string{"The Pragmatic Programmer", "Lalka", "Solaris"}},
		{"po wydawcy", "publisher", []string{"The Pragmatic Programmer", "Lalka", "Solaris"}},
		{"nieznane pole sortuje po tytule", "shoe_size", []string{"Lalka", "Solaris", "The Pragmatic Programmer"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			books := testBooks()
			catalog.SortBooks(books, tc.field)
			assert.Equal(t, tc.want, titles(books))
		})
	}
}

func TestSortBooks_AvailabilityPutsAvailableFirst(t *testing.T) {
	books := testBooks()
	catalog.SortBooks(books, "availability")

	require.Len(t, books, 3)
	assert.True(t, books[0].IsAvailable())
	assert.True(t, books[1].IsAvailable())
	assert.False(t, books[2].IsAvailable())

	// Sortowanie jest stabilne: dostępne zachowują kolejność wejściową
	assert.Equal(t, []string{"Lalka", "The Pragmatic Programmer", "Solaris"}, titles(books))
}

func TestPaginate(t *testing.T) {
	books := make([]*models.Book, 45)
	for i := range books {
		books[i] = &models.Book{ID: string(rune('a' + i))}
	}

	t.Run("pierwsza strona", func(t *testing.T) {
		page := catalog.Paginate(books, 1, 20)
		require.Len(t, page, 20)
		assert.Same(t, books[0], page[0])
	})

	t.Run("ostatnia niepełna strona", func(t *testing.T) {
		page := catalog.Paginate(books, 3, 20)
		assert.Len(t, page, 5)
	})

	t.Run("strona poza zakresem zwraca pustą listę", func(t *testing.T) {
		assert.Empty(t, catalog.Paginate(books, 4, 20))
	})

	t.Run("numer strony poniżej 1 traktowany jak pierwsza", func(t *testing.T) {
		page := catalog.Paginate(books, 0, 20)
		require.Len(t, page, 20)
		assert.Same(t, books[0], page[0])
	})

	t.Run("pusta lista", func(t *testing.T) {
		assert.Empty(t, catalog.Paginate(nil, 1, 20))
	})
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, catalog.TotalPages(0, 20))
	assert.Equal(t, 1, catalog.TotalPages(1, 20))
	assert.Equal(t, 1, catalog.TotalPages(20, 20))
	assert.Equal(t, 2, catalog.TotalPages(21, 20))
	assert.Equal(t, 3, catalog.TotalPages(45, 20))
}

func TestCountAvailable(t *testing.T) {
	assert.Equal(t, 2, catalog.CountAvailable(testBooks()))
	assert.Equal(t, 0, catalog.CountAvailable(nil))
}

func TestTitleIndexResolve(t *testing.T) {
	idx := catalog.BuildTitleIndex(testBooks())

	t.Run("zachowuje kolejność wejściową", func(t *testing.T) {
		refs := idx.Resolve([]string{"b3", "b1"})
		require.Len(t, refs, 2)
		assert.Equal(t, "The Pragmatic Programmer", refs[0].Title)
		assert.Equal(t, "Lalka", refs[1].Title)
		assert.Equal(t, "Bolesław Prus", refs[1].Author)
	})

	t.Run("nieznany identyfikator dostaje zastępczy tytuł", func(t *testing.T) {
		refs := idx.Resolve([]string{"b1", "usunięta"})
		require.Len(t, refs, 2)
		assert.Equal(t, "usunięta", refs[1].BookID)
		assert.Equal(t, "Unknown Title", refs[1].Title)
		assert.Equal(t, "Unknown Author", refs[1].Author)
	})

	t.Run("pusta lista identyfikatorów", func(t *testing.T) {
		assert.Empty(t, idx.Resolve(nil))
	})
}
