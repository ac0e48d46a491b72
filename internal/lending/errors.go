package lending

import "errors"

// Błędy zwracane przez koordynatora wypożyczeń. Warstwa HTTP rozpoznaje
// je przez errors.Is i tłumaczy na odpowiedni status.
var (
	// ErrAlreadyReserved - książka nie jest dostępna do rezerwacji
	ErrAlreadyReserved = errors.New("książka jest już zarezerwowana")

	// ErrNotFound - brak książki, rezerwacji lub oczekującego zwrotu
	ErrNotFound = errors.New("rekord nie został znaleziony")

	// ErrUnauthorized - operacja na cudzej rezerwacji bez uprawnień
	// administratora albo konto z zablokowanym dostępem do czytelni
	ErrUnauthorized = errors.New("brak uprawnień do wykonania operacji")

	// ErrValidationFailed - nieprawidłowe dane wejściowe (np. ocena poza
	// zakresem); sprawdzane przed jakimkolwiek zapisem
	ErrValidationFailed = errors.New("walidacja danych nie powiodła się")

	// ErrRemoteUnavailable - błąd komunikacji z bazą dokumentów; cała
	// operacja zostaje wycofana bez częściowych efektów
	ErrRemoteUnavailable = errors.New("baza danych jest niedostępna")
)
