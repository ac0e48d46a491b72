package lending

import (
	"fmt"

	"reading-room-library/internal/models"
)

// Transition określa nazwaną operację cyklu wypożyczenia
type Transition string

const (
	TransitionReserve        Transition = "reserve"
	TransitionUnreserve      Transition = "unreserve"
	TransitionHandIn         Transition = "hand_in"
	TransitionReturn         Transition = "return"
	TransitionMarkDamaged    Transition = "mark_damaged"
	TransitionRepairComplete Transition = "repair_complete"
)

// transitionTable mapuje stan książki na operacje dozwolone w tym stanie
// oraz stan docelowy. Jawna tabela zastępuje luźne sprawdzanie pola
// availability - rezerwacja wypożyczonej książki jest niemożliwa już na
// poziomie stanów.
var transitionTable = map[models.BookStatus]map[Transition]models.BookStatus{
	models.BookStatusAvailable: {
		TransitionReserve: models.BookStatusReserved,
	},
	models.BookStatusReserved: {
		TransitionUnreserve: models.BookStatusAvailable,
		TransitionHandIn:    models.BookStatusCheckedOut,
	},
	models.BookStatusCheckedOut: {
		TransitionReturn: models.BookStatusPendingReturn,
	},
	models.BookStatusPendingReturn: {
		TransitionMarkDamaged:    models.BookStatusAwaitingRepair,
		TransitionRepairComplete: models.BookStatusAvailable,
	},
	models.BookStatusAwaitingRepair: {
		TransitionRepairComplete: models.BookStatusAvailable,
	},
}

// CanApply sprawdza czy operacja jest dozwolona w danym stanie książki
func CanApply(status models.BookStatus, transition Transition) bool {
	_, ok := transitionTable[status][transition]
	return ok
}

// NextStatus zwraca stan docelowy dla operacji wykonanej w danym stanie
func NextStatus(status models.BookStatus, transition Transition) (models.BookStatus, error) {
	next, ok := transitionTable[status][transition]
	if !ok {
		return "", fmt.Errorf("operacja %s jest niedozwolona w stanie %s", transition, status)
	}
	return next, nil
}
