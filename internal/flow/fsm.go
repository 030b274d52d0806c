// Package flow holds the page-level state machines of the parkify client: the
// record editor (view, edit, save, delete) and the reservation payment dialog.
package flow

import (
	"errors"
	"fmt"
)

type State string

// Editor states.
const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateViewing  State = "viewing"
	StateEditing  State = "editing"
	StateSaving   State = "saving"
	StateDeleting State = "deleting"
	StateDeleted  State = "deleted"
	StateError    State = "error"
)

// Reservation dialog states.
const (
	StateConfirming State = "confirming"
	StateSuccess    State = "success"
)

var ErrInvalidTransition = errors.New("flow: invalid state transition")

var editorTransitions = map[State]map[State]struct{}{
	StateIdle:     {StateLoading: {}, StateError: {}},
	StateLoading:  {StateViewing: {}, StateError: {}},
	StateViewing:  {StateEditing: {}, StateDeleting: {}, StateLoading: {}},
	StateEditing:  {StateViewing: {}, StateSaving: {}},
	StateSaving:   {StateViewing: {}, StateEditing: {}},
	StateDeleting: {StateDeleted: {}, StateViewing: {}},
	StateDeleted:  {},
	StateError:    {StateLoading: {}},
}

var reservationTransitions = map[State]map[State]struct{}{
	StateIdle:       {StateConfirming: {}},
	StateConfirming: {StateIdle: {}, StateSuccess: {}},
	StateSuccess:    {StateIdle: {}},
}

func canTransition(table map[State]map[State]struct{}, from, to State) bool {
	if from == to {
		return true
	}
	allowed, ok := table[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// CanTransition reports whether the editor may move from one state to another.
func CanTransition(from, to State) bool {
	return canTransition(editorTransitions, from, to)
}

func step(table map[State]map[State]struct{}, cur *State, to State) error {
	if !canTransition(table, *cur, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, *cur, to)
	}
	*cur = to
	return nil
}
