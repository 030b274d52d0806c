package flow

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/ChanaPCN/parkify-app/internal/client"
)

var ErrMissingID = errors.New("flow: record id is missing")

// RecordAPI loads, saves and deletes one kind of record. U holds only the
// fields a user may edit.
type RecordAPI[R any, U any] interface {
	Get(ctx context.Context, id int) (R, error)
	Update(ctx context.Context, id int, u U) (R, error)
	Delete(ctx context.Context, id int) error
}

// Editor drives a view/edit page for a single record.
type Editor[R any, U any] struct {
	api      RecordAPI[R, U]
	editable func(R) U

	state    State
	id       int
	record   R
	draft    U
	err      error
	redirect bool
}

// NewEditor returns an idle editor. editable projects a loaded record onto
// its mutable fields.
func NewEditor[R any, U any](api RecordAPI[R, U], editable func(R) U) *Editor[R, U] {
	return &Editor[R, U]{api: api, editable: editable, state: StateIdle}
}

func (e *Editor[R, U]) State() State   { return e.state }
func (e *Editor[R, U]) ID() int        { return e.id }
func (e *Editor[R, U]) Record() R      { return e.record }
func (e *Editor[R, U]) Draft() U       { return e.draft }
func (e *Editor[R, U]) Err() error     { return e.err }
func (e *Editor[R, U]) Redirect() bool { return e.redirect }

// Load fetches the record named by rawID. A missing or malformed id fails
// with ErrMissingID before any request is made. A record the server does not
// know also asks the page to redirect.
func (e *Editor[R, U]) Load(ctx context.Context, rawID string) error {
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || id <= 0 {
		e.fail(ErrMissingID, true)
		return ErrMissingID
	}
	if err := step(editorTransitions, &e.state, StateLoading); err != nil {
		return err
	}

	rec, err := e.api.Get(ctx, id)
	if err != nil {
		var apiErr *client.APIError
		e.fail(err, errors.As(err, &apiErr) && apiErr.NotFound())
		return err
	}
	e.id = id
	e.record = rec
	e.err = nil
	e.state = StateViewing
	return nil
}

func (e *Editor[R, U]) fail(err error, redirect bool) {
	e.err = err
	e.redirect = redirect
	e.state = StateError
}

func (e *Editor[R, U]) StartEdit() error {
	if err := step(editorTransitions, &e.state, StateEditing); err != nil {
		return err
	}
	e.draft = e.editable(e.record)
	return nil
}

// SetDraft replaces the pending edits. It is only valid while editing.
func (e *Editor[R, U]) SetDraft(u U) error {
	if e.state != StateEditing {
		return ErrInvalidTransition
	}
	e.draft = u
	return nil
}

func (e *Editor[R, U]) CancelEdit() error {
	if e.state != StateEditing {
		return ErrInvalidTransition
	}
	var zero U
	e.draft = zero
	e.state = StateViewing
	return nil
}

// Save sends the draft for the loaded id. On failure the editor stays in
// editing mode with the draft intact.
func (e *Editor[R, U]) Save(ctx context.Context) error {
	if e.state != StateEditing {
		return ErrInvalidTransition
	}
	e.state = StateSaving

	rec, err := e.api.Update(ctx, e.id, e.draft)
	if err != nil {
		e.err = err
		e.state = StateEditing
		return err
	}
	e.record = rec
	e.err = nil
	e.state = StateViewing
	return nil
}

// Delete asks confirm first and calls the API only when it returns true. It
// reports whether the record was deleted.
func (e *Editor[R, U]) Delete(ctx context.Context, confirm func() bool) (bool, error) {
	if e.state != StateViewing {
		return false, ErrInvalidTransition
	}
	if confirm == nil || !confirm() {
		return false, nil
	}
	e.state = StateDeleting

	if err := e.api.Delete(ctx, e.id); err != nil {
		e.err = err
		e.state = StateViewing
		return false, err
	}
	e.state = StateDeleted
	e.redirect = true
	return true, nil
}
