package flow

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ChanaPCN/parkify-app/internal/client"
	"github.com/ChanaPCN/parkify-app/internal/models"
	"github.com/ChanaPCN/parkify-app/internal/pricing"
)

type ReservationAPI interface {
	CreateReservation(ctx context.Context, idemKey string, req models.ReservationRequest) (models.Reservation, error)
}

// ReservationFlow is the payment dialog: Idle -> Confirming -> Success.
type ReservationFlow struct {
	api ReservationAPI

	state       State
	req         models.ReservationRequest
	quote       models.ReservationQuote
	reservation models.Reservation
	messages    []string
	idemKey     string
}

func NewReservationFlow(api ReservationAPI) *ReservationFlow {
	return &ReservationFlow{api: api, state: StateIdle}
}

func (f *ReservationFlow) State() State                    { return f.state }
func (f *ReservationFlow) Quote() models.ReservationQuote  { return f.quote }
func (f *ReservationFlow) Reservation() models.Reservation { return f.reservation }
func (f *ReservationFlow) Messages() []string              { return f.messages }

// Pay validates req and prices it locally. On failure the dialog stays closed
// and Messages explains why.
func (f *ReservationFlow) Pay(req models.ReservationRequest) error {
	if f.state != StateIdle {
		return ErrInvalidTransition
	}
	q, err := pricing.Quote(req)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			f.messages = verr.Messages
		} else {
			f.messages = []string{err.Error()}
		}
		return err
	}
	f.req = req
	f.quote = q
	f.messages = nil
	f.idemKey = uuid.NewString()
	return step(reservationTransitions, &f.state, StateConfirming)
}

// Confirm submits the reservation. A rejected request keeps the dialog open
// with the server's message.
func (f *ReservationFlow) Confirm(ctx context.Context) error {
	if f.state != StateConfirming {
		return ErrInvalidTransition
	}
	res, err := f.api.CreateReservation(ctx, f.idemKey, f.req)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			f.messages = []string{apiErr.Message}
		} else {
			f.messages = []string{err.Error()}
		}
		return err
	}
	f.reservation = res
	f.messages = nil
	return step(reservationTransitions, &f.state, StateSuccess)
}

func (f *ReservationFlow) Cancel() error {
	if f.state != StateConfirming {
		return ErrInvalidTransition
	}
	return f.reset()
}

func (f *ReservationFlow) Close() error {
	if f.state != StateSuccess {
		return ErrInvalidTransition
	}
	return f.reset()
}

func (f *ReservationFlow) reset() error {
	if err := step(reservationTransitions, &f.state, StateIdle); err != nil {
		return err
	}
	f.req = models.ReservationRequest{}
	f.quote = models.ReservationQuote{}
	f.reservation = models.Reservation{}
	f.messages = nil
	f.idemKey = ""
	return nil
}
