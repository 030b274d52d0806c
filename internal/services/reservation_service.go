package services

import (
	"context"
	"log"
	"strconv"

	"github.com/ChanaPCN/parkify-app/internal/models"
	"github.com/ChanaPCN/parkify-app/internal/pricing"
)

const ReservationCreatedEvent = "reservation.created"

type ReservationStore interface {
	CreateReservation(ctx context.Context, res models.Reservation) (int, error)
	GetReservationByID(ctx context.Context, id int) (models.Reservation, error)
}

type ParkingLotStore interface {
	GetParkingLotByID(ctx context.Context, id int) (models.ParkingLot, error)
}

// Notifier delivers an event to a connected lessor.
type Notifier interface {
	NotifyLessor(lessorID int, event models.ReservationEvent) error
}

type ReservationService struct {
	ReservationRepo ReservationStore
	ParkingLotRepo  ParkingLotStore
	Notifier        Notifier
	Idempotency     *IdempotencyStore
	ErrorLog        *log.Logger
}

func (s *ReservationService) Quote(req models.ReservationRequest) (models.ReservationQuote, error) {
	return pricing.Quote(req)
}

// CreateReservation recomputes the total from req, stores the reservation and
// tells the lot's lessor. A failed notification does not fail the reservation.
func (s *ReservationService) CreateReservation(ctx context.Context, idemKey string, req models.ReservationRequest) (models.Reservation, error) {
	scope := "reservation:" + strconv.Itoa(req.UserID)
	return Idempotent(ctx, s.Idempotency, scope, idemKey, func() (models.Reservation, error) {
		return s.create(ctx, req)
	})
}

func (s *ReservationService) create(ctx context.Context, req models.ReservationRequest) (models.Reservation, error) {
	quote, err := pricing.Quote(req)
	if err != nil {
		return models.Reservation{}, err
	}

	lot, err := s.ParkingLotRepo.GetParkingLotByID(ctx, req.ParkingLotID)
	if err != nil {
		return models.Reservation{}, err
	}

	res := models.Reservation{
		ParkingLotID:    req.ParkingLotID,
		UserID:          req.UserID,
		CarID:           req.CarID,
		ReservationDate: quote.StartAt.Format("2006-01-02"),
		EndDate:         quote.EndAt.Format("2006-01-02"),
		StartTime:       quote.StartAt.Format("15:04"),
		EndTime:         quote.EndAt.Format("15:04"),
		PricePerHour:    quote.PricePerHour,
		TotalPrice:      quote.TotalPrice,
	}
	id, err := s.ReservationRepo.CreateReservation(ctx, res)
	if err != nil {
		return models.Reservation{}, err
	}
	res.ID = id

	stored, err := s.ReservationRepo.GetReservationByID(ctx, id)
	if err != nil {
		s.logf("reload reservation %d: %v", id, err)
	} else {
		res = stored
	}

	s.notify(lot.LessorID, res)
	return res, nil
}

func (s *ReservationService) notify(lessorID int, res models.Reservation) {
	if s.Notifier == nil || lessorID == 0 {
		return
	}
	event := models.ReservationEvent{Type: ReservationCreatedEvent, LessorID: lessorID, Reservation: res}
	if err := s.Notifier.NotifyLessor(lessorID, event); err != nil {
		s.logf("notify lessor %d of reservation %d: %v", lessorID, res.ID, err)
	}
}

func (s *ReservationService) logf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
	}
}

// GetParkingLot returns the lot details shown in the reservation dialog.
func (s *ReservationService) GetParkingLot(ctx context.Context, id int) (models.ParkingLot, error) {
	return s.ParkingLotRepo.GetParkingLotByID(ctx, id)
}
