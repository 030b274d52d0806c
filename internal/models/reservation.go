package models

import "time"

type Reservation struct {
	ID              int       `json:"reservation_id" db:"reservation_id"`
	ParkingLotID    int       `json:"parking_lot_id" db:"parking_lot_id"`
	UserID          int       `json:"user_id" db:"user_id"`
	CarID           int       `json:"car_id" db:"car_id"`
	ReservationDate string    `json:"reservation_date" db:"reservation_date"`
	EndDate         string    `json:"end_date" db:"end_date"`
	StartTime       string    `json:"start_time" db:"start_time"`
	EndTime         string    `json:"end_time" db:"end_time"`
	PricePerHour    float64   `json:"price_per_hour" db:"price_per_hour"`
	TotalPrice      float64   `json:"total_price" db:"total_price"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// ReservationRequest mirrors the payment dialog payload. Price is the
// formatted lot price ("50 THB/hr"); PricePerHour is accepted from clients
// that already parsed it.
type ReservationRequest struct {
	ParkingLotID    int     `json:"parkingLotId"`
	UserID          int     `json:"userId"`
	CarID           int     `json:"carId"`
	ReservationDate string  `json:"reservationDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Price           string  `json:"price,omitempty"`
	PricePerHour    float64 `json:"pricePerHour,omitempty"`
}

type ReservationQuote struct {
	Hours          float64   `json:"hours"`
	PricePerHour   float64   `json:"pricePerHour"`
	TotalPrice     float64   `json:"totalPrice"`
	TotalFormatted string    `json:"totalFormatted"`
	StartAt        time.Time `json:"startAt"`
	EndAt          time.Time `json:"endAt"`
}

// ReservationEvent is pushed to the lessor who owns the reserved lot.
type ReservationEvent struct {
	Type        string      `json:"type"`
	LessorID    int         `json:"lessor_id"`
	Reservation Reservation `json:"reservation"`
}
