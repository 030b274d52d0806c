package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

const dateLayout = "2006-01-02"

type ReservationRepository struct {
	DB *sqlx.DB
}

// sqlDate scans a DATE column as YYYY-MM-DD whichever way the driver hands it
// over: pgx returns time.Time, MySQL without parseTime returns bytes.
type sqlDate string

func (d *sqlDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = sqlDate(v.Format(dateLayout))
	case []byte:
		return d.Scan(string(v))
	case string:
		if len(v) > len(dateLayout) {
			v = v[:len(dateLayout)]
		}
		if _, err := time.Parse(dateLayout, v); err != nil {
			return fmt.Errorf("scan date %q: %w", v, err)
		}
		*d = sqlDate(v)
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
	return nil
}

type reservationRow struct {
	ID              int       `db:"reservation_id"`
	ParkingLotID    int       `db:"parking_lot_id"`
	UserID          int       `db:"user_id"`
	CarID           int       `db:"car_id"`
	ReservationDate sqlDate   `db:"reservation_date"`
	EndDate         sqlDate   `db:"end_date"`
	StartTime       string    `db:"start_time"`
	EndTime         string    `db:"end_time"`
	PricePerHour    float64   `db:"price_per_hour"`
	TotalPrice      float64   `db:"total_price"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r reservationRow) model() models.Reservation {
	return models.Reservation{
		ID:              r.ID,
		ParkingLotID:    r.ParkingLotID,
		UserID:          r.UserID,
		CarID:           r.CarID,
		ReservationDate: string(r.ReservationDate),
		EndDate:         string(r.EndDate),
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		PricePerHour:    r.PricePerHour,
		TotalPrice:      r.TotalPrice,
		CreatedAt:       r.CreatedAt,
	}
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res models.Reservation) (int, error) {
	query := `INSERT INTO reservation (parking_lot_id, user_id, car_id, reservation_date, end_date, start_time, end_time, price_per_hour, total_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return insertReturningID(ctx, r.DB, query, "reservation_id",
		res.ParkingLotID, res.UserID, res.CarID, res.ReservationDate, res.EndDate, res.StartTime, res.EndTime,
		res.PricePerHour, res.TotalPrice)
}

func (r *ReservationRepository) GetReservationByID(ctx context.Context, id int) (models.Reservation, error) {
	query := `SELECT reservation_id, parking_lot_id, user_id, car_id, reservation_date, end_date, start_time, end_time,
		price_per_hour, total_price, created_at
		FROM reservation WHERE reservation_id = ?`
	var row reservationRow
	if err := r.DB.GetContext(ctx, &row, r.DB.Rebind(query), id); err != nil {
		return models.Reservation{}, notFound(err)
	}
	return row.model(), nil
}
