package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

type ParkingLotRepository struct {
	DB *sqlx.DB
}

// GetParkingLotByID loads a lot with its lessor's phone for the reservation dialog.
func (r *ParkingLotRepository) GetParkingLotByID(ctx context.Context, id int) (models.ParkingLot, error) {
	query := `SELECT p.parking_lot_id, p.lessor_id, p.location_name, p.address, p.location_url, p.price, l.lessor_phone_number
		FROM parking_lot p
		LEFT JOIN lessor l ON l.lessor_id = p.lessor_id
		WHERE p.parking_lot_id = ?`
	var lot models.ParkingLot
	if err := r.DB.GetContext(ctx, &lot, r.DB.Rebind(query), id); err != nil {
		return models.ParkingLot{}, notFound(err)
	}
	return lot, nil
}
