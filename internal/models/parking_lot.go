package models

import "gopkg.in/guregu/null.v4"

type ParkingLot struct {
	ID          int         `json:"parking_lot_id" db:"parking_lot_id"`
	LessorID    int         `json:"lessor_id" db:"lessor_id"`
	ParkingCode string      `json:"parkingCode" db:"location_name"`
	Address     string      `json:"address" db:"address"`
	LocationURL string      `json:"locationUrl" db:"location_url"`
	Price       string      `json:"price" db:"price"`
	LessorPhone null.String `json:"lessorPhone" db:"lessor_phone_number"`
}
