package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ChanaPCN/parkify-app/internal/models"
	"github.com/ChanaPCN/parkify-app/internal/timeutil"
)

// DateRangeSeparator splits "2024-03-01 - 2024-03-02" into start and end dates.
const DateRangeSeparator = " - "

const InvalidDetailsMessage = "Invalid reservation details. Please ensure dates and times are correct."

var (
	errBadRate   = errors.New("pricing: price per hour is not a number")
	errBadWindow = errors.New("pricing: reservation window is not parsable")
)

var layouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

// Missing lists a message for every required field absent from req.
func Missing(req models.ReservationRequest) []string {
	var msgs []string
	if strings.TrimSpace(req.ReservationDate) == "" {
		msgs = append(msgs, "Reservation date is missing.")
	}
	if strings.TrimSpace(req.StartTime) == "" {
		msgs = append(msgs, "Start time is missing.")
	}
	if strings.TrimSpace(req.EndTime) == "" {
		msgs = append(msgs, "End time is missing.")
	}
	if strings.TrimSpace(req.Price) == "" && req.PricePerHour == 0 {
		msgs = append(msgs, "Price is missing.")
	}
	if req.UserID == 0 {
		msgs = append(msgs, "Renter ID is missing.")
	}
	if req.CarID == 0 {
		msgs = append(msgs, "Car ID is missing.")
	}
	if req.ParkingLotID == 0 {
		msgs = append(msgs, "Parking Lot ID is missing.")
	}
	return msgs
}

// ParseRate extracts the hourly rate from a formatted price such as "50 THB/hr".
func ParseRate(price string) (float64, error) {
	fields := strings.Fields(price)
	if len(fields) == 0 {
		return 0, errBadRate
	}
	rate, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return 0, errBadRate
	}
	return rate, nil
}

// ParseWindow combines the date range with start and end clock times. The
// range must name both dates, even for a same-day reservation.
func ParseWindow(dateRange, startTime, endTime string, loc *time.Location) (time.Time, time.Time, error) {
	parts := strings.SplitN(dateRange, DateRangeSeparator, 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, errBadWindow
	}

	start, err := parseDateTime(parts[0], startTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateTime(parts[1], endTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(date) + "T" + strings.TrimSpace(clock)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadWindow
}

// Hours returns the elapsed hours between start and end.
func Hours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// Total multiplies hours by rate and rounds to two decimals.
func Total(hours, rate float64) float64 {
	return math.Round(hours*rate*100) / 100
}

// Format renders an amount with two decimals.
func Format(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// Quote validates req and computes the reservation cost. Every failure is a
// *models.ValidationError carrying user-facing messages.
func Quote(req models.ReservationRequest) (models.ReservationQuote, error) {
	if msgs := Missing(req); len(msgs) > 0 {
		return models.ReservationQuote{}, models.NewValidationError(msgs...)
	}

	rate := req.PricePerHour
	if strings.TrimSpace(req.Price) != "" {
		parsed, err := ParseRate(req.Price)
		if err != nil {
			return models.ReservationQuote{}, models.NewValidationError(InvalidDetailsMessage)
		}
		rate = parsed
	}
	if rate < 0 || math.IsNaN(rate) {
		return models.ReservationQuote{}, models.NewValidationError(InvalidDetailsMessage)
	}

	start, end, err := ParseWindow(req.ReservationDate, req.StartTime, req.EndTime, timeutil.Location())
	if err != nil {
		return models.ReservationQuote{}, models.NewValidationError(InvalidDetailsMessage)
	}
	hours := Hours(start, end)
	if math.IsNaN(hours) || hours <= 0 {
		return models.ReservationQuote{}, models.NewValidationError(InvalidDetailsMessage)
	}

	total := Total(hours, rate)
	return models.ReservationQuote{
		Hours:          hours,
		PricePerHour:   rate,
		TotalPrice:     total,
		TotalFormatted: Format(total),
		StartAt:        start,
		EndAt:          end,
	}, nil
}
