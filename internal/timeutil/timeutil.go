package timeutil

import "time"

var bangkokLocation = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		return time.FixedZone("Asia/Bangkok", 7*60*60)
	}
	return loc
}

// Location returns Asia/Bangkok location instance.
func Location() *time.Location {
	return bangkokLocation
}
