package customer

import (
	"math"
	"time"
)

// Location 客戶最後回報的位置
type Location struct {
	Lat float64
	Lng float64
	At  time.Time
}

// NewLocation 驗證經緯度範圍
func NewLocation(lat, lng float64, at time.Time) (Location, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Location{}, ErrInvalidLocation.WithContext("lat", lat, "lng", lng)
	}
	return Location{Lat: lat, Lng: lng, At: at}, nil
}
