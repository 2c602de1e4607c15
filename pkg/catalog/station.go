package catalog

import (
	"github.com/gasroute/gasroute/pkg/geo"
)

// Station is one row of the fuel-price catalog. Coordinates are nil until
// the loader has geocoded the street address, so a snapshot is expected to
// contain stations the optimizer must skip.
type Station struct {
	ID             int64    `json:"id"`
	TruckstopID    int64    `json:"opis_truckstop_id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	RackID         int64    `json:"rack_id"`
	PricePerGallon float64  `json:"price_per_gallon"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

// Coordinates reports the station position and whether it is usable.
// Stations that were never geocoded, or whose stored values fall outside
// the valid latitude/longitude domain, are excluded from optimization.
func (s Station) Coordinates() (geo.Coordinate, bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return geo.Coordinate{}, false
	}
	lat, lon := *s.Latitude, *s.Longitude
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return geo.Coordinate{}, false
	}
	return geo.NewCoordinate(lat, lon), true
}
