package controllers

import (
	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/optimizer"
	"github.com/gasroute/gasroute/pkg/util"
)

type planRouteRequest struct {
	Start string `json:"start" validate:"required,max=200"`
	End   string `json:"end" validate:"required,max=200"`
}

type stationRequest struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	PricePerGallon float64  `json:"price_per_gallon" validate:"required,gt=0"`
}

func (r stationRequest) toStation() catalog.Station {
	return catalog.Station{
		ID:             r.ID,
		Name:           r.Name,
		Address:        r.Address,
		City:           r.City,
		State:          r.State,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		PricePerGallon: r.PricePerGallon,
	}
}

type optimizeRequest struct {
	// route geometry, either explicit [lon, lat] pairs or an encoded
	// polyline; exactly one must be supplied
	RoutePoints [][]float64 `json:"route_points" validate:"omitempty,min=2,dive,len=2"`
	Polyline    string      `json:"polyline"`

	Stations []stationRequest `json:"stations" validate:"dive"`

	VehicleRangeMiles      float64 `json:"vehicle_range_miles" validate:"omitempty,gt=0"`
	FuelEconomyMPG         float64 `json:"fuel_economy_mpg" validate:"omitempty,gt=0"`
	CorridorThresholdMiles float64 `json:"corridor_threshold_miles" validate:"omitempty,gt=0"`
}

func (r optimizeRequest) params(defaults optimizer.Params) optimizer.Params {
	p := defaults
	if r.VehicleRangeMiles > 0 {
		p.VehicleRangeMiles = r.VehicleRangeMiles
	}
	if r.FuelEconomyMPG > 0 {
		p.FuelEconomyMPG = r.FuelEconomyMPG
	}
	if r.CorridorThresholdMiles > 0 {
		p.CorridorThresholdMiles = r.CorridorThresholdMiles
	}
	return p
}

type stopResponse struct {
	StationID      int64    `json:"station_id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	PricePerGallon float64  `json:"price_per_gallon"`
	ChainageMiles  float64  `json:"chainage_miles"`
	Gallons        float64  `json:"gallons"`
	Cost           float64  `json:"cost"`
	CumulativeCost float64  `json:"cumulative_cost"`
}

func NewStopResponses(stops []optimizer.Stop) []stopResponse {
	out := make([]stopResponse, len(stops))
	for i, s := range stops {
		out[i] = stopResponse{
			StationID:      s.Station.ID,
			Name:           s.Station.Name,
			Address:        s.Station.Address,
			City:           s.Station.City,
			State:          s.Station.State,
			Latitude:       s.Station.Latitude,
			Longitude:      s.Station.Longitude,
			PricePerGallon: util.RoundFloat(s.Station.PricePerGallon, 3),
			ChainageMiles:  util.RoundFloat(s.ChainageMiles, 2),
			Gallons:        util.RoundFloat(s.Gallons, 2),
			Cost:           util.RoundFloat(s.Cost, 2),
			CumulativeCost: util.RoundFloat(s.CumulativeCost, 2),
		}
	}
	return out
}

type routeInfoResponse struct {
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
	Polyline      string  `json:"polyline"`
}

type planRouteResponse struct {
	Route              routeInfoResponse `json:"route"`
	FuelStops          []stopResponse    `json:"fuel_stops"`
	TotalFuelCost      float64           `json:"total_fuel_cost"`
	TotalGallons       float64           `json:"total_gallons"`
	StationsConsidered int               `json:"stations_considered"`
}

func NewPlanRouteResponse(durationHours float64, encodedPolyline string, sol *optimizer.Solution) planRouteResponse {
	return planRouteResponse{
		Route: routeInfoResponse{
			DistanceMiles: util.RoundFloat(sol.TotalMiles, 2),
			DurationHours: util.RoundFloat(durationHours, 2),
			Polyline:      encodedPolyline,
		},
		FuelStops:          NewStopResponses(sol.Stops),
		TotalFuelCost:      util.RoundFloat(sol.TotalCost, 2),
		TotalGallons:       util.RoundFloat(sol.TotalGallons, 2),
		StationsConsidered: sol.CandidatesConsidered,
	}
}

type optimizeResponse struct {
	Stops              []stopResponse `json:"stops"`
	TotalCost          float64        `json:"total_cost"`
	TotalGallons       float64        `json:"total_gallons"`
	TotalMiles         float64        `json:"total_miles"`
	StationsConsidered int            `json:"stations_considered"`
}

func NewOptimizeResponse(sol *optimizer.Solution) optimizeResponse {
	return optimizeResponse{
		Stops:              NewStopResponses(sol.Stops),
		TotalCost:          util.RoundFloat(sol.TotalCost, 2),
		TotalGallons:       util.RoundFloat(sol.TotalGallons, 2),
		TotalMiles:         util.RoundFloat(sol.TotalMiles, 2),
		StationsConsidered: sol.CandidatesConsidered,
	}
}

type healthResponse struct {
	Status   string         `json:"status"`
	Service  string         `json:"service"`
	Database map[string]int `json:"database"`
}

func NewHealthResponse(total, geocoded int) healthResponse {
	return healthResponse{
		Status:  "healthy",
		Service: "gasroute",
		Database: map[string]int{
			"total_stations":    total,
			"geocoded_stations": geocoded,
			"pending_geocoding": total - geocoded,
		},
	}
}
