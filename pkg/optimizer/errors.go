package optimizer

import "errors"

var (
	// ErrInvalidRoute is returned when the route polyline has fewer than
	// two points.
	ErrInvalidRoute = errors.New("route must contain at least two points")

	// ErrNoStationsInCorridor is returned when the corridor filter keeps
	// zero stations and the route is too long to drive on the initial tank.
	ErrNoStationsInCorridor = errors.New("no fuel stations within the route corridor")

	// ErrInfeasibleRoute is returned when some leg between consecutive
	// reachable points exceeds the vehicle range.
	ErrInfeasibleRoute = errors.New("route cannot be completed within vehicle range")
)
