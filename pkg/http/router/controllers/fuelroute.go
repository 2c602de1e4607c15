package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/geo"
	helper "github.com/gasroute/gasroute/pkg/http/router/routerhelper"
	"github.com/gasroute/gasroute/pkg/optimizer"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type fuelRouteAPI struct {
	fuelRouteService FuelRouteService
	log              *zap.Logger
}

func New(fuelRouteService FuelRouteService, log *zap.Logger) *fuelRouteAPI {
	return &fuelRouteAPI{
		fuelRouteService: fuelRouteService,
		log:              log,
	}
}

func (api *fuelRouteAPI) Routes(group *helper.RouteGroup) {
	group.POST("/route", api.planRoute)
	group.POST("/optimize", api.optimize)
	group.GET("/health", api.health)
}

func (api *fuelRouteAPI) planRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request planRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	request.Start = strings.TrimSpace(request.Start)
	request.End = strings.TrimSpace(request.End)

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", api.translated(validate, err)))
		return
	}

	api.log.Info("route request", zap.String("start", request.Start), zap.String("end", request.End))

	route, sol, err := api.fuelRouteService.PlanRoute(r.Context(), request.Start, request.End)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	encoded := geo.PolylineFromCoords(route.Coordinates)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewPlanRouteResponse(route.DurationHours, encoded, sol)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *fuelRouteAPI) optimize(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", api.translated(validate, err)))
		return
	}

	routePoints, err := decodeRoutePoints(request)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	stations := make([]catalog.Station, len(request.Stations))
	for i, st := range request.Stations {
		stations[i] = st.toStation()
	}

	sol, err := api.fuelRouteService.Optimize(routePoints, stations, request.params(api.defaultParams()))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewOptimizeResponse(sol)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *fuelRouteAPI) health(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	total, geocoded, err := api.fuelRouteService.CatalogCounts(r.Context())
	if err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewHealthResponse(total, geocoded)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// decodeRoutePoints accepts the route geometry as explicit [lon, lat] pairs
// or an encoded polyline, but not both.
func decodeRoutePoints(request optimizeRequest) ([]geo.Coordinate, error) {
	switch {
	case len(request.RoutePoints) > 0 && request.Polyline != "":
		return nil, errors.New("provide either route_points or polyline, not both")
	case request.Polyline != "":
		coords, err := geo.CoordsFromPolyline(request.Polyline)
		if err != nil {
			return nil, fmt.Errorf("invalid polyline: %w", err)
		}
		return coords, nil
	case len(request.RoutePoints) > 0:
		coords := make([]geo.Coordinate, len(request.RoutePoints))
		for i, lonLat := range request.RoutePoints {
			if len(lonLat) != 2 {
				return nil, fmt.Errorf("route_points[%d] must be a [lon, lat] pair", i)
			}
			coords[i] = geo.NewCoordinate(lonLat[1], lonLat[0])
		}
		return coords, nil
	default:
		return nil, errors.New("route_points or polyline is required")
	}
}

func (api *fuelRouteAPI) defaultParams() optimizer.Params {
	p := optimizer.DefaultParams()
	if v := viper.GetFloat64("VEHICLE_RANGE_MILES"); v > 0 {
		p.VehicleRangeMiles = v
	}
	if v := viper.GetFloat64("FUEL_ECONOMY_MPG"); v > 0 {
		p.FuelEconomyMPG = v
	}
	if v := viper.GetFloat64("CORRIDOR_THRESHOLD_MILES"); v > 0 {
		p.CorridorThresholdMiles = v
	}
	if v := viper.GetInt("MAX_CANDIDATE_STATIONS"); v > 0 {
		p.MaxCandidates = v
	}
	return p
}

func (api *fuelRouteAPI) translated(validate *validator.Validate, err error) []string {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	vv := translateError(err, trans)
	vvString := make([]string, 0, len(vv))
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	return vvString
}
