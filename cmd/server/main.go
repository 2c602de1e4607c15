package main

import (
	"context"
	"flag"

	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/http"
	"github.com/gasroute/gasroute/pkg/http/usecases"
	"github.com/gasroute/gasroute/pkg/logger"
	"github.com/gasroute/gasroute/pkg/optimizer"
	"github.com/gasroute/gasroute/pkg/routing"
	"github.com/gasroute/gasroute/pkg/spatialindex"
	"github.com/gasroute/gasroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", true, "per-client rate limiting on the API")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		log.Warn("no config file found, using defaults and environment", zap.Error(err))
	}
	viper.AutomaticEnv()

	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/gasroute?sslmode=disable")
	viper.SetDefault("OSRM_BASE_URL", "https://router.project-osrm.org/route/v1")
	viper.SetDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("NOMINATIM_USER_AGENT", "gasroute/1.0")
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "30s")

	db, err := catalog.Open(viper.GetString("DATABASE_URL"))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	repo := catalog.NewStationRepository(db)

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	stations, err := repo.Snapshot(ctx)
	if err != nil {
		panic(err)
	}
	log.Info("station catalog snapshot loaded", zap.Int("stations", len(stations)))

	rtree := spatialindex.NewRtree()
	rtree.Build(stations, log)

	timeout := viper.GetDuration("EXTERNAL_API_TIMEOUT")
	osrm := routing.NewOSRMClient(viper.GetString("OSRM_BASE_URL"), timeout, log)
	geocoder := routing.NewNominatimGeocoder(viper.GetString("NOMINATIM_BASE_URL"),
		viper.GetString("NOMINATIM_USER_AGENT"), timeout, log)

	params := optimizer.DefaultParams()
	if v := viper.GetFloat64("VEHICLE_RANGE_MILES"); v > 0 {
		params.VehicleRangeMiles = v
	}
	if v := viper.GetFloat64("FUEL_ECONOMY_MPG"); v > 0 {
		params.FuelEconomyMPG = v
	}
	if v := viper.GetFloat64("CORRIDOR_THRESHOLD_MILES"); v > 0 {
		params.CorridorThresholdMiles = v
	}
	if v := viper.GetInt("MAX_CANDIDATE_STATIONS"); v > 0 {
		params.MaxCandidates = v
	}

	fuelRouteService := usecases.NewFuelRouteService(log, geocoder, osrm, repo, stations, rtree, params)

	api := http.NewServer(log)
	_, err = api.Use(ctx, log, *useRateLimit, fuelRouteService)
	if err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()

	log.Info("Gasroute Fuel Route Optimizer Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
