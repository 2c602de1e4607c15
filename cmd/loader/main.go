// Command loader imports the OPIS retail price CSV into postgres and
// geocodes station addresses through Nominatim.
//
// Usage:
//
//	loader -csv ./data/fuel_prices.csv            # import + geocode
//	loader -geocode-only                          # only geocode pending stations
//	loader -csv ./data/fuel_prices.csv.bz2 -skip-geocoding
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/logger"
	"github.com/gasroute/gasroute/pkg/routing"
	"github.com/gasroute/gasroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	csvPath       = flag.String("csv", "./data/fuel_prices.csv", "path to the OPIS retail price CSV (.csv or .csv.bz2)")
	geocodeOnly   = flag.Bool("geocode-only", false, "skip the CSV import, only geocode pending stations")
	skipGeocoding = flag.Bool("skip-geocoding", false, "import the CSV without geocoding")
	batchSize     = flag.Int("batch-size", 100, "geocoding batch size")
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
	viper.SetDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("NOMINATIM_USER_AGENT", "gasroute/1.0")
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "30s")

	db, err := catalog.Open(viper.GetString("DATABASE_URL"))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := catalog.NewStationRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		panic(err)
	}

	if !*geocodeOnly {
		if err := importCSV(ctx, repo, log); err != nil {
			panic(err)
		}
	}

	if !*skipGeocoding {
		if err := geocodePending(ctx, repo, log); err != nil {
			panic(err)
		}
	}

	total, geocoded, err := repo.Counts(ctx)
	if err != nil {
		panic(err)
	}
	log.Info("loader finished", zap.Int("total", total), zap.Int("geocoded", geocoded))
}

func importCSV(ctx context.Context, repo *catalog.StationRepository, log *zap.Logger) error {
	log.Info("importing price file", zap.String("path", *csvPath))

	stations, err := catalog.ReadPriceFile(*csvPath)
	if err != nil {
		return err
	}
	log.Info("price file parsed", zap.Int("unique_stations", len(stations)))

	if err := repo.ReplaceAll(ctx, stations); err != nil {
		return err
	}
	log.Info("catalog replaced")
	return nil
}

func geocodePending(ctx context.Context, repo *catalog.StationRepository, log *zap.Logger) error {
	geocoder := routing.NewNominatimGeocoder(viper.GetString("NOMINATIM_BASE_URL"),
		viper.GetString("NOMINATIM_USER_AGENT"), viper.GetDuration("EXTERNAL_API_TIMEOUT"), log)

	done := 0
	failed := 0
	for {
		pending, err := repo.ListUngeocoded(ctx, *batchSize)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			break
		}

		progressed := false
		for _, st := range pending {
			address := fmt.Sprintf("%s, %s, %s", st.Address, st.City, st.State)
			coord, err := geocoder.Geocode(ctx, address)
			if err != nil {
				// leave the station pending; a later run retries it
				log.Warn("geocoding failed", zap.String("station", st.Name),
					zap.String("address", address), zap.Error(err))
				failed++
				continue
			}
			if err := repo.SetCoordinates(ctx, st.ID, coord.Lat, coord.Lon); err != nil {
				return err
			}
			done++
			progressed = true
		}

		log.Info("geocoding progress", zap.Int("geocoded", done), zap.Int("failed", failed))
		if !progressed {
			// every station of the batch failed, stop instead of spinning
			break
		}
	}

	return nil
}
