package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a pooled postgres connection through the pgx stdlib driver.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}

	return db, nil
}

// StationRepository is the postgres-backed station catalog. The optimizer
// never touches it directly; it only ever sees immutable snapshots.
type StationRepository struct {
	db *sql.DB
}

func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS fuel_stations (
	id BIGSERIAL PRIMARY KEY,
	opis_truckstop_id BIGINT NOT NULL,
	truckstop_name TEXT NOT NULL,
	address TEXT NOT NULL,
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	rack_id BIGINT NOT NULL,
	retail_price DOUBLE PRECISION NOT NULL,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	UNIQUE (truckstop_name, address, city, state)
);
CREATE INDEX IF NOT EXISTS fuel_stations_state_idx ON fuel_stations (state);
CREATE INDEX IF NOT EXISTS fuel_stations_price_idx ON fuel_stations (retail_price);
CREATE INDEX IF NOT EXISTS fuel_stations_coords_idx ON fuel_stations (latitude, longitude);
`

func (r *StationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure fuel_stations schema: %w", err)
	}
	return nil
}

const stationColumns = `id, opis_truckstop_id, truckstop_name, address, city, state, rack_id, retail_price, latitude, longitude`

// Snapshot returns every geocoded station, cheapest first.
func (r *StationRepository) Snapshot(ctx context.Context) ([]Station, error) {
	query := `
	SELECT ` + stationColumns + `
	FROM fuel_stations
	WHERE latitude IS NOT NULL AND longitude IS NOT NULL
	ORDER BY retail_price, id;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query fuel_stations: %w", err)
	}
	defer rows.Close()

	return scanStations(rows)
}

// SnapshotWithin returns geocoded stations inside the given bounding box.
func (r *StationRepository) SnapshotWithin(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]Station, error) {
	query := `
	SELECT ` + stationColumns + `
	FROM fuel_stations
	WHERE latitude BETWEEN $1 AND $3
	  AND longitude BETWEEN $2 AND $4
	ORDER BY retail_price, id;
	`
	rows, err := r.db.QueryContext(ctx, query, minLat, minLon, maxLat, maxLon)
	if err != nil {
		return nil, fmt.Errorf("snapshot within: query fuel_stations: %w", err)
	}
	defer rows.Close()

	return scanStations(rows)
}

// ListUngeocoded returns up to limit stations still missing coordinates.
func (r *StationRepository) ListUngeocoded(ctx context.Context, limit int) ([]Station, error) {
	query := `
	SELECT ` + stationColumns + `
	FROM fuel_stations
	WHERE latitude IS NULL OR longitude IS NULL
	ORDER BY id
	LIMIT $1;
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list ungeocoded: query fuel_stations: %w", err)
	}
	defer rows.Close()

	return scanStations(rows)
}

// SetCoordinates stores a geocoding result for one station.
func (r *StationRepository) SetCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE fuel_stations SET latitude = $2, longitude = $3 WHERE id = $1;`,
		id, lat, lon)
	if err != nil {
		return fmt.Errorf("set coordinates for station %d: %w", id, err)
	}
	return nil
}

// ReplaceAll swaps the whole catalog for the given stations in one
// transaction. Coordinates of re-imported stations are dropped; a geocoding
// pass has to follow.
func (r *StationRepository) ReplaceAll(ctx context.Context, stations []Station) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace all: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fuel_stations;`); err != nil {
		return fmt.Errorf("replace all: clear fuel_stations: %w", err)
	}

	insert := `
	INSERT INTO fuel_stations
		(opis_truckstop_id, truckstop_name, address, city, state, rack_id, retail_price, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, st := range stations {
		if _, err := tx.ExecContext(ctx, insert,
			st.TruckstopID, st.Name, st.Address, st.City, st.State,
			st.RackID, st.PricePerGallon, st.Latitude, st.Longitude); err != nil {
			return fmt.Errorf("replace all: insert station %q: %w", st.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace all: commit: %w", err)
	}
	return nil
}

// Counts returns total and geocoded station counts for the health endpoint.
func (r *StationRepository) Counts(ctx context.Context) (int, int, error) {
	var total, geocoded int
	err := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE latitude IS NOT NULL AND longitude IS NOT NULL)
	FROM fuel_stations;
	`).Scan(&total, &geocoded)
	if err != nil {
		return 0, 0, fmt.Errorf("counts: query fuel_stations: %w", err)
	}
	return total, geocoded, nil
}

func scanStations(rows *sql.Rows) ([]Station, error) {
	stations := make([]Station, 0, 64)
	for rows.Next() {
		var st Station
		if err := rows.Scan(&st.ID, &st.TruckstopID, &st.Name, &st.Address, &st.City, &st.State,
			&st.RackID, &st.PricePerGallon, &st.Latitude, &st.Longitude); err != nil {
			return nil, fmt.Errorf("scan station row: %w", err)
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("station row iteration: %w", err)
	}
	return stations, nil
}
