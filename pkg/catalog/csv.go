package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

type priceKey struct {
	name    string
	address string
	city    string
	state   string
}

// ReadPriceFile parses an OPIS-style retail fuel price CSV. Files ending in
// .bz2 are decompressed transparently. The raw file carries one row per
// (station, rack) pair, so duplicate locations are collapsed to their
// minimum retail price.
func ReadPriceFile(path string) ([]Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, fmt.Errorf("open bzip2 price file: %w", err)
		}
		defer bz.Close()
		r = bz
	}

	return readPriceCSV(r)
}

func readPriceCSV(r io.Reader) ([]Station, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[normalizeHeader(h)] = i
	}
	for _, required := range []string{"opis_truckstop_id", "truckstop_name", "address", "city", "state", "rack_id", "retail_price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("price file missing column %q", required)
		}
	}

	best := make(map[priceKey]Station)
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(record[col["retail_price"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse retail_price: %w", line, err)
		}
		truckstopID, err := strconv.ParseInt(strings.TrimSpace(record[col["opis_truckstop_id"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse opis_truckstop_id: %w", line, err)
		}
		rackID, err := strconv.ParseInt(strings.TrimSpace(record[col["rack_id"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse rack_id: %w", line, err)
		}

		st := Station{
			TruckstopID:    truckstopID,
			Name:           strings.TrimSpace(record[col["truckstop_name"]]),
			Address:        strings.TrimSpace(record[col["address"]]),
			City:           strings.TrimSpace(record[col["city"]]),
			State:          strings.TrimSpace(record[col["state"]]),
			RackID:         rackID,
			PricePerGallon: price,
		}

		key := priceKey{st.Name, st.Address, st.City, st.State}
		if prev, ok := best[key]; !ok || st.PricePerGallon < prev.PricePerGallon {
			best[key] = st
		}
	}

	stations := make([]Station, 0, len(best))
	for _, st := range best {
		stations = append(stations, st)
	}
	sort.Slice(stations, func(i, j int) bool {
		if stations[i].TruckstopID != stations[j].TruckstopID {
			return stations[i].TruckstopID < stations[j].TruckstopID
		}
		return stations[i].Name < stations[j].Name
	})
	return stations, nil
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}
