package stations

import (
	"fmt"
	"strings"
)

type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
)

var AllSeasons = []Season{Winter, Spring, Summer, Fall}

// ParseSeason accepts the season labels written by the prepared-data notebooks,
// case-insensitively. "autumn" is an alias for fall.
func ParseSeason(value string) (Season, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "winter":
		return Winter, nil
	case "spring":
		return Spring, nil
	case "summer":
		return Summer, nil
	case "fall", "autumn":
		return Fall, nil
	}
	return "", fmt.Errorf("unknown season %q", value)
}

// VehicleType values compare as strings; the ranking tie-break relies on
// classic sorting before electric.
type VehicleType string

const (
	Classic  VehicleType = "classic"
	Electric VehicleType = "electric"
)

// ParseVehicleType accepts both the short form and the rideable_type values
// found in the raw trip data ("classic_bike", "electric_bike").
func ParseVehicleType(value string) (VehicleType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "classic", "classic_bike":
		return Classic, nil
	case "electric", "electric_bike":
		return Electric, nil
	}
	return "", fmt.Errorf("unknown vehicle type %q", value)
}

func (vehicle VehicleType) Label() string {
	switch vehicle {
	case Classic:
		return "Classic Bike"
	case Electric:
		return "Electric Bike"
	}
	return string(vehicle)
}

// Record is one pre-aggregated row: trips for a (station, vehicle type, season)
// combination plus the station's total over the whole table.
type Record struct {
	StationName       string      `json:"station_name"`
	VehicleType       VehicleType `json:"vehicle_type"`
	Season            Season      `json:"season"`
	TotalTrips        int64       `json:"total_trips"`
	StationGrandTotal int64       `json:"station_grand_total"`
}

// ParseRecord validates one raw row. The row number is carried into any
// DataIntegrityError so the loader can point at the offending line.
func ParseRecord(row int, station, vehicle, season string, total, grandTotal int64) (Record, error) {
	station = strings.TrimSpace(station)
	if station == "" {
		return Record{}, &DataIntegrityError{Row: row, Column: ColumnStation, Value: station, Reason: "station name is empty"}
	}

	vehicleType, err := ParseVehicleType(vehicle)
	if err != nil {
		return Record{}, &DataIntegrityError{Row: row, Column: ColumnVehicleType, Value: vehicle, Reason: err.Error()}
	}

	parsedSeason, err := ParseSeason(season)
	if err != nil {
		return Record{}, &DataIntegrityError{Row: row, Column: ColumnSeason, Value: season, Reason: err.Error()}
	}

	record := Record{
		StationName:       station,
		VehicleType:       vehicleType,
		Season:            parsedSeason,
		TotalTrips:        total,
		StationGrandTotal: grandTotal,
	}
	if err := record.validate(row); err != nil {
		return Record{}, err
	}
	return record, nil
}

func (record Record) validate(row int) error {
	if strings.TrimSpace(record.StationName) == "" {
		return &DataIntegrityError{Row: row, Column: ColumnStation, Reason: "station name is empty"}
	}
	if _, err := ParseVehicleType(string(record.VehicleType)); err != nil {
		return &DataIntegrityError{Row: row, Column: ColumnVehicleType, Value: string(record.VehicleType), Reason: err.Error()}
	}
	if _, err := ParseSeason(string(record.Season)); err != nil {
		return &DataIntegrityError{Row: row, Column: ColumnSeason, Value: string(record.Season), Reason: err.Error()}
	}
	if record.TotalTrips < 0 {
		return &DataIntegrityError{Row: row, Column: ColumnTotal, Value: fmt.Sprint(record.TotalTrips), Reason: "trip count is negative"}
	}
	if record.StationGrandTotal < 0 {
		return &DataIntegrityError{Row: row, Column: ColumnGrandTotal, Value: fmt.Sprint(record.StationGrandTotal), Reason: "grand total is negative"}
	}
	return nil
}
