package timetable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/railroute/pkg/errors"
)

// TripRecord is one row of trains.dat: a single scheduled ride between two
// stations.
type TripRecord struct {
	Origin      int   `json:"origin"`
	Destination int   `json:"destination"`
	Departure   Clock `json:"departure"`
	Arrival     Clock `json:"arrival"`
}

// Overnight reports whether the ride crosses midnight.
func (r TripRecord) Overnight() bool { return r.Arrival < r.Departure }

// RideMinutes returns the in-vehicle time. Rides that cross midnight wrap by
// one day.
func (r TripRecord) RideMinutes() int {
	d := r.Arrival.Minutes() - r.Departure.Minutes()
	if d < 0 {
		d += MinutesPerDay
	}
	return d
}

// ArrivalMinutes returns the arrival as minutes since the midnight the trip
// departed after, so overnight arrivals land past MinutesPerDay.
func (r TripRecord) ArrivalMinutes() int {
	return r.Departure.Minutes() + r.RideMinutes()
}

// StationRecord is one row of stations.dat.
type StationRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Timetable holds the parsed station and trip tables in input order.
// Row order is significant: trip i becomes departure vertex i and station
// row s becomes the terminal vertex len(Trips)+s.
type Timetable struct {
	Stations []StationRecord `json:"stations"`
	Trips    []TripRecord    `json:"trips"`
}

// FromTables converts raw string tables into typed records.
//
// Trip rows are [origin, destination, departure, arrival]; station rows are
// [id, name...] where the name is optional and may span several fields.
// Every trip must reference a station ID present in the station table.
func FromTables(trips, stations [][]string) (*Timetable, error) {
	t := &Timetable{
		Stations: make([]StationRecord, 0, len(stations)),
		Trips:    make([]TripRecord, 0, len(trips)),
	}

	known := make(map[int]bool, len(stations))
	for i, row := range stations {
		if len(row) < 1 {
			return nil, errors.New(errors.ErrCodeInvalidTimetable, "station row %d is empty", i+1)
		}
		id, err := parseID(row[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTimetable, err, "station row %d", i+1)
		}
		if known[id] {
			return nil, errors.New(errors.ErrCodeInvalidTimetable, "station row %d: duplicate station %d", i+1, id)
		}
		known[id] = true

		name := strings.Join(row[1:], " ")
		if name == "" {
			name = fmt.Sprintf("Station %d", id)
		}
		if err := errors.ValidateStationName(name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTimetable, err, "station row %d", i+1)
		}
		t.Stations = append(t.Stations, StationRecord{ID: id, Name: name})
	}

	for i, row := range trips {
		rec, err := parseTrip(row)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTimetable, err, "trip row %d", i+1)
		}
		if !known[rec.Origin] || !known[rec.Destination] {
			return nil, errors.New(errors.ErrCodeInvalidTimetable,
				"trip row %d: unknown station in %d -> %d", i+1, rec.Origin, rec.Destination)
		}
		t.Trips = append(t.Trips, rec)
	}

	return t, nil
}

func parseTrip(row []string) (TripRecord, error) {
	if len(row) != 4 {
		return TripRecord{}, fmt.Errorf("expected 4 fields, got %d", len(row))
	}
	origin, err := parseID(row[0])
	if err != nil {
		return TripRecord{}, err
	}
	dest, err := parseID(row[1])
	if err != nil {
		return TripRecord{}, err
	}
	dep, err := ParseClock(row[2])
	if err != nil {
		return TripRecord{}, err
	}
	arr, err := ParseClock(row[3])
	if err != nil {
		return TripRecord{}, err
	}
	return TripRecord{Origin: origin, Destination: dest, Departure: dep, Arrival: arr}, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("station id %q: %w", s, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("station id %d must be positive", id)
	}
	return id, nil
}

// StationName returns the name recorded for id.
func (t *Timetable) StationName(id int) (string, bool) {
	for _, s := range t.Stations {
		if s.ID == id {
			return s.Name, true
		}
	}
	return "", false
}

// StationID looks a station up by name, ignoring case and surrounding spaces.
func (t *Timetable) StationID(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for _, s := range t.Stations {
		if strings.EqualFold(s.Name, name) {
			return s.ID, true
		}
	}
	return 0, false
}

// Names returns a station ID to name lookup table.
func (t *Timetable) Names() map[int]string {
	names := make(map[int]string, len(t.Stations))
	for _, s := range t.Stations {
		names[s.ID] = s.Name
	}
	return names
}

// Digest returns a canonical encoding of the timetable, used to key cached
// precomputation results. Two timetables with identical rows in identical
// order have identical digests.
func (t *Timetable) Digest() []byte {
	var buf bytes.Buffer
	// Encoding plain structs of ints and strings cannot fail.
	_ = json.NewEncoder(&buf).Encode(t)
	return buf.Bytes()
}
