package timetable

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/railroute/pkg/errors"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"850", 850, false},
		{"0850", 850, false},
		{"08:50", 850, false},
		{" 1745 ", 1745, false},
		{"0", 0, false},
		{"2359", 2359, false},
		{"2400", 0, true},
		{"861", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidClock) {
					t.Errorf("ParseClock(%q) code = %v, want %v", tt.in, errors.GetCode(err), errors.ErrCodeInvalidClock)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		c    Clock
		mins int
		str  string
	}{
		{0, 0, "00:00"},
		{5, 5, "00:05"},
		{850, 530, "08:50"},
		{1200, 720, "12:00"},
		{2359, 1439, "23:59"},
	}

	for _, tt := range tests {
		if got := tt.c.Minutes(); got != tt.mins {
			t.Errorf("Clock(%d).Minutes() = %d, want %d", tt.c, got, tt.mins)
		}
		if got := tt.c.String(); got != tt.str {
			t.Errorf("Clock(%d).String() = %q, want %q", tt.c, got, tt.str)
		}
		if got := ClockFromMinutes(tt.mins); got != tt.c {
			t.Errorf("ClockFromMinutes(%d) = %d, want %d", tt.mins, got, tt.c)
		}
	}

	if got := ClockFromMinutes(MinutesPerDay + 30); got != 30 {
		t.Errorf("ClockFromMinutes wraps past midnight: got %d, want 30", got)
	}
}

func TestTripRecordRide(t *testing.T) {
	day := TripRecord{Origin: 1, Destination: 2, Departure: 800, Arrival: 900}
	if day.RideMinutes() != 60 {
		t.Errorf("RideMinutes() = %d, want 60", day.RideMinutes())
	}
	if day.Overnight() {
		t.Error("daytime trip reported as overnight")
	}
	if day.ArrivalMinutes() != 540 {
		t.Errorf("ArrivalMinutes() = %d, want 540", day.ArrivalMinutes())
	}

	night := TripRecord{Origin: 1, Destination: 2, Departure: 2330, Arrival: 30}
	if night.RideMinutes() != 60 {
		t.Errorf("overnight RideMinutes() = %d, want 60", night.RideMinutes())
	}
	if !night.Overnight() {
		t.Error("overnight trip not detected")
	}
	if night.ArrivalMinutes() != MinutesPerDay+30 {
		t.Errorf("overnight ArrivalMinutes() = %d, want %d", night.ArrivalMinutes(), MinutesPerDay+30)
	}
}

func TestFromTables(t *testing.T) {
	stations := [][]string{{"1", "Central"}, {"2", "Harbour", "Road"}, {"3"}}
	trips := [][]string{{"1", "2", "0800", "0900"}, {"2", "3", "920", "1000"}}

	tt, err := FromTables(trips, stations)
	if err != nil {
		t.Fatalf("FromTables() error: %v", err)
	}

	if len(tt.Stations) != 3 || len(tt.Trips) != 2 {
		t.Fatalf("got %d stations, %d trips; want 3, 2", len(tt.Stations), len(tt.Trips))
	}
	if tt.Stations[1].Name != "Harbour Road" {
		t.Errorf("multi-field name = %q, want %q", tt.Stations[1].Name, "Harbour Road")
	}
	if tt.Stations[2].Name != "Station 3" {
		t.Errorf("default name = %q, want %q", tt.Stations[2].Name, "Station 3")
	}
	want := TripRecord{Origin: 2, Destination: 3, Departure: 920, Arrival: 1000}
	if tt.Trips[1] != want {
		t.Errorf("Trips[1] = %+v, want %+v", tt.Trips[1], want)
	}
}

func TestFromTablesErrors(t *testing.T) {
	stations := [][]string{{"1", "A"}, {"2", "B"}}

	tests := []struct {
		name     string
		trips    [][]string
		stations [][]string
	}{
		{"short trip row", [][]string{{"1", "2", "800"}}, stations},
		{"non-numeric origin", [][]string{{"x", "2", "800", "900"}}, stations},
		{"bad clock", [][]string{{"1", "2", "800", "975"}}, stations},
		{"unknown station", [][]string{{"1", "9", "800", "900"}}, stations},
		{"zero station id", nil, [][]string{{"0", "Nowhere"}}},
		{"duplicate station", nil, [][]string{{"1", "A"}, {"1", "B"}}},
		{"empty station row", nil, [][]string{{}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromTables(tc.trips, tc.stations)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidTimetable) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTimetable)
			}
		})
	}
}

func TestReadTable(t *testing.T) {
	in := "# stations\n1 Central\n\n  2   Harbour Road  \n# end\n"
	rows, err := ReadTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTable() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if strings.Join(rows[1], "|") != "2|Harbour|Road" {
		t.Errorf("row 2 = %v", rows[1])
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	sp := filepath.Join(dir, "stations.dat")
	tp := filepath.Join(dir, "trains.dat")
	if err := os.WriteFile(sp, []byte("1 Central\n2 Harbour\n3 Summit\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tp, []byte("1 2 800 900\n2 3 920 1000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tt, err := Load(sp, tp)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if id, ok := tt.StationID("  summit "); !ok || id != 3 {
		t.Errorf("StationID(summit) = %d, %v; want 3, true", id, ok)
	}
	if name, ok := tt.StationName(2); !ok || name != "Harbour" {
		t.Errorf("StationName(2) = %q, %v; want Harbour, true", name, ok)
	}
	if _, ok := tt.StationName(7); ok {
		t.Error("StationName(7) should not be found")
	}

	_, err = Load(filepath.Join(dir, "missing.dat"), tp)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestDigest(t *testing.T) {
	a := &Timetable{Trips: []TripRecord{{1, 2, 800, 900}}}
	b := &Timetable{Trips: []TripRecord{{1, 2, 800, 900}}}
	c := &Timetable{Trips: []TripRecord{{1, 2, 800, 901}}}

	if !bytes.Equal(a.Digest(), b.Digest()) {
		t.Error("identical timetables should have identical digests")
	}
	if bytes.Equal(a.Digest(), c.Digest()) {
		t.Error("different timetables should have different digests")
	}
}
