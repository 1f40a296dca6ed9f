package timetable

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/railroute/pkg/errors"
)

// ReadTable splits r into whitespace-separated rows. Blank lines and lines
// starting with '#' are skipped.
func ReadTable(r io.Reader) ([][]string, error) {
	var rows [][]string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return rows, nil
}

// Parse reads a station table and a trip table and converts them into a
// Timetable.
func Parse(stations, trips io.Reader) (*Timetable, error) {
	stationRows, err := ReadTable(stations)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTimetable, err, "stations")
	}
	tripRows, err := ReadTable(trips)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTimetable, err, "trips")
	}
	return FromTables(tripRows, stationRows)
}

// Load reads stations.dat and trains.dat style files from disk.
func Load(stationsPath, tripsPath string) (*Timetable, error) {
	for _, p := range []string{stationsPath, tripsPath} {
		if err := errors.ValidatePath(p); err != nil {
			return nil, err
		}
	}

	sf, err := os.Open(stationsPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open stations file %s", stationsPath)
	}
	defer sf.Close()

	tf, err := os.Open(tripsPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open trips file %s", tripsPath)
	}
	defer tf.Close()

	return Parse(sf, tf)
}
