package timetable

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Queries used by LoadPostgres. Rows are ordered by their primary key so
// vertex numbering is stable across loads.
const (
	stationsQuery = `SELECT id, name FROM stations ORDER BY id`
	tripsQuery    = `SELECT origin_id, destination_id, departure, arrival FROM trips ORDER BY id`
)

// OpenPostgres opens a pgx-backed database handle for dsn.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// LoadPostgres reads the stations and trips tables. Departure and arrival
// columns hold HHMM integers, the same encoding as trains.dat.
func LoadPostgres(ctx context.Context, db *sql.DB) (*Timetable, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var stations [][]string
	rows, err := db.QueryContext(ctx, stationsQuery)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	for rows.Next() {
		var (
			id   int
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return nil, err
		}
		stations = append(stations, []string{strconv.Itoa(id), name})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var trips [][]string
	rows, err = db.QueryContext(ctx, tripsQuery)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var origin, dest, dep, arr int
		if err := rows.Scan(&origin, &dest, &dep, &arr); err != nil {
			return nil, err
		}
		trips = append(trips, []string{
			strconv.Itoa(origin), strconv.Itoa(dest), strconv.Itoa(dep), strconv.Itoa(arr),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return FromTables(trips, stations)
}
