// Package timetable reads the station and trip tables that railroute plans over.
//
// Two sources are supported: whitespace-separated text files in the
// stations.dat / trains.dat layout, and a Postgres database with stations and
// trips tables (via [LoadPostgres]). Both produce the same [Timetable].
//
// # File format
//
// stations.dat holds one station per line, an integer ID followed by a name:
//
//	1 Central
//	2 Harbour Road
//
// trains.dat holds one trip per line: origin ID, destination ID, departure and
// arrival as HHMM clock values without required leading zeros:
//
//	1 2 800 900
//	2 3 920 1000
//
// Blank lines and lines starting with '#' are ignored.
package timetable
