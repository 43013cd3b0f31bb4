// Package storage keeps a sqlite log of completed analysis runs.
package storage

import (
	"database/sql"
	"strings"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"portfolioTracker/internal/portfolio"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS analysis_runs(
		ts INTEGER, latest_value REAL, initial_value REAL, growth REAL, flags TEXT
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// SaveRun appends one telemetry row for a completed analysis.
func (s *Store) SaveRun(a *portfolio.Analysis) error {
	_, err := s.db.Exec(`INSERT INTO analysis_runs(ts,latest_value,initial_value,growth,flags) VALUES(?,?,?,?,?)`,
		a.ComputedAt.Unix(), a.LatestValue, a.InitialValue, a.GrowthPercent, strings.Join(a.RiskFlags, "|"))
	return err
}

// Run is one logged analysis.
type Run struct {
	Timestamp    int64
	LatestValue  float64
	InitialValue float64
	Growth       float64
	Flags        []string
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`SELECT ts,latest_value,initial_value,growth,flags FROM analysis_runs ORDER BY ts DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var flags string
		if err := rows.Scan(&r.Timestamp, &r.LatestValue, &r.InitialValue, &r.Growth, &flags); err != nil {
			return nil, err
		}
		if flags != "" {
			r.Flags = strings.Split(flags, "|")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
