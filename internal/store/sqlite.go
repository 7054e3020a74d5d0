package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sensor_readings (
  id    INTEGER PRIMARY KEY AUTOINCREMENT,
  ts    TEXT NOT NULL,
  pm25  REAL NOT NULL,
  pm10  REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sensor_readings_ts ON sensor_readings(ts);

CREATE TABLE IF NOT EXISTS settings (
  id               INTEGER PRIMARY KEY CHECK (id = 1),
  pm25_warning     REAL NOT NULL,
  pm25_critical    REAL NOT NULL,
  pm10_warning     REAL NOT NULL,
  pm10_critical    REAL NOT NULL,
  pm25_calibration REAL NOT NULL,
  pm10_calibration REAL NOT NULL
);
`

// SQLiteStore persists readings and settings to a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. WAL mode keeps the sensor poller's appends from blocking the
// assistant's range reads.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	dsn += "?_busy_timeout=5000&_journal_mode=WAL"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.seedSettings(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an already-open database. Used by tests with :memory:.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.seedSettings(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) seedSettings() error {
	def := DefaultSettings()
	_, err := s.db.Exec(`
		INSERT INTO settings (id, pm25_warning, pm25_critical, pm10_warning, pm10_critical, pm25_calibration, pm10_calibration)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		def.PM25Warning, def.PM25Critical, def.PM10Warning, def.PM10Critical,
		def.PM25Calibration, def.PM10Calibration,
	)
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert appends a reading. Timestamps are stored as RFC3339Nano UTC text so
// lexicographic order matches chronological order.
func (s *SQLiteStore) Insert(r Reading) error {
	ts := r.Timestamp.UTC().Format(time.RFC3339Nano)
	if _, err := s.db.Exec(
		`INSERT INTO sensor_readings (ts, pm25, pm10) VALUES (?, ?, ?)`,
		ts, r.PM25, r.PM10,
	); err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Latest() (Reading, error) {
	row := s.db.QueryRow(`SELECT ts, pm25, pm10 FROM sensor_readings ORDER BY ts DESC LIMIT 1`)
	r, err := scanReading(row)
	if err == sql.ErrNoRows {
		return Reading{}, ErrNoData
	}
	if err != nil {
		return Reading{}, fmt.Errorf("query latest: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) Range(from, to time.Time) ([]Reading, error) {
	fromStr := from.UTC().Format(time.RFC3339Nano)
	toStr := to.UTC().Format(time.RFC3339Nano)

	rows, err := s.db.Query(
		`SELECT ts, pm25, pm10 FROM sensor_readings WHERE ts >= ? AND ts <= ? ORDER BY ts ASC`,
		fromStr, toStr,
	)
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	defer rows.Close()

	var out []Reading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (Reading, error) {
	var r Reading
	var ts string
	if err := row.Scan(&ts, &r.PM25, &r.PM10); err != nil {
		return Reading{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Reading{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	r.Timestamp = t
	return r, nil
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	var st Settings
	err := s.db.QueryRow(`
		SELECT pm25_warning, pm25_critical, pm10_warning, pm10_critical, pm25_calibration, pm10_calibration
		FROM settings WHERE id = 1`,
	).Scan(
		&st.PM25Warning, &st.PM25Critical, &st.PM10Warning, &st.PM10Critical,
		&st.PM25Calibration, &st.PM10Calibration,
	)
	if err != nil {
		return Settings{}, fmt.Errorf("query settings: %w", err)
	}
	return st, nil
}

func (s *SQLiteStore) SaveSettings(st Settings) error {
	_, err := s.db.Exec(`
		UPDATE settings SET
			pm25_warning = ?, pm25_critical = ?,
			pm10_warning = ?, pm10_critical = ?,
			pm25_calibration = ?, pm10_calibration = ?
		WHERE id = 1`,
		st.PM25Warning, st.PM25Critical, st.PM10Warning, st.PM10Critical,
		st.PM25Calibration, st.PM10Calibration,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
