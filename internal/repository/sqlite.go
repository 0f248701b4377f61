package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"playeasy/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLitePersistence keeps bookings in a local SQLite file so sessions
// survive a restart. One row per booking, equipment embedded as JSON.
type SQLitePersistence struct {
	db *sql.DB
}

func NewSQLitePersistence(path string) (*SQLitePersistence, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return &SQLitePersistence{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            court_id INTEGER NOT NULL,
            court_name TEXT NOT NULL,
            court_type TEXT,
            date TIMESTAMP NOT NULL,
            time_slot TEXT NOT NULL,
            duration INTEGER NOT NULL,
            equipment TEXT,
            payment_method TEXT,
            total_amount REAL NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %v", query, err)
		}
	}
	return nil
}

func (p *SQLitePersistence) LoadBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT id, court_id, court_name, court_type, date, time_slot, duration,
               equipment, payment_method, total_amount, status, created_at
        FROM bookings WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var (
			b         models.Booking
			equipment sql.NullString
			date      time.Time
			createdAt time.Time
		)
		if err := rows.Scan(&b.ID, &b.CourtID, &b.CourtName, &b.CourtType, &date, &b.Time,
			&b.Duration, &equipment, &b.PaymentMethod, &b.TotalAmount, &b.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.UserID = userID
		b.Date = date
		b.CreatedAt = createdAt
		if equipment.Valid && equipment.String != "" {
			if err := json.Unmarshal([]byte(equipment.String), &b.Equipment); err != nil {
				return nil, fmt.Errorf("unmarshal equipment for %s: %w", b.ID, err)
			}
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// SaveBookings replaces the user's rows with the given collection in one
// transaction, so a concurrent reader never sees a half-written session.
func (p *SQLitePersistence) SaveBookings(ctx context.Context, userID string, bookings []models.Booking) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear bookings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO bookings (id, user_id, court_id, court_name, court_type, date, time_slot,
                              duration, equipment, payment_method, total_amount, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bookings {
		var equipment []byte
		if len(b.Equipment) > 0 {
			equipment, err = json.Marshal(b.Equipment)
			if err != nil {
				return fmt.Errorf("marshal equipment for %s: %w", b.ID, err)
			}
		}
		if _, err := stmt.ExecContext(ctx, b.ID, userID, b.CourtID, b.CourtName, b.CourtType,
			b.Date, b.Time, b.Duration, string(equipment), b.PaymentMethod, b.TotalAmount,
			b.Status, b.CreatedAt); err != nil {
			return fmt.Errorf("insert booking %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

func (p *SQLitePersistence) CloseDB() error {
	return p.db.Close()
}
