package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// InitSchema creates the events and tickets tables when they do not exist.
// tickets.event_id carries ON DELETE CASCADE, so removing an event removes
// its tickets in the same statement; no application code re-implements the
// cascade.  Ticket status is stored as its integer code.
func InitSchema(ctx context.Context, db *sql.DB) error {
	const events = `
    CREATE TABLE IF NOT EXISTS events (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(200) NOT NULL,
        description VARCHAR(1000) NULL,
        event_date DATETIME NOT NULL,
        location VARCHAR(300) NOT NULL,
        total_seats INT NOT NULL DEFAULT 0,
        available_seats INT NOT NULL DEFAULT 0,
        base_price DECIMAL(18,2) NOT NULL DEFAULT 0.00,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NULL,
        INDEX idx_event_date (event_date)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	const tickets = `
    CREATE TABLE IF NOT EXISTS tickets (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        event_id BIGINT NOT NULL,
        attendee_email VARCHAR(100) NOT NULL,
        attendee_full_name VARCHAR(200) NOT NULL,
        seat_number VARCHAR(20) NOT NULL,
        price_paid DECIMAL(18,2) NOT NULL DEFAULT 0.00,
        status INT NOT NULL DEFAULT 0,
        purchased_at DATETIME NOT NULL,
        CONSTRAINT fk_tickets_event FOREIGN KEY (event_id)
            REFERENCES events (id) ON DELETE CASCADE,
        INDEX idx_event_id (event_id),
        INDEX idx_attendee_email (attendee_email),
        INDEX idx_purchased_at (purchased_at)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	if _, err := db.ExecContext(ctx, events); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	if _, err := db.ExecContext(ctx, tickets); err != nil {
		return fmt.Errorf("create tickets table: %w", err)
	}
	return nil
}
