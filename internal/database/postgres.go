package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ConnectPostgres opens the relational store and creates its tables.
func ConnectPostgres(ctx context.Context, postgresURI string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("connected to PostgreSQL", zap.String("uri", MaskURI(postgresURI)))

	if err = InitPostgresTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("PostgreSQL tables initialized")
	return db, nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			mobile VARCHAR(50) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS pets (
			id UUID PRIMARY KEY,
			pet_name TEXT NOT NULL,
			breed TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			last_seen_location TEXT NOT NULL,
			date_lost TEXT NOT NULL DEFAULT '',
			contact_info TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL,
			identification_mark TEXT NOT NULL DEFAULT '',
			status VARCHAR(10) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_pets_match ON pets(status, identification_mark, breed, color, created_at)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
