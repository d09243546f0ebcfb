package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS "user" (
        user_id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        email TEXT UNIQUE NOT NULL,
        profile_picture TEXT
);
CREATE TABLE IF NOT EXISTS final_response (
        id BIGSERIAL PRIMARY KEY,
        user_id TEXT REFERENCES "user"(user_id),
        query TEXT NOT NULL,
        model_response TEXT NOT NULL,
        latitude DOUBLE PRECISION,
        longitude DOUBLE PRECISION
);
`

// PostgresStore persists users and responses in Postgres.
type PostgresStore struct {
	DB *pgxpool.Pool
}

// NewPostgresStore connects, bootstraps the schema, and returns the store.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

func (ps *PostgresStore) SaveUser(ctx context.Context, user User) error {
	if ps == nil || ps.DB == nil {
		return nil
	}
	query := `
                INSERT INTO "user" (user_id, name, email, profile_picture)
                VALUES ($1, $2, $3, $4)
                ON CONFLICT (user_id) DO UPDATE
                SET name = EXCLUDED.name,
                    email = EXCLUDED.email,
                    profile_picture = EXCLUDED.profile_picture;
        `
	if _, err := ps.DB.Exec(ctx, query, user.ID, user.Name, user.Email, user.ProfilePicture); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (ps *PostgresStore) SaveResponse(ctx context.Context, record ResponseRecord) error {
	if ps == nil || ps.DB == nil {
		return nil
	}
	query := `
                INSERT INTO final_response (user_id, query, model_response, latitude, longitude)
                VALUES (NULLIF($1, ''), $2, $3, $4, $5)
                RETURNING id;
        `
	var id int64
	if err := ps.DB.QueryRow(ctx, query, record.UserID, record.Query, record.Response, record.Latitude, record.Longitude).Scan(&id); err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close(ctx context.Context) error {
	if ps != nil && ps.DB != nil {
		ps.DB.Close()
	}
	return nil
}
