package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RoomsTable is the single table backing room configurations.
const RoomsTable = "room_configs"

const roomsDDL = `
	CREATE TABLE IF NOT EXISTS room_configs (
		id                  BIGSERIAL PRIMARY KEY,
		name                TEXT NOT NULL,
		time_limit_seconds  INTEGER NOT NULL DEFAULT 0,
		applied_images_data JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

// RunMigrations creates the room_configs table if it does not exist.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, roomsDDL); err != nil {
		return fmt.Errorf("migrate %s: %w", RoomsTable, err)
	}
	return nil
}
