package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ryanbastic/go-escaperoom/internal/room"
)

// PostgresStore implements RoomStore using PostgreSQL.
type PostgresStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewPostgresStore creates a RoomStore backed by the room_configs table.
// queryTimeout sets the per-query context deadline; zero means no timeout.
func NewPostgresStore(pool *pgxpool.Pool, queryTimeout time.Duration) *PostgresStore {
	return &PostgresStore{
		pool:         pool,
		queryTimeout: queryTimeout,
	}
}

// withTimeout derives a child context with the configured query timeout.
// If queryTimeout is zero, the parent context is returned unchanged.
func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return ctx, func() {}
}

const roomColumns = `id, name, time_limit_seconds, applied_images_data, created_at, updated_at`

func (s *PostgresStore) CreateRoom(ctx context.Context, req CreateRoomRequest) (*room.RoomConfig, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	images, err := marshalImages(req.AppliedImages)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO room_configs (name, time_limit_seconds, applied_images_data)
		VALUES ($1, $2, $3)
		RETURNING `+roomColumns,
		req.Name, req.TimeLimitSeconds, images,
	)
	rc, err := scanRoom(row)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return rc, nil
}

func (s *PostgresStore) GetRoom(ctx context.Context, id int64) (*room.RoomConfig, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM room_configs WHERE id = $1`, id)
	rc, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return rc, nil
}

func (s *PostgresStore) ListRooms(ctx context.Context, cursor string, limit int) (*Page, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	c, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	// Fetch one extra row to learn whether another page exists.
	rows, err := s.pool.Query(ctx, `
		SELECT `+roomColumns+`
		FROM room_configs
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2
	`, c.AfterID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]room.RoomConfig, 0, limit)
	for rows.Next() {
		rc, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("list rooms scan: %w", err)
		}
		rooms = append(rooms, *rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms rows: %w", err)
	}

	page := &Page{Rooms: rooms}
	if len(rooms) > limit {
		page.Rooms = rooms[:limit]
		next := Cursor{AfterID: page.Rooms[limit-1].ID}
		encoded, err := next.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode next cursor: %w", err)
		}
		page.NextCursor = encoded
		page.HasMore = true
	}
	return page, nil
}

func (s *PostgresStore) UpdateRoom(ctx context.Context, id int64, upd RoomUpdate) (*room.RoomConfig, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var images []byte
	if upd.AppliedImages != nil {
		var err error
		images, err = marshalImages(*upd.AppliedImages)
		if err != nil {
			return nil, fmt.Errorf("update room: %w", err)
		}
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE room_configs SET
			name                = COALESCE($2, name),
			time_limit_seconds  = COALESCE($3, time_limit_seconds),
			applied_images_data = COALESCE($4::jsonb, applied_images_data),
			updated_at          = now()
		WHERE id = $1
		RETURNING `+roomColumns,
		id, upd.Name, upd.TimeLimitSeconds, images,
	)
	rc, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("update room: %w", err)
	}
	return rc, nil
}

func (s *PostgresStore) DeleteRoom(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM room_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func scanRoom(row pgx.Row) (*room.RoomConfig, error) {
	var (
		rc     room.RoomConfig
		images []byte
	)
	if err := row.Scan(&rc.ID, &rc.Name, &rc.TimeLimitSeconds, &images, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &rc.AppliedImages); err != nil {
		return nil, fmt.Errorf("decode applied_images_data for room %d: %w", rc.ID, err)
	}
	if rc.AppliedImages == nil {
		rc.AppliedImages = []room.AppliedImage{}
	}
	return &rc, nil
}

func marshalImages(images []room.AppliedImage) ([]byte, error) {
	if images == nil {
		images = []room.AppliedImage{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("encode applied images: %w", err)
	}
	return data, nil
}
