package storage

import (
	"context"
	"errors"

	"github.com/ryanbastic/go-escaperoom/internal/room"
)

// ErrRoomNotFound is returned when a lookup, update or delete names an unknown room.
var ErrRoomNotFound = errors.New("room not found")

// DefaultListLimit is used when ListRooms is called with a non-positive limit.
const DefaultListLimit = 100

// CreateRoomRequest is what the caller provides to persist a new room configuration.
type CreateRoomRequest struct {
	Name             string
	TimeLimitSeconds int
	AppliedImages    []room.AppliedImage
}

// RoomUpdate is a partial update. Nil fields are left untouched.
type RoomUpdate struct {
	Name             *string
	TimeLimitSeconds *int
	AppliedImages    *[]room.AppliedImage
}

// Page is one page of a room listing.
type Page struct {
	Rooms      []room.RoomConfig
	NextCursor string
	HasMore    bool
}

// RoomStore persists room configurations. Layouts are always written wholesale.
type RoomStore interface {
	// CreateRoom inserts a new room configuration and returns it with id and timestamps.
	CreateRoom(ctx context.Context, req CreateRoomRequest) (*room.RoomConfig, error)

	// GetRoom returns the room with the given id.
	GetRoom(ctx context.Context, id int64) (*room.RoomConfig, error)

	// ListRooms returns rooms ordered by id, starting after cursor.
	ListRooms(ctx context.Context, cursor string, limit int) (*Page, error)

	// UpdateRoom applies a partial update and bumps updated_at.
	UpdateRoom(ctx context.Context, id int64, upd RoomUpdate) (*room.RoomConfig, error)

	// DeleteRoom removes the room with the given id.
	DeleteRoom(ctx context.Context, id int64) error
}
