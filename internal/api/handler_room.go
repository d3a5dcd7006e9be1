package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ryanbastic/go-escaperoom/internal/room"
	"github.com/ryanbastic/go-escaperoom/internal/storage"
)

// --- Huma Input/Output types ---

// AppliedImageBody is the wire form of one placed image, as the editor sends it.
type AppliedImageBody struct {
	ID        int64   `json:"id" doc:"Client-assigned image id (creation time in ms)" required:"true"`
	URL       string  `json:"url,omitempty" doc:"Editor preview URL; never exported"`
	FileName  string  `json:"fileName" doc:"Asset file name under assets/images/" required:"true"`
	X         float64 `json:"x" doc:"Left offset in px" required:"false"`
	Y         float64 `json:"y" doc:"Top offset in px" required:"false"`
	HintText  string  `json:"hintText" doc:"Shown when the image is clicked" required:"false"`
	ClueText  string  `json:"clueText" doc:"Revealed when the puzzle is solved" required:"false"`
	Answer    string  `json:"answer" doc:"Expected answer, compared trimmed and case-insensitively" required:"false"`
	IsFlipped bool    `json:"isFlipped" doc:"Mirror the image horizontally" required:"false"`
}

type RoomResponse struct {
	ID                int64              `json:"id" doc:"Room id"`
	Name              string             `json:"name" doc:"Room name"`
	TimeLimitSeconds  int                `json:"timeLimitSeconds" doc:"Countdown length; 0 means untimed"`
	AppliedImagesData []AppliedImageBody `json:"appliedImagesData" doc:"Placed images in insertion order"`
	CreatedAt         time.Time          `json:"createdAt" doc:"Creation timestamp"`
	UpdatedAt         time.Time          `json:"updatedAt" doc:"Last update timestamp"`
}

type CreateRoomBody struct {
	Name              string             `json:"name" doc:"Room name" required:"true" minLength:"1"`
	AppliedImagesData []AppliedImageBody `json:"appliedImagesData" doc:"Placed images" required:"true"`
	TimeLimitSeconds  int                `json:"timeLimitSeconds,omitempty" doc:"Countdown length; 0 means untimed" minimum:"0"`
}

type CreateRoomInput struct {
	Body CreateRoomBody
}

type RoomOutput struct {
	Body RoomResponse
}

type RoomIDInput struct {
	ID int64 `path:"id" doc:"Room id" minimum:"1"`
}

type ListRoomsInput struct {
	ID     int64  `query:"id" doc:"Return only this room" minimum:"0"`
	Cursor string `query:"cursor" doc:"Opaque cursor from a previous page"`
	Limit  int    `query:"limit" doc:"Page size (default 100)" minimum:"0" maximum:"500"`
}

type ListRoomsResponse struct {
	Rooms      []RoomResponse `json:"rooms" doc:"Rooms ordered by id"`
	NextCursor string         `json:"nextCursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool           `json:"hasMore" doc:"Whether another page exists"`
}

type ListRoomsOutput struct {
	Body ListRoomsResponse
}

type UpdateRoomBody struct {
	Name              *string             `json:"name,omitempty" doc:"New room name" minLength:"1"`
	TimeLimitSeconds  *int                `json:"timeLimitSeconds,omitempty" doc:"New countdown length" minimum:"0"`
	AppliedImagesData *[]AppliedImageBody `json:"appliedImagesData,omitempty" doc:"Replacement image list"`
}

type UpdateRoomInput struct {
	ID   int64 `path:"id" doc:"Room id" minimum:"1"`
	Body UpdateRoomBody
}

// --- Handler ---

type RoomHandler struct {
	rooms  storage.RoomStore
	logger *slog.Logger
}

func NewRoomHandler(rooms storage.RoomStore, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{rooms: rooms, logger: logger}
}

func registerRoomRoutes(api huma.API, h *RoomHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-room",
		Method:        http.MethodPost,
		Path:          "/v1/rooms",
		Summary:       "Save a room configuration",
		Tags:          []string{"rooms"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateRoom)

	huma.Register(api, huma.Operation{
		OperationID: "list-rooms",
		Method:      http.MethodGet,
		Path:        "/v1/rooms",
		Summary:     "List room configurations",
		Tags:        []string{"rooms"},
	}, h.ListRooms)

	huma.Register(api, huma.Operation{
		OperationID: "get-room",
		Method:      http.MethodGet,
		Path:        "/v1/rooms/{id}",
		Summary:     "Get a room configuration",
		Tags:        []string{"rooms"},
	}, h.GetRoom)

	huma.Register(api, huma.Operation{
		OperationID: "update-room",
		Method:      http.MethodPatch,
		Path:        "/v1/rooms/{id}",
		Summary:     "Partially update a room configuration",
		Tags:        []string{"rooms"},
	}, h.UpdateRoom)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-room",
		Method:        http.MethodDelete,
		Path:          "/v1/rooms/{id}",
		Summary:       "Delete a room configuration",
		Tags:          []string{"rooms"},
		DefaultStatus: http.StatusNoContent,
	}, h.DeleteRoom)
}

func (h *RoomHandler) CreateRoom(ctx context.Context, input *CreateRoomInput) (*RoomOutput, error) {
	rc, err := h.rooms.CreateRoom(ctx, storage.CreateRoomRequest{
		Name:             input.Body.Name,
		TimeLimitSeconds: input.Body.TimeLimitSeconds,
		AppliedImages:    toImages(input.Body.AppliedImagesData),
	})
	if err != nil {
		h.logger.Error("failed to create room", "name", input.Body.Name, "error", err)
		return nil, huma.Error500InternalServerError("failed to create room")
	}
	return &RoomOutput{Body: roomToResponse(rc)}, nil
}

func (h *RoomHandler) ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error) {
	if input.ID != 0 {
		rc, err := h.rooms.GetRoom(ctx, input.ID)
		if err != nil {
			return nil, storeError(h.logger, "get room", input.ID, err)
		}
		return &ListRoomsOutput{Body: ListRoomsResponse{Rooms: []RoomResponse{roomToResponse(rc)}}}, nil
	}

	if _, err := storage.DecodeCursor(input.Cursor); err != nil {
		return nil, huma.Error400BadRequest("invalid cursor")
	}

	page, err := h.rooms.ListRooms(ctx, input.Cursor, input.Limit)
	if err != nil {
		h.logger.Error("failed to list rooms", "cursor", input.Cursor, "limit", input.Limit, "error", err)
		return nil, huma.Error500InternalServerError("failed to list rooms")
	}

	resp := ListRoomsResponse{
		Rooms:      make([]RoomResponse, len(page.Rooms)),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
	for i := range page.Rooms {
		resp.Rooms[i] = roomToResponse(&page.Rooms[i])
	}
	return &ListRoomsOutput{Body: resp}, nil
}

func (h *RoomHandler) GetRoom(ctx context.Context, input *RoomIDInput) (*RoomOutput, error) {
	rc, err := h.rooms.GetRoom(ctx, input.ID)
	if err != nil {
		return nil, storeError(h.logger, "get room", input.ID, err)
	}
	return &RoomOutput{Body: roomToResponse(rc)}, nil
}

func (h *RoomHandler) UpdateRoom(ctx context.Context, input *UpdateRoomInput) (*RoomOutput, error) {
	upd := storage.RoomUpdate{
		Name:             input.Body.Name,
		TimeLimitSeconds: input.Body.TimeLimitSeconds,
	}
	if input.Body.AppliedImagesData != nil {
		images := toImages(*input.Body.AppliedImagesData)
		upd.AppliedImages = &images
	}

	rc, err := h.rooms.UpdateRoom(ctx, input.ID, upd)
	if err != nil {
		return nil, storeError(h.logger, "update room", input.ID, err)
	}
	return &RoomOutput{Body: roomToResponse(rc)}, nil
}

func (h *RoomHandler) DeleteRoom(ctx context.Context, input *RoomIDInput) (*struct{}, error) {
	if err := h.rooms.DeleteRoom(ctx, input.ID); err != nil {
		return nil, storeError(h.logger, "delete room", input.ID, err)
	}
	return nil, nil
}

func toImages(in []AppliedImageBody) []room.AppliedImage {
	out := make([]room.AppliedImage, len(in))
	for i, b := range in {
		out[i] = room.AppliedImage{
			ID:        b.ID,
			URL:       b.URL,
			FileName:  b.FileName,
			X:         b.X,
			Y:         b.Y,
			HintText:  b.HintText,
			ClueText:  b.ClueText,
			Answer:    b.Answer,
			IsFlipped: b.IsFlipped,
		}
	}
	return out
}

func fromImages(in []room.AppliedImage) []AppliedImageBody {
	out := make([]AppliedImageBody, len(in))
	for i, img := range in {
		out[i] = AppliedImageBody{
			ID:        img.ID,
			URL:       img.URL,
			FileName:  img.FileName,
			X:         img.X,
			Y:         img.Y,
			HintText:  img.HintText,
			ClueText:  img.ClueText,
			Answer:    img.Answer,
			IsFlipped: img.IsFlipped,
		}
	}
	return out
}

func roomToResponse(rc *room.RoomConfig) RoomResponse {
	return RoomResponse{
		ID:                rc.ID,
		Name:              rc.Name,
		TimeLimitSeconds:  rc.TimeLimitSeconds,
		AppliedImagesData: fromImages(rc.AppliedImages),
		CreatedAt:         rc.CreatedAt,
		UpdatedAt:         rc.UpdatedAt,
	}
}
