package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ryanbastic/go-escaperoom/internal/export"
	"github.com/ryanbastic/go-escaperoom/internal/metrics"
	"github.com/ryanbastic/go-escaperoom/internal/room"
	"github.com/ryanbastic/go-escaperoom/internal/storage"
)

// --- Huma Input/Output types ---

type ExportBody struct {
	Images           []AppliedImageBody `json:"images" doc:"Placed images in insertion order" required:"true"`
	TimeLimitSeconds int                `json:"timeLimitSeconds,omitempty" doc:"Countdown length; 0 means untimed" minimum:"0"`
}

type ExportInput struct {
	Body ExportBody
}

// ExportOutput is the standalone HTML document, served as a download.
type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// --- Handler ---

type ExportHandler struct {
	rooms     storage.RoomStore
	generator *export.Generator
	logger    *slog.Logger
}

func NewExportHandler(rooms storage.RoomStore, generator *export.Generator, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{rooms: rooms, generator: generator, logger: logger}
}

func registerExportRoutes(api huma.API, h *ExportHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "export-layout",
		Method:      http.MethodPost,
		Path:        "/v1/export",
		Summary:     "Export a layout as a playable HTML file",
		Tags:        []string{"export"},
	}, h.ExportLayout)

	huma.Register(api, huma.Operation{
		OperationID: "export-room",
		Method:      http.MethodGet,
		Path:        "/v1/rooms/{id}/export",
		Summary:     "Export a saved room as a playable HTML file",
		Tags:        []string{"export"},
	}, h.ExportRoom)
}

func (h *ExportHandler) ExportLayout(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	return h.render(toImages(input.Body.Images), input.Body.TimeLimitSeconds, slog.String("source", "inline"))
}

func (h *ExportHandler) ExportRoom(ctx context.Context, input *RoomIDInput) (*ExportOutput, error) {
	rc, err := h.rooms.GetRoom(ctx, input.ID)
	if err != nil {
		return nil, storeError(h.logger, "get room", input.ID, err)
	}
	layout := rc.Layout()
	return h.render(layout.Images, layout.TimeLimitSeconds, slog.Int64("room_id", rc.ID))
}

func (h *ExportHandler) render(images []room.AppliedImage, timeLimitSeconds int, source slog.Attr) (*ExportOutput, error) {
	for _, issue := range room.Diagnose(images) {
		h.logger.Warn("layout issue", source, "kind", issue.Kind, "image_id", issue.ImageID, "message", issue.Message)
	}

	doc, err := h.generator.Render(images, timeLimitSeconds)
	switch {
	case errors.Is(err, export.ErrNoImages):
		metrics.ObserveExport(metrics.ExportEmpty, 0)
		h.logger.Warn("export refused: no images", source)
		return nil, huma.Error422UnprocessableEntity(export.NoImagesWarning)
	case errors.Is(err, export.ErrNegativeTimeLimit):
		metrics.ObserveExport(metrics.ExportInvalid, 0)
		return nil, huma.Error422UnprocessableEntity(err.Error())
	case err != nil:
		metrics.ObserveExport(metrics.ExportError, 0)
		h.logger.Error("failed to render export", source, "images", len(images), "error", err)
		return nil, huma.Error500InternalServerError("failed to render export")
	}

	metrics.ObserveExport(metrics.ExportOK, len(doc))
	h.logger.Info("export rendered", source, "images", len(images), "bytes", len(doc))

	return &ExportOutput{
		ContentType:        export.ContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", export.FileName),
		Body:               doc,
	}, nil
}
