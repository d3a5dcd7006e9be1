package room

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrImageNotFound is returned when a layout operation names an unknown image ID.
	ErrImageNotFound = errors.New("image not found")

	// ErrDuplicateID is returned when an image is added with an ID already in the layout.
	ErrDuplicateID = errors.New("duplicate image id")
)

// AppliedImage is one placed puzzle element on the canvas.
type AppliedImage struct {
	ID        int64   `json:"id"`
	URL       string  `json:"url,omitempty"`
	FileName  string  `json:"fileName"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	HintText  string  `json:"hintText"`
	ClueText  string  `json:"clueText"`
	Answer    string  `json:"answer"`
	IsFlipped bool    `json:"isFlipped"`
}

// RoomConfig is the persisted form of a layout.
type RoomConfig struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	TimeLimitSeconds int            `json:"timeLimitSeconds"`
	AppliedImages    []AppliedImage `json:"appliedImagesData"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Layout returns the in-memory layout held by the room configuration.
func (c *RoomConfig) Layout() *Layout {
	images := make([]AppliedImage, len(c.AppliedImages))
	copy(images, c.AppliedImages)
	return &Layout{Name: c.Name, TimeLimitSeconds: c.TimeLimitSeconds, Images: images}
}

// NormalizeAnswer trims surrounding whitespace and lower-cases s.
// Stored answers and player input are both passed through it before comparison.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
