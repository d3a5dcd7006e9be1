// Package export renders an escape room layout into a single self-contained HTML document.
//
// Rendering is pure: the same images and time limit always produce the same bytes. The
// document references images by relative path under assets/images/ and carries its own
// inlined game runtime, so it plays offline with no server.
package export

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/ryanbastic/go-escaperoom/internal/game"
	"github.com/ryanbastic/go-escaperoom/internal/room"
)

const (
	// FileName is the name the exported document is saved under.
	FileName = "escape_room_layout.html"

	// ImagePathPrefix is the relative directory the player must put the image files in.
	ImagePathPrefix = "assets/images/"

	// ContentType of the exported document.
	ContentType = "text/html; charset=utf-8"

	// NoImagesWarning is shown to the user when an export is attempted on an empty layout.
	NoImagesWarning = "Please apply at least one image before exporting."
)

var (
	// ErrNoImages is returned for an empty image sequence. Callers surface NoImagesWarning.
	ErrNoImages = errors.New("no images to export")

	// ErrNegativeTimeLimit is returned for a time limit below zero.
	ErrNegativeTimeLimit = errors.New("time limit must not be negative")
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/game.js
var gameJS string

// Generator renders export documents. It is safe for concurrent use.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator parses the embedded document template.
func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("export").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse export templates: %w", err)
	}
	if tmpl.Lookup("document") == nil {
		return nil, fmt.Errorf("parse export templates: template %q not defined", "document")
	}
	return &Generator{tmpl: tmpl}, nil
}

type puzzleView struct {
	ID       int64
	X        float64
	Y        float64
	FileName string
	Answer   string
	Hint     string
	Clue     string
	Flipped  bool
}

type documentData struct {
	Total     int
	Clock     string
	Puzzles   []puzzleView
	FileNames []string
	Script    template.JS
}

// Render produces the complete HTML document for images with a countdown of
// timeLimitSeconds. A time limit of zero produces an untimed game.
func (g *Generator) Render(images []room.AppliedImage, timeLimitSeconds int) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf, images, timeLimitSeconds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the document into w. Nothing is written when the preconditions fail.
func (g *Generator) Write(w io.Writer, images []room.AppliedImage, timeLimitSeconds int) error {
	if len(images) == 0 {
		return ErrNoImages
	}
	if timeLimitSeconds < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeTimeLimit, timeLimitSeconds)
	}

	puzzles := game.PuzzlesFrom(images)
	initial := game.New(puzzles, timeLimitSeconds)

	data := documentData{
		Total:     initial.Total(),
		Clock:     initial.Clock(),
		Puzzles:   make([]puzzleView, len(images)),
		FileNames: room.AssetFileNames(images),
		Script:    gameScript(initial),
	}
	for i, img := range images {
		data.Puzzles[i] = puzzleView{
			ID:       img.ID,
			X:        img.X,
			Y:        img.Y,
			FileName: img.FileName,
			Answer:   puzzles[i].Answer,
			Hint:     img.HintText,
			Clue:     img.ClueText,
			Flipped:  img.IsFlipped,
		}
	}

	// Render into a buffer first so a template failure never leaves a partial document in w.
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "document", data); err != nil {
		return fmt.Errorf("execute export template: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write export document: %w", err)
	}
	return nil
}

// gameScript declares the per-document state and splices in the static runtime,
// scoped to one function so nothing leaks onto window.
func gameScript(initial *game.Game) template.JS {
	return template.JS(fmt.Sprintf("(function () {\n\"use strict\";\n\nconst TOTAL_PUZZLES = %d;\nconst TIMED = %t;\nlet timeLeft = %d;\n\n%s})();",
		initial.Total(), initial.Timed(), initial.Remaining(), gameJS))
}
