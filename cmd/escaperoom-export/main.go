// Command escaperoom-export renders a layout file (.json or .hcl) into a
// standalone escape_room_layout.html without a database or HTTP server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ryanbastic/go-escaperoom/internal/export"
	"github.com/ryanbastic/go-escaperoom/internal/layoutfile"
	"github.com/ryanbastic/go-escaperoom/internal/room"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("escaperoom-export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	layoutPath := fs.String("layout", "", "Layout file to export, .json or .hcl (required)")
	timeLimit := fs.Int("time-limit", -1, "Override the layout's time limit in seconds; 0 disables the countdown")
	outPath := fs.String("out", export.FileName, "Where to write the HTML document; - for stdout")
	check := fs.Bool("check", false, "Only report layout issues, do not write a document")
	verbose := fs.Bool("v", false, "Debug logging")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *layoutPath == "" {
		fmt.Fprintln(stderr, "missing required flag -layout")
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	layout, err := layoutfile.Load(*layoutPath)
	if err != nil {
		logger.Error("failed to load layout", "path", *layoutPath, "error", err)
		return 1
	}
	logger.Debug("layout loaded", "name", layout.Name, "images", len(layout.Images), "time_limit", layout.TimeLimitSeconds)

	issues := room.Diagnose(layout.Images)
	for _, issue := range issues {
		logger.Warn("layout issue", "kind", issue.Kind, "image_id", issue.ImageID, "message", issue.Message)
	}
	if *check {
		fmt.Fprintf(stdout, "%d images, %d issues\n", len(layout.Images), len(issues))
		return 0
	}

	seconds := layout.TimeLimitSeconds
	if *timeLimit >= 0 {
		seconds = *timeLimit
	}

	gen, err := export.NewGenerator()
	if err != nil {
		logger.Error("failed to load export templates", "error", err)
		return 1
	}

	// Render before touching the output so an empty layout leaves no file behind.
	doc, err := gen.Render(layout.Images, seconds)
	if errors.Is(err, export.ErrNoImages) {
		fmt.Fprintln(stderr, export.NoImagesWarning)
		return 1
	}
	if err != nil {
		logger.Error("failed to render export", "error", err)
		return 1
	}

	if *outPath == "-" {
		if _, err := stdout.Write(doc); err != nil {
			logger.Error("failed to write document", "error", err)
			return 1
		}
		return 0
	}

	if err := os.WriteFile(*outPath, doc, 0o644); err != nil {
		logger.Error("failed to write document", "path", *outPath, "error", err)
		return 1
	}

	logger.Info("export written", "path", *outPath, "bytes", len(doc), "images", len(layout.Images))
	fmt.Fprintf(stdout, "Wrote %s. Place these files in %s next to it:\n", *outPath, filepath.Join(filepath.Dir(*outPath), export.ImagePathPrefix))
	for _, name := range room.AssetFileNames(layout.Images) {
		fmt.Fprintf(stdout, "  %s\n", name)
	}
	return 0
}
