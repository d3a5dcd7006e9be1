// Package layoutfile loads escape room layouts from disk for offline export.
//
// Two formats are accepted, chosen by extension:
//
//	.json  the same document the browser client persists ({name, timeLimitSeconds, appliedImagesData})
//	.hcl   a hand-editable form with one image block per puzzle
//
// An HCL layout looks like:
//
//	name               = "Cellar"
//	time_limit_seconds = 300
//
//	image "1700000000001" {
//	  file_name = "clock.png"
//	  x         = 10
//	  y         = 20
//	  hint      = "Look at the hands"
//	  clue      = "4"
//	  answer    = "Midnight"
//	}
package layoutfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/ryanbastic/go-escaperoom/internal/room"
)

// Load reads the layout at path.
func Load(path string) (*room.Layout, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return loadJSON(path)
	case ".hcl":
		return loadHCL(path)
	default:
		return nil, fmt.Errorf("layout file %s: unsupported extension %q (want .json or .hcl)", path, ext)
	}
}

func loadJSON(path string) (*room.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout file: %w", err)
	}

	var l room.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout file %s: %w", path, err)
	}
	return &l, nil
}

type hclLayoutFile struct {
	Name             string      `hcl:"name,optional"`
	TimeLimitSeconds int         `hcl:"time_limit_seconds,optional"`
	Images           []*hclImage `hcl:"image,block"`
}

type hclImage struct {
	ID       string  `hcl:"id,label"`
	FileName string  `hcl:"file_name"`
	URL      string  `hcl:"url,optional"`
	X        float64 `hcl:"x,optional"`
	Y        float64 `hcl:"y,optional"`
	Hint     string  `hcl:"hint,optional"`
	Clue     string  `hcl:"clue,optional"`
	Answer   string  `hcl:"answer,optional"`
	Flipped  bool    `hcl:"flipped,optional"`
}

func loadHCL(path string) (*room.Layout, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decodeHCL(file.Body, path)
}

// ParseHCL decodes an HCL layout held in memory. filename is only used in diagnostics.
func ParseHCL(src []byte, filename string) (*room.Layout, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decodeHCL(file.Body, filename)
}

func decodeHCL(body hcl.Body, filename string) (*room.Layout, error) {
	var parsed hclLayoutFile
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	l := room.NewLayout(parsed.Name, parsed.TimeLimitSeconds)
	for _, img := range parsed.Images {
		id, err := strconv.ParseInt(img.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("layout file %s: image label %q is not an integer id", filename, img.ID)
		}
		err = l.Add(room.AppliedImage{
			ID:        id,
			URL:       img.URL,
			FileName:  img.FileName,
			X:         img.X,
			Y:         img.Y,
			HintText:  img.Hint,
			ClueText:  img.Clue,
			Answer:    img.Answer,
			IsFlipped: img.Flipped,
		})
		if err != nil {
			return nil, fmt.Errorf("layout file %s: %w", filename, err)
		}
	}
	return l, nil
}
