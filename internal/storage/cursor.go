package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor is an opaque pagination token for room listings.
type Cursor struct {
	// AfterID is the id of the last room on the previous page.
	AfterID int64 `json:"after_id"`
}

// Encode serializes the cursor to a base64-encoded string.
func (c *Cursor) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor parses a base64-encoded cursor string. An empty string is the start of the listing.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return &Cursor{}, nil
	}
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.AfterID < 0 {
		return nil, fmt.Errorf("decode cursor: negative after_id %d", c.AfterID)
	}
	return &c, nil
}
