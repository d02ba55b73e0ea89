package gdapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Level is the subset of a downloaded level record levelsync cares about.
type Level struct {
	ID          int64
	Name        string
	Description string
	Version     int
	Downloads   int
	Likes       int

	// Fields holds every key:value pair of the record, keyed by the numeric
	// key as sent by the server. The level data itself (key "4") is dropped.
	Fields map[string]string
}

// Record keys used by the level database.
const (
	keyID          = "1"
	keyName        = "2"
	keyDescription = "3"
	keyLevelString = "4"
	keyVersion     = "5"
	keyDownloads   = "10"
	keyLikes       = "14"
)

// nameField is the position of the level name once the body is split on ':'.
// The record starts "1:<id>:2:<name>:...".
const nameField = 3

// GetLevelName downloads level id and returns its name.
func (c *Client) GetLevelName(ctx context.Context, id int64) (string, error) {
	body, err := c.downloadLevel(ctx, id)
	if err != nil {
		return "", err
	}
	return ParseLevelName(id, body)
}

// GetLevel downloads level id and decodes the record.
func (c *Client) GetLevel(ctx context.Context, id int64) (*Level, error) {
	body, err := c.downloadLevel(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ParseLevelName(id, body); err != nil {
		return nil, err
	}
	return ParseLevel(body), nil
}

// ParseLevelName returns field 3 of a colon separated record.
func ParseLevelName(id int64, body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "-1" {
		return "", fmt.Errorf("level %d: %w", id, ErrNotFound)
	}
	parts := strings.Split(body, ":")
	if len(parts) <= nameField || parts[nameField] == "" {
		return "", fmt.Errorf("level %d: %w: %d fields", id, ErrMalformedResponse, len(parts))
	}
	return parts[nameField], nil
}

// ParseLevel decodes the key:value pairs of a level record. Unknown or
// unparsable values are left in Fields only.
func ParseLevel(body string) *Level {
	record, _, _ := strings.Cut(strings.TrimSpace(body), "#")
	parts := strings.Split(record, ":")

	lvl := &Level{Fields: make(map[string]string, len(parts)/2)}
	for i := 0; i+1 < len(parts); i += 2 {
		k, v := parts[i], parts[i+1]
		if k == keyLevelString {
			continue
		}
		lvl.Fields[k] = v
	}

	lvl.ID, _ = strconv.ParseInt(lvl.Fields[keyID], 10, 64)
	lvl.Name = lvl.Fields[keyName]
	lvl.Version, _ = strconv.Atoi(lvl.Fields[keyVersion])
	lvl.Downloads, _ = strconv.Atoi(lvl.Fields[keyDownloads])
	lvl.Likes, _ = strconv.Atoi(lvl.Fields[keyLikes])
	lvl.Description = decodeDescription(lvl.Fields[keyDescription])
	return lvl
}

func decodeDescription(s string) string {
	if s == "" {
		return ""
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		if b, err = base64.RawURLEncoding.DecodeString(s); err != nil {
			return s
		}
	}
	return string(b)
}
