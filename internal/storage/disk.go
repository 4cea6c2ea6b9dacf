package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// PublicPrefix is the HTTP path the disk store is served under.
const PublicPrefix = "/files"

// Disk stores photos below a local directory that the API serves statically.
type Disk struct {
	root    string
	baseURL string
	logger  zerolog.Logger
}

// NewDisk creates root if needed. baseURL is prefixed to returned paths and may be empty.
func NewDisk(root, baseURL string, logger zerolog.Logger) (*Disk, error) {
	if root == "" {
		return nil, errors.New("upload dir required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{root: root, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}, nil
}

// Root is the directory files are written to.
func (d *Disk) Root() string {
	return d.root
}

func (d *Disk) Upload(ctx context.Context, sessionID, itemKey string, data []byte) (string, error) {
	if err := checkKey(sessionID); err != nil {
		return "", err
	}
	if err := checkKey(itemKey); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Join(d.root, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	name := itemKey + ".jpg"
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	d.logger.Debug().Str("session", sessionID).Str("item", itemKey).Int("bytes", len(data)).Msg("photo stored")
	return d.baseURL + PublicPrefix + "/" + url.PathEscape(sessionID) + "/" + url.PathEscape(name), nil
}

func checkKey(k string) error {
	if k == "" || k == "." || k == ".." || strings.ContainsAny(k, `/\`) {
		return fmt.Errorf("invalid object key %q", k)
	}
	return nil
}
