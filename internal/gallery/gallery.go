// Package gallery owns the image carousel state: a directory of images, the
// current position, and an optional user-loaded override. The state lives in
// one mutex-guarded struct instead of ambient fields, so concurrent handlers
// see a consistent carousel.
package gallery

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	apperrors "go-channel-histogram/internal/errors"
)

// ErrEmpty is returned when the gallery directory holds no supported images.
var ErrEmpty = errors.New("no images in gallery directory")

// supportedExtensions mirrors the formats the storage layer can decode.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// Gallery cycles through the images of a single directory.
type Gallery struct {
	mu       sync.Mutex
	dir      string
	paths    []string
	index    int
	override string // custom image loaded outside the carousel
}

// New creates a gallery over dir, creating the directory if it does not
// exist yet and scanning it for supported images.
func New(dir string) (*Gallery, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewInternalError("failed to create gallery directory", err)
	}
	g := &Gallery{dir: dir}
	if err := g.Rescan(); err != nil {
		return nil, err
	}
	return g, nil
}

// Rescan re-reads the directory. The carousel position resets when the
// current image disappeared.
func (g *Gallery) Rescan() error {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return apperrors.NewInternalError("failed to read gallery directory", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if supportedExtensions[ext] {
			paths = append(paths, filepath.Join(g.dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.paths = paths
	if g.index >= len(paths) {
		g.index = 0
	}
	return nil
}

// Current returns the path of the current image: the custom override when
// one is loaded, otherwise the carousel position.
func (g *Gallery) Current() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.override != "" {
		return g.override, nil
	}
	if len(g.paths) == 0 {
		return "", ErrEmpty
	}
	return g.paths[g.index], nil
}

// Next advances the carousel one position, wrapping at the end. Any custom
// override is dropped.
func (g *Gallery) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.override = ""
	if len(g.paths) == 0 {
		return "", ErrEmpty
	}
	g.index = (g.index + 1) % len(g.paths)
	return g.paths[g.index], nil
}

// Prev steps the carousel back one position, wrapping at the start.
func (g *Gallery) Prev() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.override = ""
	if len(g.paths) == 0 {
		return "", ErrEmpty
	}
	g.index = (g.index - 1 + len(g.paths)) % len(g.paths)
	return g.paths[g.index], nil
}

// LoadCustom sets a user-chosen image as the current one without moving the
// carousel, like the viewer's file-picker flow.
func (g *Gallery) LoadCustom(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return apperrors.NewNotFoundError("image file not found", err)
	}
	if info.IsDir() {
		return apperrors.NewValidationError("path is a directory, not an image", nil)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return apperrors.NewValidationError("unsupported image extension "+ext, nil)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.override = path
	return nil
}

// Paths returns a copy of the scanned image paths in carousel order.
func (g *Gallery) Paths() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.paths))
	copy(out, g.paths)
	return out
}

// Len is the number of images in the carousel.
func (g *Gallery) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.paths)
}

// Dir returns the gallery directory.
func (g *Gallery) Dir() string {
	return g.dir
}
