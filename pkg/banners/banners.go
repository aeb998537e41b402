// Package banners holds the promotional carousel entries of the home screen.
package banners

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Banner is one promotional card.
type Banner struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Subtitle    string `json:"subtitle" yaml:"subtitle"`
	Description string `json:"description" yaml:"description"`
	ColorStart  string `json:"color_start" yaml:"color_start"`
	ColorEnd    string `json:"color_end" yaml:"color_end"`
	Image       string `json:"image" yaml:"image"`
}

type configFile struct {
	Banners []Banner `json:"banners" yaml:"banners"`
}

// Registry is the ordered set of configured banners.
type Registry struct {
	mu      sync.RWMutex
	banners []Banner
	idx     map[int]Banner
}

// Default returns the built-in promotions.
func Default() *Registry {
	reg, _ := newRegistry([]Banner{
		{
			ID:          1,
			Title:       "50% OFF",
			Subtitle:    "All salad and Pasta",
			Description: "Use code Madang50",
			ColorStart:  "#ff7e5f",
			ColorEnd:    "#feb47b",
			Image:       "assets/images/ensalada3.png",
		},
		{
			ID:          2,
			Title:       "10% OFF",
			Subtitle:    "On grills",
			Description: "Use code Parri90",
			ColorStart:  "#d49425ff",
			ColorEnd:    "#feb47b",
			Image:       "assets/images/ensalada3.png",
		},
	})
	return reg
}

// LoadRegistry loads banners from a YAML/JSON file. An empty path yields the
// built-in defaults.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open banners file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read banners file: %w", err)
	}

	cfg, err := parseBanners(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(cfg.Banners) == 0 {
		return nil, errors.New("banners file contains no banners entries")
	}
	return newRegistry(cfg.Banners)
}

func newRegistry(entries []Banner) (*Registry, error) {
	reg := &Registry{
		banners: make([]Banner, len(entries)),
		idx:     make(map[int]Banner, len(entries)),
	}
	for i := range entries {
		b := sanitizeBanner(entries[i])
		if err := validateBanner(b); err != nil {
			return nil, fmt.Errorf("banners[%d]: %w", i, err)
		}
		if _, exists := reg.idx[b.ID]; exists {
			return nil, fmt.Errorf("duplicate banner id %d", b.ID)
		}
		reg.banners[i] = b
		reg.idx[b.ID] = b
	}
	return reg, nil
}

func parseBanners(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var cfg configFile
		if err := d.fn(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	return configFile{}, errors.New("banners file format not recognized (expected YAML or JSON)")
}

func sanitizeBanner(b Banner) Banner {
	b.Title = strings.TrimSpace(b.Title)
	b.Subtitle = strings.TrimSpace(b.Subtitle)
	b.Description = strings.TrimSpace(b.Description)
	b.ColorStart = strings.TrimSpace(b.ColorStart)
	b.ColorEnd = strings.TrimSpace(b.ColorEnd)
	b.Image = strings.TrimSpace(b.Image)
	return b
}

func validateBanner(b Banner) error {
	if b.ID <= 0 {
		return errors.New("id must be positive")
	}
	if b.Title == "" {
		return fmt.Errorf("title is required for banner %d", b.ID)
	}
	return nil
}

// All returns the banners in file order.
func (r *Registry) All() []Banner {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Banner, len(r.banners))
	copy(out, r.banners)
	return out
}

// ByID returns the banner with the given id.
func (r *Registry) ByID(id int) (Banner, bool) {
	if r == nil {
		return Banner{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.idx[id]
	return b, ok
}

// cardGutter is the horizontal space around each carousel card.
const cardGutter = 40

// PageAt returns the carousel page shown at a horizontal scroll offset for a
// viewport width, clamped to the available pages.
func PageAt(offset, viewport float64, count int) int {
	if count <= 0 {
		return 0
	}
	pageWidth := viewport - cardGutter
	if pageWidth <= 0 {
		return 0
	}
	page := int(math.Round(offset / pageWidth))
	if page < 0 {
		return 0
	}
	if page > count-1 {
		return count - 1
	}
	return page
}
