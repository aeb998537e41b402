package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/madang-hq/madang-menu/internal/domain"
	"gopkg.in/yaml.v3"
)

// FixtureProduct is a product entry nested under its category in a fixture.
type FixtureProduct struct {
	ID       int     `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Price    string  `json:"price" yaml:"price"`
	Image    *string `json:"image" yaml:"image"`
	ImageURL *string `json:"image_url" yaml:"image_url"`
}

// FixtureCategory is a category with its products.
type FixtureCategory struct {
	ID       int              `json:"id" yaml:"id"`
	Name     string           `json:"name" yaml:"name"`
	Image    string           `json:"image" yaml:"image"`
	Products []FixtureProduct `json:"products" yaml:"products"`
}

// Fixture is the in-memory menu served by the mock API.
type Fixture struct {
	Categories []FixtureCategory `json:"categories" yaml:"categories"`
}

// LoadFixture reads a YAML/JSON menu fixture.
func LoadFixture(path string) (*Fixture, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("fixture file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read fixture file: %w", err)
	}

	var fx Fixture
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &fx)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(raw, &fx)
	default:
		return nil, fmt.Errorf("fixture file format %q not recognized (expected YAML or JSON)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (f *Fixture) validate() error {
	seen := make(map[int]struct{}, len(f.Categories))
	for i, c := range f.Categories {
		if c.ID <= 0 {
			return fmt.Errorf("categories[%d]: id must be positive", i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate category id %d", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// CategoryList returns the categories without their products.
func (f *Fixture) CategoryList() []domain.Category {
	out := make([]domain.Category, 0, len(f.Categories))
	for _, c := range f.Categories {
		out = append(out, domain.Category{ID: c.ID, Name: c.Name, Image: c.Image})
	}
	return out
}

// ProductsFor builds the products listing of category id.
func (f *Fixture) ProductsFor(id int) (domain.ProductsResponse, bool) {
	for _, c := range f.Categories {
		if c.ID != id {
			continue
		}
		products := make([]domain.Product, 0, len(c.Products))
		for _, p := range c.Products {
			products = append(products, domain.Product{
				ID:           p.ID,
				Name:         p.Name,
				Price:        p.Price,
				Image:        p.Image,
				ImageURL:     p.ImageURL,
				Category:     c.ID,
				CategoryName: c.Name,
			})
		}
		return domain.ProductsResponse{
			Category:      domain.CategoryInfo{ID: c.ID, Name: c.Name, Image: c.Image},
			Products:      products,
			TotalProducts: len(products),
		}, true
	}
	return domain.ProductsResponse{}, false
}
