package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Domain contains the restaurant catalog models.

type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CategoryInfo is the category summary embedded in a products listing.
type CategoryInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Product struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Price        string  `json:"price"`
	Image        *string `json:"image"`
	ImageURL     *string `json:"image_url"`
	Category     int     `json:"category"`
	CategoryName string  `json:"category_name"`
}

// DisplayImage returns the absolute image URL when present, else the raw
// image path, else "".
func (p Product) DisplayImage() string {
	if p.ImageURL != nil && *p.ImageURL != "" {
		return *p.ImageURL
	}
	if p.Image != nil {
		return *p.Image
	}
	return ""
}

// PriceValue parses the decimal price string.
func (p Product) PriceValue() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.Price), 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", p.Price, err)
	}
	return v, nil
}

// FormattedPrice renders the price with two decimals, e.g. "$12.50".
// Unparseable prices render as "$0.00".
func (p Product) FormattedPrice() string {
	v, _ := p.PriceValue()
	return fmt.Sprintf("$%.2f", v)
}

// ProductsResponse is the payload of the category products endpoint.
// TotalProducts is reported by the server and not cross-checked.
type ProductsResponse struct {
	Category      CategoryInfo `json:"category"`
	Products      []Product    `json:"products"`
	TotalProducts int          `json:"total_products"`
}

// CountLabel renders the product count, e.g. "1 product" or "3 products".
func (r ProductsResponse) CountLabel() string {
	n := len(r.Products)
	if n == 1 {
		return "1 product"
	}
	return fmt.Sprintf("%d products", n)
}
