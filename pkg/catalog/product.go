package catalog

import (
	"context"
	"fmt"

	"github.com/madang-hq/madang-menu/internal/domain"
	"github.com/madang-hq/madang-menu/pkg/httpclient"
)

const (
	CodeProductsFetch    = "PRODUCTS_FETCH_ERROR"
	messageProductsFetch = "Failed to fetch category products"
)

// CategoryProductsEndpoint returns the products path for a category.
func CategoryProductsEndpoint(categoryID int) string {
	return fmt.Sprintf("/api/restaurant/api/categories/%d/products/", categoryID)
}

// ProductService reads products grouped by category.
type ProductService struct {
	api API
	log Logger
}

// NewProductService wires a product service over api.
func NewProductService(api API, log Logger) *ProductService {
	return &ProductService{api: api, log: ensureLogger(log)}
}

// GetProductsByCategory returns the products listing of one category.
func (s *ProductService) GetProductsByCategory(ctx context.Context, categoryID int) httpclient.Result[domain.ProductsResponse] {
	if s == nil || s.api == nil {
		return localFailure[domain.ProductsResponse](CodeProductsFetch, messageProductsFetch, fmt.Errorf("product service is not initialized"))
	}
	if categoryID <= 0 {
		return localFailure[domain.ProductsResponse](CodeProductsFetch, messageProductsFetch, fmt.Errorf("invalid category id %d", categoryID))
	}

	endpoint := CategoryProductsEndpoint(categoryID)
	res, err := httpclient.Decode[domain.ProductsResponse](s.api.Get(ctx, endpoint, nil))
	if err != nil {
		s.log.ErrorObj("products fetch failed", "products_error", map[string]any{
			"endpoint":    endpoint,
			"category_id": categoryID,
			"error":       err.Error(),
		})
		return localFailure[domain.ProductsResponse](CodeProductsFetch, messageProductsFetch, err)
	}
	return res
}
