package app

import (
	"context"

	"github.com/madang-hq/madang-menu/internal/domain"
	"github.com/madang-hq/madang-menu/pkg/httpclient"
)

// CategorySource lists menu categories.
type CategorySource interface {
	GetCategories(ctx context.Context) httpclient.Result[[]domain.Category]
}

// ProductSource lists the products of one category.
type ProductSource interface {
	GetProductsByCategory(ctx context.Context, categoryID int) httpclient.Result[domain.ProductsResponse]
}
