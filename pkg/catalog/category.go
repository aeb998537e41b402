package catalog

import (
	"context"
	"errors"

	"github.com/madang-hq/madang-menu/internal/domain"
	"github.com/madang-hq/madang-menu/pkg/httpclient"
)

const (
	CategoriesEndpoint = "/api/restaurant/api/categories/"

	CodeCategoryFetch    = "CATEGORY_FETCH_ERROR"
	messageCategoryFetch = "Failed to fetch categories"
)

// CategoryService reads the category list.
type CategoryService struct {
	api API
	log Logger
}

// NewCategoryService wires a category service over api.
func NewCategoryService(api API, log Logger) *CategoryService {
	return &CategoryService{api: api, log: ensureLogger(log)}
}

// GetCategories returns every category. Transport failures are forwarded
// unchanged; local faults are reported as CATEGORY_FETCH_ERROR.
func (s *CategoryService) GetCategories(ctx context.Context) httpclient.Result[[]domain.Category] {
	if s == nil || s.api == nil {
		return localFailure[[]domain.Category](CodeCategoryFetch, messageCategoryFetch, errors.New("category service is not initialized"))
	}

	res, err := httpclient.Decode[[]domain.Category](s.api.Get(ctx, CategoriesEndpoint, nil))
	if err != nil {
		s.log.ErrorObj("category fetch failed", "category_error", map[string]any{
			"endpoint": CategoriesEndpoint,
			"error":    err.Error(),
		})
		return localFailure[[]domain.Category](CodeCategoryFetch, messageCategoryFetch, err)
	}
	return res
}
