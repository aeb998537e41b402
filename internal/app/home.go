package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/madang-hq/madang-menu/internal/config"
	"github.com/madang-hq/madang-menu/internal/domain"
	"github.com/madang-hq/madang-menu/internal/logger"
	"github.com/madang-hq/madang-menu/internal/storage"
	"github.com/madang-hq/madang-menu/pkg/banners"
	"github.com/madang-hq/madang-menu/pkg/catalog"
	"github.com/madang-hq/madang-menu/pkg/httpclient"
)

// Home holds the state behind the home screen: banners, the category strip,
// the selected category and its products. It manages the refresh loop and
// owns the token store.
type Home struct {
	categories      CategorySource
	products        ProductSource
	banners         *banners.Registry
	store           storage.Store
	refreshInterval time.Duration
	log             logger.Logger

	mu         sync.RWMutex
	cats       []domain.Category
	selected   int
	listing    *domain.ProductsResponse
	lastLoaded time.Time
}

// Snapshot is a copy of the Home state.
type Snapshot struct {
	Banners    []banners.Banner
	Categories []domain.Category
	Selected   int
	Products   *domain.ProductsResponse
	LoadedAt   time.Time
}

// NewHome builds the home runtime from config.
func NewHome(cfg *config.Config, log logger.Logger) (*Home, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	store, err := storage.NewStore(cfg.TokenStoreType, cfg.TokenStorePath)
	if err != nil {
		return nil, fmt.Errorf("init token store: %w", err)
	}
	log.InfoObj("token store initialized", "storage_config", map[string]any{
		"type": cfg.TokenStoreType,
		"path": cfg.TokenStorePath,
	})

	reg, err := banners.LoadRegistry(cfg.BannersFile)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load banners: %w", err)
	}
	log.InfoObj("banners loaded", "banners_meta", map[string]any{
		"count": len(reg.All()),
		"file":  cfg.BannersFile,
	})

	client := httpclient.New(httpclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	}, httpclient.WithTokenStore(store), httpclient.WithLogger(log))

	h := newHome(
		catalog.NewCategoryService(client, log),
		catalog.NewProductService(client, log),
		reg,
		log,
	)
	h.store = store
	h.refreshInterval = cfg.RefreshInterval
	return h, nil
}

func newHome(cats CategorySource, prods ProductSource, reg *banners.Registry, log logger.Logger) *Home {
	if reg == nil {
		reg = banners.Default()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Home{
		categories: cats,
		products:   prods,
		banners:    reg,
		log:        log,
	}
}

// Load fetches the categories, keeps or picks the selected category and
// fetches its products.
func (h *Home) Load(ctx context.Context) error {
	catErr := h.loadCategories(ctx)

	h.mu.RLock()
	selected := h.selected
	h.mu.RUnlock()

	var prodErr error
	if selected > 0 {
		prodErr = h.loadProducts(ctx, selected)
	}

	h.mu.Lock()
	h.lastLoaded = time.Now().UTC()
	h.mu.Unlock()

	return errors.Join(catErr, prodErr)
}

// Refresh reloads everything for the current selection.
func (h *Home) Refresh(ctx context.Context) error {
	return h.Load(ctx)
}

// Select switches the selected category and loads its products.
func (h *Home) Select(ctx context.Context, categoryID int) error {
	h.mu.Lock()
	h.selected = categoryID
	h.mu.Unlock()
	return h.loadProducts(ctx, categoryID)
}

// Snapshot returns a copy of the current state.
func (h *Home) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snap := Snapshot{
		Banners:    h.banners.All(),
		Categories: append([]domain.Category(nil), h.cats...),
		Selected:   h.selected,
		LoadedAt:   h.lastLoaded,
	}
	if h.listing != nil {
		listing := *h.listing
		listing.Products = append([]domain.Product(nil), h.listing.Products...)
		snap.Products = &listing
	}
	return snap
}

// loadCategories replaces the category strip. On failure the previous strip
// is kept. The selection survives when its category still exists, otherwise
// the first category is selected.
func (h *Home) loadCategories(ctx context.Context) error {
	res := h.categories.GetCategories(ctx)
	if !res.Success {
		h.log.ErrorObj("categories load failed", "categories_error", res.Error)
		return fmt.Errorf("load categories: %w", res.Err())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.cats = res.Data
	if !containsCategory(res.Data, h.selected) {
		h.selected = 0
		if len(res.Data) > 0 {
			h.selected = res.Data[0].ID
		}
	}
	return nil
}

// loadProducts replaces the products listing; a failure clears it.
func (h *Home) loadProducts(ctx context.Context, categoryID int) error {
	res := h.products.GetProductsByCategory(ctx, categoryID)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selected != categoryID {
		// selection moved on while this request was in flight
		return nil
	}
	if !res.Success {
		h.listing = nil
		h.log.ErrorObj("products load failed", "products_error", map[string]any{
			"category_id": categoryID,
			"code":        res.Error.Code,
			"status":      res.Error.Status,
			"message":     res.Error.Message,
		})
		return fmt.Errorf("load products for category %d: %w", categoryID, res.Err())
	}
	listing := res.Data
	h.listing = &listing
	return nil
}

func containsCategory(cats []domain.Category, id int) bool {
	if id <= 0 {
		return false
	}
	for _, c := range cats {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Run performs the initial load and, when a refresh interval is configured,
// keeps refreshing until the context is cancelled.
func (h *Home) Run(ctx context.Context) error {
	if h == nil || h.categories == nil || h.products == nil {
		return fmt.Errorf("home is not initialized")
	}
	defer h.closeStore()

	if err := h.Load(ctx); err != nil {
		h.log.ErrorObj("initial load failed", "error", err.Error())
	}
	h.logSnapshot("home loaded")

	if h.refreshInterval <= 0 {
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(h.refreshInterval),
		gocron.NewTask(h.scheduledRefresh, ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	h.log.InfoObj("home refresh loop starting", "home_state", map[string]any{
		"refresh_interval": h.refreshInterval.String(),
	})
	scheduler.Start()

	<-ctx.Done()
	h.log.InfoObj("home refresh loop exiting", "reason", ctx.Err().Error())
	if err := scheduler.Shutdown(); err != nil {
		h.log.ErrorObj("scheduler shutdown failed", "error", err.Error())
	}
	return nil
}

func (h *Home) scheduledRefresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := h.Refresh(ctx); err != nil {
		h.log.ErrorObj("scheduled refresh failed", "error", err.Error())
		return
	}
	h.logSnapshot("home refreshed")
}

func (h *Home) logSnapshot(msg string) {
	snap := h.Snapshot()
	summary := map[string]any{
		"banners":     len(snap.Banners),
		"categories":  len(snap.Categories),
		"selected_id": snap.Selected,
	}
	if snap.Products != nil {
		summary["category"] = snap.Products.Category.Name
		summary["products"] = snap.Products.CountLabel()
	}
	h.log.InfoObj(msg, "home_state", summary)
}

// closeStore safely closes the token store, logging any errors encountered.
func (h *Home) closeStore() {
	if h == nil || h.store == nil {
		return
	}
	if err := h.store.Close(); err != nil {
		h.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
