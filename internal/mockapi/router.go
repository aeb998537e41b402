package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/madang-hq/madang-menu/internal/logger"
)

// Options tunes the mock server.
type Options struct {
	// RequiredToken, when set, rejects requests not carrying "Bearer <token>".
	RequiredToken  string
	AllowedOrigins []string
	Log            logger.Logger
}

type handler struct {
	fx  *Fixture
	log logger.Logger
}

// NewRouter serves the restaurant endpoints from fx.
func NewRouter(fx *Fixture, opts Options) http.Handler {
	if fx == nil {
		fx = &Fixture{}
	}
	log := opts.Log
	if log == nil {
		log = logger.NopLogger{}
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &handler{fx: fx, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api/restaurant/api/categories", func(r chi.Router) {
		if opts.RequiredToken != "" {
			r.Use(requireBearer(opts.RequiredToken))
		}
		r.Get("/", h.listCategories)
		r.Get("/{id}/products/", h.categoryProducts)
	})
	return r
}

func (h *handler) listCategories(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.fx.CategoryList())
}

func (h *handler) categoryProducts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid category id", "code": "INVALID_ID"})
		return
	}

	resp, ok := h.fx.ProductsFor(id)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "category not found", "code": "NOT_FOUND"})
		return
	}
	render.JSON(w, r, resp)
}

func requireBearer(token string) func(http.Handler) http.Handler {
	want := "Bearer " + token
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(r.Header.Get("Authorization")) != want {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"message": "invalid token", "code": "UNAUTHORIZED"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.InfoObj("mock request served", "request", map[string]any{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"elapsed_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}
