package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/madang-hq/madang-menu/pkg/httpclient"
)

// fakeAPI returns a canned raw result and records the requested endpoint.
type fakeAPI struct {
	res      httpclient.Result[json.RawMessage]
	endpoint string
}

func (f *fakeAPI) Get(_ context.Context, endpoint string, _ map[string]string, _ ...httpclient.RequestOption) httpclient.Result[json.RawMessage] {
	f.endpoint = endpoint
	return f.res
}

func restaurantServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/restaurant/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Pizza","image":"http://x/p.png"}]`))
	})
	mux.HandleFunc("/api/restaurant/api/categories/5/products/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":{"id":5,"name":"Drinks","image":"http://x/d.png"},"products":[],"total_products":0}`))
	})
	mux.HandleFunc("/api/restaurant/api/categories/6/products/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":{"id":6,"name":"Pasta","image":""},"products":[` +
			`{"id":10,"name":"Carbonara","price":"11.90","image":null,"image_url":"http://x/c.png","category":6,"category_name":"Pasta"}` +
			`],"total_products":1}`))
	})
	mux.HandleFunc("/api/restaurant/api/categories/404/products/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"category not found","code":"NOT_FOUND"}`))
	})
	return httptest.NewServer(mux)
}

func TestGetCategories(t *testing.T) {
	srv := restaurantServer(t)
	defer srv.Close()

	svc := NewCategoryService(httpclient.New(httpclient.Config{BaseURL: srv.URL}), nil)
	res := svc.GetCategories(context.Background())
	if !res.Success || res.Error != nil {
		t.Fatalf("expected success, got %+v", res.Error)
	}
	if len(res.Data) != 1 {
		t.Fatalf("expected 1 category, got %d", len(res.Data))
	}
	got := res.Data[0]
	if got.ID != 1 || got.Name != "Pizza" || got.Image != "http://x/p.png" {
		t.Fatalf("unexpected category %+v", got)
	}
}

func TestGetProductsByCategoryEmpty(t *testing.T) {
	srv := restaurantServer(t)
	defer srv.Close()

	svc := NewProductService(httpclient.New(httpclient.Config{BaseURL: srv.URL}), nil)
	res := svc.GetProductsByCategory(context.Background(), 5)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res.Error)
	}
	if len(res.Data.Products) != 0 || res.Data.TotalProducts != 0 {
		t.Fatalf("expected no products, got %+v", res.Data)
	}
	if res.Data.Category.Name != "Drinks" {
		t.Fatalf("unexpected category info %+v", res.Data.Category)
	}
}

func TestGetProductsByCategoryDecodesProducts(t *testing.T) {
	srv := restaurantServer(t)
	defer srv.Close()

	svc := NewProductService(httpclient.New(httpclient.Config{BaseURL: srv.URL}), nil)
	res := svc.GetProductsByCategory(context.Background(), 6)
	if !res.Success || len(res.Data.Products) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	p := res.Data.Products[0]
	if p.Image != nil {
		t.Fatalf("expected null image to decode as nil")
	}
	if p.DisplayImage() != "http://x/c.png" || p.FormattedPrice() != "$11.90" || p.CategoryName != "Pasta" {
		t.Fatalf("unexpected product %+v", p)
	}
}

func TestServerErrorsAreForwardedUnchanged(t *testing.T) {
	srv := restaurantServer(t)
	defer srv.Close()

	svc := NewProductService(httpclient.New(httpclient.Config{BaseURL: srv.URL}), nil)
	res := svc.GetProductsByCategory(context.Background(), 404)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error.Code != "NOT_FOUND" || res.Error.Status != http.StatusNotFound || res.Error.Message != "category not found" {
		t.Fatalf("unexpected error %+v", res.Error)
	}
}

func TestNetworkFailureForwarded(t *testing.T) {
	srv := restaurantServer(t)
	url := srv.URL
	srv.Close()

	res := NewCategoryService(httpclient.New(httpclient.Config{BaseURL: url}), nil).GetCategories(context.Background())
	if res.Success || res.Error.Code != httpclient.CodeNoInternet || res.Error.Status != 0 {
		t.Fatalf("expected NO_INTERNET, got %+v", res.Error)
	}
	if res.Data != nil {
		t.Fatalf("expected no data on failure")
	}
}

func TestCategoryServiceLocalFaults(t *testing.T) {
	var nilSvc *CategoryService
	res := nilSvc.GetCategories(context.Background())
	if res.Success || res.Error.Code != CodeCategoryFetch || res.Error.Status != 0 || res.Error.Kind != httpclient.KindLocal {
		t.Fatalf("unexpected nil-service result %+v", res.Error)
	}

	api := &fakeAPI{res: httpclient.OK(json.RawMessage(`{"unexpected":"object"}`), 200)}
	res = NewCategoryService(api, nil).GetCategories(context.Background())
	if res.Success || res.Error.Code != CodeCategoryFetch {
		t.Fatalf("expected decode fault to map to %s, got %+v", CodeCategoryFetch, res.Error)
	}
	if api.endpoint != CategoriesEndpoint {
		t.Fatalf("unexpected endpoint %s", api.endpoint)
	}
}

func TestProductServiceLocalFaults(t *testing.T) {
	api := &fakeAPI{res: httpclient.OK(json.RawMessage(`[]`), 200)}
	svc := NewProductService(api, nil)

	res := svc.GetProductsByCategory(context.Background(), 0)
	if res.Success || res.Error.Code != CodeProductsFetch || res.Error.Status != 0 {
		t.Fatalf("expected invalid id fault, got %+v", res.Error)
	}
	if api.endpoint != "" {
		t.Fatalf("invalid id must not reach the transport")
	}

	res = svc.GetProductsByCategory(context.Background(), 3)
	if res.Success || res.Error.Code != CodeProductsFetch {
		t.Fatalf("expected decode fault, got %+v", res.Error)
	}
	if api.endpoint != "/api/restaurant/api/categories/3/products/" {
		t.Fatalf("unexpected endpoint %s", api.endpoint)
	}
}
