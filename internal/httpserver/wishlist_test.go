package httpserver

import (
	"net/http"
	"strings"
	"testing"
)

func TestWishlistRoutes(t *testing.T) {
	router := newTestRouter(t, testDeps())

	if rec := do(router, http.MethodGet, "/wishlist", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}

	rec := do(router, http.MethodPost, "/wishlist", "guest-token", `{"productId":"p1"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"productIds":["p1"]`) {
		t.Fatalf("unexpected add response %d %s", rec.Code, rec.Body.String())
	}

	rec = do(router, http.MethodGet, "/wishlist/p1", "guest-token", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"wishlisted":true`) {
		t.Fatalf("unexpected contains response %d %s", rec.Code, rec.Body.String())
	}
	rec = do(router, http.MethodGet, "/wishlist/p1", "cust-token", "")
	if !strings.Contains(rec.Body.String(), `"wishlisted":false`) {
		t.Fatalf("wishlists must be per owner: %s", rec.Body.String())
	}

	rec = do(router, http.MethodGet, "/wishlist", "guest-token", "")
	if body := decodeBody(t, rec); rec.Code != http.StatusOK || body["count"].(float64) != 1 {
		t.Fatalf("unexpected list %d %s", rec.Code, rec.Body.String())
	}

	rec = do(router, http.MethodDelete, "/wishlist/p1", "guest-token", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"count":0`) {
		t.Fatalf("unexpected remove response %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(router, http.MethodDelete, "/wishlist/p1", "guest-token", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 removing twice, got %d", rec.Code)
	}
}

func TestWishlistRoutes_BadInput(t *testing.T) {
	router := newTestRouter(t, testDeps())

	if rec := do(router, http.MethodPost, "/wishlist", "cust-token", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without productId, got %d", rec.Code)
	}
	if rec := do(router, http.MethodPost, "/wishlist", "cust-token", `{"productId":"nope"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}
}
