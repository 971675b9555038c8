package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/oakmart/storefront-web/internal/backend"
	"github.com/oakmart/storefront-web/internal/cms"
	"github.com/oakmart/storefront-web/internal/format"
	"github.com/oakmart/storefront-web/internal/middleware"
	"github.com/oakmart/storefront-web/internal/session"
	"github.com/oakmart/storefront-web/internal/storefront"
)

type handlers struct {
	app    *storefront.App
	client *backend.Client
	pages  *cms.Store
	log    *zap.Logger
}

// Storefront performs the initial page load: fetch the catalog and, when
// signed in, the cart; then return the full state snapshot.
func (h *handlers) Storefront(w http.ResponseWriter, r *http.Request) {
	ctx, notices := withNotices(r)
	sess := session.FromContext(ctx)

	h.app.Mount(ctx, sess)

	view := buildStorefrontView(h.app.Snapshot(), sess.Username)
	writeJSON(w, http.StatusOK, view, notices.Drain())
}

// Products returns the currently displayed catalog listing.
func (h *handlers) Products(w http.ResponseWriter, r *http.Request) {
	snap := h.app.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"products":  buildProductViews(snap.Products),
		"noMatches": snap.NoMatches,
	}, nil)
}

type searchRequest struct {
	Value string `json:"value"`
}

// SearchInput accepts one search-box keystroke. The debouncer coalesces a
// burst of these into a single backend query; the displayed listing catches
// up asynchronously and is read back via Products.
func (h *handlers) SearchInput(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.app.QueryChanged(req.Value)
	w.WriteHeader(http.StatusAccepted)
}

// Cart re-fetches the cart record and returns the reconciled view.
func (h *handlers) Cart(w http.ResponseWriter, r *http.Request) {
	ctx, notices := withNotices(r)
	sess := session.FromContext(ctx)

	h.app.RefreshCart(ctx, sess)

	snap := h.app.Snapshot()
	writeJSON(w, http.StatusOK, buildCartView(snap.Items, snap.CartKnown), notices.Drain())
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
}

// AddToCart handles the product card's add button.
func (h *handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, notices := withNotices(r)
	sess := session.FromContext(ctx)

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "productId is required")
		return
	}

	_ = h.app.AddToCart(ctx, sess, req.ProductID)

	snap := h.app.Snapshot()
	writeJSON(w, http.StatusOK, buildCartView(snap.Items, snap.CartKnown), notices.Drain())
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

// ChangeQuantity handles the cart stepper's plus/minus buttons.
func (h *handlers) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, notices := withNotices(r)
	sess := session.FromContext(ctx)

	productID := chi.URLParam(r, "productID")
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "delta must be a non-zero integer")
		return
	}

	_ = h.app.ChangeQuantity(ctx, sess, productID, req.Delta)

	snap := h.app.Snapshot()
	writeJSON(w, http.StatusOK, buildCartView(snap.Items, snap.CartKnown), notices.Drain())
}

// ContentPage renders a markdown content page.
func (h *handlers) ContentPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.Page(chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "page not found")
			return
		}
		h.log.Warn("content page failed", zap.String("slug", chi.URLParam(r, "slug")), zap.Error(err))
		middleware.WriteError(w, http.StatusInternalServerError, "failed to load page")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slug":    page.Slug,
		"title":   page.Title,
		"summary": page.Summary,
		"body":    page.Body,
		"updated": format.Date(page.UpdatedAt),
	}, nil)
}
