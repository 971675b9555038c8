package main

import (
	"github.com/oakmart/storefront-web/internal/cart"
	"github.com/oakmart/storefront-web/internal/catalog"
	"github.com/oakmart/storefront-web/internal/format"
	"github.com/oakmart/storefront-web/internal/storefront"
)

type productView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Price    string  `json:"price"`
	Rating   int     `json:"rating"`
	Image    string  `json:"image"`
}

type cartItemView struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Cost      float64 `json:"cost"`
	Price     string  `json:"price"`
	Image     string  `json:"image"`
}

type cartView struct {
	Items      []cartItemView `json:"items"`
	TotalValue float64        `json:"totalValue"`
	Total      string         `json:"total"`
	TotalItems int            `json:"totalItems"`
	Known      bool           `json:"known"`
}

type storefrontView struct {
	Products  []productView `json:"products"`
	NoMatches bool          `json:"noMatches"`
	Cart      cartView      `json:"cart"`
	Username  string        `json:"username,omitempty"`
}

func buildProductViews(products []catalog.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Cost:     p.Cost,
			Price:    format.Price(p.Cost),
			Rating:   p.Rating,
			Image:    p.Image,
		})
	}
	return views
}

func buildCartView(items []cart.Item, known bool) cartView {
	views := make([]cartItemView, 0, len(items))
	for _, item := range items {
		views = append(views, cartItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Qty:       item.Qty,
			Cost:      item.Cost,
			Price:     format.Price(item.Cost),
			Image:     item.Image,
		})
	}
	return cartView{
		Items:      views,
		TotalValue: cart.TotalValue(items),
		Total:      format.Price(cart.TotalValue(items)),
		TotalItems: cart.TotalItems(items),
		Known:      known,
	}
}

func buildStorefrontView(snap storefront.Snapshot, username string) storefrontView {
	return storefrontView{
		Products:  buildProductViews(snap.Products),
		NoMatches: snap.NoMatches,
		Cart:      buildCartView(snap.Items, snap.CartKnown),
		Username:  username,
	}
}
