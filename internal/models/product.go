package models

import "time"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Seller struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	UserID   int64  `json:"user_id"`
	Approved bool   `json:"is_approved"`
}

// Product is a catalog entry. AverageRating is maintained by the rating worker.
type Product struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price_current"`
	OldPrice      *float64  `json:"price_old,omitempty"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	InStock       int       `json:"in_stock"`
	ImageURL      string    `json:"image_url,omitempty"`
	AverageRating float64   `json:"average_rating"`
	Category      Category  `json:"category"`
	Seller        Seller    `json:"seller"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Name         string   `json:"name,omitempty"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	Size         string   `json:"size,omitempty"`
	Color        string   `json:"color,omitempty"`
	CategorySlug string   `json:"category,omitempty"`
	SellerSlug   string   `json:"seller,omitempty"`
	InStock      *bool    `json:"in_stock,omitempty"`
}

// ProductPage is one page of a filtered catalog listing.
type ProductPage struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []*Product `json:"results"`
}

// ProductInput is a seller's create or update payload. The slug is derived
// from the name on create and kept on update.
type ProductInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CategorySlug string   `json:"category_slug"`
	Price        *float64 `json:"price_current"`
	Sizes        []string `json:"sizes"`
	Colors       []string `json:"colors"`
	InStock      *int     `json:"in_stock"`
	ImageURL     string   `json:"image_url"`
}

// DefaultInStock is the stock level of a product created without one.
const DefaultInStock = 5

// SetPrice changes the current price, keeping the previous one as the old
// price. Setting the same price leaves the old price alone.
func (p *Product) SetPrice(price float64) {
	if price == p.Price {
		return
	}
	old := p.Price
	p.OldPrice = &old
	p.Price = price
}
