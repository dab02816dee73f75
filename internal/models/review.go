package models

import "time"

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateReviewRequest struct {
	ProductSlug string `json:"product_slug"`
	Rating      int    `json:"rating"`
	Text        string `json:"text"`
}

type UpdateReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}
