package service

import (
	"math"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// Column widths of shipping_addresses.
var addressFieldLimits = []struct {
	field string
	max   int
	value func(*models.ShippingAddressInput) string
}{
	{"full_name", 1000, func(in *models.ShippingAddressInput) string { return in.FullName }},
	{"email", 254, func(in *models.ShippingAddressInput) string { return in.Email }},
	{"phone", 20, func(in *models.ShippingAddressInput) string { return in.Phone }},
	{"address", 1000, func(in *models.ShippingAddressInput) string { return in.Address }},
	{"city", 200, func(in *models.ShippingAddressInput) string { return in.City }},
	{"country", 200, func(in *models.ShippingAddressInput) string { return in.Country }},
	{"zipcode", 20, func(in *models.ShippingAddressInput) string { return in.Zipcode }},
}

// NormalizeShippingAddress trims surrounding whitespace from every field.
func NormalizeShippingAddress(in *models.ShippingAddressInput) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.Zipcode = strings.TrimSpace(in.Zipcode)
}

// ValidateShippingAddress checks required fields, lengths and the email
// format, reporting every problem at once.
func ValidateShippingAddress(in *models.ShippingAddressInput) error {
	fe := errors.FieldErrors{}

	for _, f := range addressFieldLimits {
		v := f.value(in)
		switch {
		case v == "":
			fe.Add(f.field, "this field is required")
		case utf8.RuneCountInString(v) > f.max:
			fe.Add(f.field, "too long")
		}
	}

	if in.Email != "" {
		if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
			fe.Add("email", "enter a valid email address")
		}
	}

	return fe.Err()
}

const maxReviewLength = 5000

// ValidateCreateReviewRequest validates a review submission.
func ValidateCreateReviewRequest(req *models.CreateReviewRequest) error {
	fe := errors.FieldErrors{}

	if strings.TrimSpace(req.ProductSlug) == "" {
		fe.Add("product_slug", "product slug is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		fe.Add("rating", "rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(req.Text) > maxReviewLength {
		fe.Add("text", "review text too long")
	}

	return fe.Err()
}

// Bounds of the products columns.
const (
	maxProductNameLength = 255
	maxProductPrice      = 99999999.99
)

// NormalizeProductInput trims the text fields and drops blank sizes and
// colors.
func NormalizeProductInput(in *models.ProductInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.CategorySlug = strings.TrimSpace(in.CategorySlug)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Sizes = compactStrings(in.Sizes)
	in.Colors = compactStrings(in.Colors)
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ValidateProductInput validates a seller's product payload.
func ValidateProductInput(in *models.ProductInput) error {
	fe := errors.FieldErrors{}

	switch {
	case in.Name == "":
		fe.Add("name", "this field is required")
	case utf8.RuneCountInString(in.Name) > maxProductNameLength:
		fe.Add("name", "too long")
	case Slugify(in.Name) == "":
		fe.Add("name", "name must contain a letter or digit")
	}
	if in.CategorySlug == "" {
		fe.Add("category_slug", "this field is required")
	}
	switch {
	case in.Price == nil:
		fe.Add("price_current", "this field is required")
	case *in.Price <= 0:
		fe.Add("price_current", "price must be positive")
	case *in.Price > maxProductPrice:
		fe.Add("price_current", "price is too large")
	}
	if in.InStock != nil && (*in.InStock < 0 || *in.InStock > math.MaxInt32) {
		fe.Add("in_stock", "stock must be between 0 and 2147483647")
	}

	return fe.Err()
}

// Slugify lowercases s and joins its runs of letters and digits with
// hyphens.
func Slugify(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return '-'
		}
	}, s)
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '-' }), "-")
}

// ValidateUpdateReviewRequest validates a review edit.
func ValidateUpdateReviewRequest(req *models.UpdateReviewRequest) error {
	fe := errors.FieldErrors{}

	if req.Rating < 1 || req.Rating > 5 {
		fe.Add("rating", "rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(req.Text) > maxReviewLength {
		fe.Add("text", "review text too long")
	}

	return fe.Err()
}
