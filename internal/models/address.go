package models

import "time"

// ShippingAddress belongs to a user and may be edited freely; orders keep
// their own copy.
type ShippingAddress struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Zipcode   string    `json:"zipcode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *ShippingAddress) Snapshot() ShippingSnapshot {
	return ShippingSnapshot{
		FullName: a.FullName,
		Email:    a.Email,
		Phone:    a.Phone,
		Address:  a.Address,
		City:     a.City,
		Country:  a.Country,
		Zipcode:  a.Zipcode,
	}
}

// ShippingAddressInput is the writable part of a shipping address.
type ShippingAddressInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Zipcode  string `json:"zipcode"`
}

// Apply copies the input onto a.
func (in ShippingAddressInput) Apply(a *ShippingAddress) {
	a.FullName = in.FullName
	a.Email = in.Email
	a.Phone = in.Phone
	a.Address = in.Address
	a.City = in.City
	a.Country = in.Country
	a.Zipcode = in.Zipcode
}
