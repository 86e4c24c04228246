package models

import "time"

// Tenant is the whole-document unit of persistence: one isolated business
// instance with its admins, slot calendar, appointment ledger, coupons and
// catalog. Sub-entities have no identity outside their tenant.
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Admins       []Admin                    `json:"admins"`
	Appointments []Appointment              `json:"appointments"`
	Availability map[string]DayAvailability `json:"availability"`
	Coupons      []Coupon                   `json:"coupons"`
	Services     []Service                  `json:"services"`
	Inventory    []InventoryItem            `json:"inventory"`
}

type Admin struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// DayAvailability holds the set of still-bookable times for one date.
// Represented as an ordered slice for display, semantically a set: booking
// removes a slot, cancelling reinserts it.
type DayAvailability struct {
	Slots []string `json:"slots"`
}

type Appointment struct {
	ID   string `json:"id"`
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM

	ClientName string `json:"clientName"`
	Phone      string `json:"phone"`
	Status     string `json:"status"` // scheduled | completed

	ServiceID     string         `json:"serviceId,omitempty"`
	FinalPrice    float64        `json:"finalPrice,omitempty"`
	TotalCost     float64        `json:"totalCost,omitempty"`
	Profit        float64        `json:"profit,omitempty"`
	MaterialsUsed []MaterialUsed `json:"materialsUsed,omitempty"`

	CouponCode string  `json:"couponCode,omitempty"`
	Discount   float64 `json:"discount,omitempty"`

	Notes []string `json:"notes,omitempty"` // most-recent-first
	Image string   `json:"image,omitempty"` // opaque attachment reference

	CreatedAt time.Time `json:"createdAt"`
}

type MaterialUsed struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type Coupon struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Discount  float64    `json:"discount"`
	ClientID  string     `json:"clientId,omitempty"`
	Used      bool       `json:"used"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Service struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type InventoryItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Cost     float64 `json:"cost"`
	Quantity int     `json:"quantity"`
}
