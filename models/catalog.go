package models

import "time"

type Hero struct {
	ID        int       `json:"id" db:"id"`
	HeroName  string    `json:"hero_name" db:"hero_name"`
	HeroImg   *string   `json:"hero_img,omitempty" db:"hero_img"`
	HeroRole  string    `json:"hero_role" db:"hero_role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Item struct {
	ID        int       `json:"id" db:"id"`
	ItemName  string    `json:"item_name" db:"item_name"`
	ItemImg   *string   `json:"item_img,omitempty" db:"item_img"`
	Price     int       `json:"price" db:"price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PriceRange is one of the item shop price buckets.
type PriceRange string

const (
	PriceAll     PriceRange = "all"
	PriceUpTo1k  PriceRange = "0-1000"
	Price1kTo3k  PriceRange = "1000-3000"
	Price3kTo5k  PriceRange = "3000-5000"
	PriceAbove5k PriceRange = "5000+"
)

// Bounds returns the inclusive lower and exclusive upper price of the range.
// max is nil for open-ended ranges. ok is false for unknown ranges.
func (p PriceRange) Bounds() (min int, max *int, ok bool) {
	upper := func(v int) *int { return &v }
	switch p {
	case PriceAll, "":
		return 0, nil, true
	case PriceUpTo1k:
		return 0, upper(1000), true
	case Price1kTo3k:
		return 1000, upper(3000), true
	case Price3kTo5k:
		return 3000, upper(5000), true
	case PriceAbove5k:
		return 5000, nil, true
	}
	return 0, nil, false
}
