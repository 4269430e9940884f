package domain

import (
	"encoding/json"
	"time"
)

// Item is one inventory record. Attributes is an opaque JSON document
// stored verbatim alongside the typed columns.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       float64         `json:"price"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemPatch carries a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Name        *string         `json:"name"`
	SKU         *string         `json:"sku"`
	Description *string         `json:"description"`
	Quantity    *int            `json:"quantity"`
	Price       *float64        `json:"price"`
	Attributes  json.RawMessage `json:"attributes"`
}

// SearchHit is one index match, scored by aggregate term frequency.
type SearchHit struct {
	ID    string
	Score float64
}

// ItemMatch pairs a resolved item with its search score.
type ItemMatch struct {
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
}
