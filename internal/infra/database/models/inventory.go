package models

import (
	"time"
)

type Item struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	Name        string    `json:"name" gorm:"type:text;not null;index"`
	// SKU is nullable so items created without one never collide on the
	// unique index.
	SKU         *string   `json:"sku" gorm:"type:text;index:item_sku,unique"`
	Description string    `json:"description" gorm:"type:text"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0"`
	Price       float64   `json:"price" gorm:"not null;default:0"`
	Attributes  string    `json:"attributes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:timestamp with time zone;not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"type:timestamp with time zone;not null"`
}
