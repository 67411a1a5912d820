package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
)

// stapleDefaultThreshold is the implicit low-stock floor for staple items
// that never got an explicit threshold.
const stapleDefaultThreshold = 1

// InventoryItem is a stocked line in the user's kitchen.
type InventoryItem struct {
	Base
	Name              string                `json:"name"`
	Quantity          float64               `json:"quantity"`
	Unit              string                `json:"unit"`
	Category          string                `json:"category"`
	Location          enums.StorageLocation `json:"location"`
	Status            enums.ItemStatus      `json:"status"`
	ExpirationDate    *time.Time            `json:"expiration_date,omitempty"`
	LowStockThreshold *float64              `json:"low_stock_threshold,omitempty"`
	PurchasePrice     *decimal.Decimal      `json:"purchase_price,omitempty"`
	PurchaseDate      *time.Time            `json:"purchase_date,omitempty"`
	IsStaple          bool                  `json:"is_staple"`
}

// Normalize coerces enum fields after deserialization.
func (i *InventoryItem) Normalize() {
	i.Location = enums.CoerceStorageLocation(string(i.Location))
	i.Status = enums.CoerceItemStatus(string(i.Status))
}

// DeriveStatus computes the stock state from quantity, expiry and threshold.
// Precedence is EXPIRED > OUT_OF_STOCK > LOW > AVAILABLE; an expired item
// stays expired even at zero quantity. This is the single status policy used
// by every caller.
func (i InventoryItem) DeriveStatus(now time.Time) enums.ItemStatus {
	if i.ExpirationDate != nil && i.ExpirationDate.Before(now) {
		return enums.ItemStatusExpired
	}
	if i.Quantity <= 0 {
		return enums.ItemStatusOutOfStock
	}
	if threshold, ok := i.EffectiveThreshold(); ok && i.Quantity <= threshold {
		return enums.ItemStatusLow
	}
	return enums.ItemStatusAvailable
}

// EffectiveThreshold returns the low-stock floor. Staples fall back to a
// default of one unit when no explicit threshold is set.
func (i InventoryItem) EffectiveThreshold() (float64, bool) {
	if i.LowStockThreshold != nil {
		return *i.LowStockThreshold, true
	}
	if i.IsStaple {
		return stapleDefaultThreshold, true
	}
	return 0, false
}

// IsExpired reports whether the expiration date has passed.
func (i InventoryItem) IsExpired(now time.Time) bool {
	return i.ExpirationDate != nil && i.ExpirationDate.Before(now)
}

// ExpiresWithin reports whether the expiration date lies in [today,
// today+days], boundaries included. Items without a date never match.
func (i InventoryItem) ExpiresWithin(now time.Time, days int) bool {
	if i.ExpirationDate == nil {
		return false
	}
	return expiresWithin(*i.ExpirationDate, now, days)
}

// PurchaseValue is price × quantity, zero when no price was recorded.
func (i InventoryItem) PurchaseValue() decimal.Decimal {
	if i.PurchasePrice == nil {
		return decimal.Zero
	}
	return i.PurchasePrice.Mul(decimal.NewFromFloat(i.Quantity))
}

// ChangeLogEntry is an append-only record of an inventory state transition.
// Entries are never updated once written.
type ChangeLogEntry struct {
	ID             string           `json:"id"`
	ItemID         string           `json:"item_id"`
	ItemName       string           `json:"item_name"`
	Type           enums.ChangeType `json:"type"`
	QuantityBefore float64          `json:"quantity_before"`
	QuantityAfter  float64          `json:"quantity_after"`
	Reason         string           `json:"reason,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// GetID satisfies the repository entity contract.
func (e ChangeLogEntry) GetID() string {
	return e.ID
}

// Alert is a derived inventory warning. Alerts are recomputed fresh and only
// ever appended or marked read.
type Alert struct {
	ID        string              `json:"id"`
	ItemID    string              `json:"item_id"`
	ItemName  string              `json:"item_name"`
	Type      enums.AlertType     `json:"type"`
	Severity  enums.AlertSeverity `json:"severity"`
	Message   string              `json:"message"`
	IsRead    bool                `json:"is_read"`
	CreatedAt time.Time           `json:"created_at"`
}

// GetID satisfies the repository entity contract.
func (a Alert) GetID() string {
	return a.ID
}

// Shopping list priorities; lower sorts first.
const (
	ShoppingPriorityUrgent = 1
	ShoppingPriorityNormal = 2
	ShoppingPriorityLater  = 3
)

// ShoppingListItem is a line on the derived or hand-maintained shopping list.
type ShoppingListItem struct {
	Base
	Name            string  `json:"name"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit"`
	Category        string  `json:"category"`
	Priority        int     `json:"priority"`
	IsPurchased     bool    `json:"is_purchased"`
	InventoryItemID string  `json:"inventory_item_id,omitempty"`
}
