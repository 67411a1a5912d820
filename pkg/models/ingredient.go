package models

import (
	"time"

	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
)

// Nutrition holds macro and optional micro values. Interpretation (per 100g or
// per serving) depends on the embedding entity.
type Nutrition struct {
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Fiber        *float64 `json:"fiber,omitempty"`
	Sugar        *float64 `json:"sugar,omitempty"`
	SaturatedFat *float64 `json:"saturated_fat,omitempty"`
	Sodium       *float64 `json:"sodium,omitempty"`
	Cholesterol  *float64 `json:"cholesterol,omitempty"`
}

// Ingredient is a catalog entry; quantity/unit/expiry are only populated when
// the record doubles as an inventory line.
type Ingredient struct {
	Base
	Name             string                   `json:"name"`
	Category         enums.IngredientCategory `json:"category"`
	NutritionPer100g Nutrition                `json:"nutrition_per_100g"`
	Quantity         *float64                 `json:"quantity,omitempty"`
	Unit             string                   `json:"unit,omitempty"`
	ExpiryDate       *time.Time               `json:"expiry_date,omitempty"`
	ImageRef         string                   `json:"image_ref,omitempty"`
}

// Normalize coerces enum fields after deserialization. Unknown categories
// collapse to OTHER rather than failing the load.
func (i *Ingredient) Normalize() {
	i.Category = enums.CoerceIngredientCategory(string(i.Category))
}

// ExpiresWithin reports whether the expiry date lies in [now, now+days],
// boundaries included. Records without an expiry never match.
func (i Ingredient) ExpiresWithin(now time.Time, days int) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return expiresWithin(*i.ExpiryDate, now, days)
}

// expiresWithin works at day granularity: the window spans from the start of
// today through the end of today+days, boundaries included.
func expiresWithin(expiry, now time.Time, days int) bool {
	start := startOfDay(now)
	end := startOfDay(now).AddDate(0, 0, days+1)
	return !expiry.Before(start) && expiry.Before(end)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
