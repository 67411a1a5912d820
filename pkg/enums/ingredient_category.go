package enums

import "fmt"

// IngredientCategory is the closed ingredient taxonomy.
type IngredientCategory string

const (
	IngredientCategoryFruit     IngredientCategory = "fruit"
	IngredientCategoryVegetable IngredientCategory = "vegetable"
	IngredientCategoryMeat      IngredientCategory = "meat"
	IngredientCategoryFish      IngredientCategory = "fish"
	IngredientCategoryDairy     IngredientCategory = "dairy"
	IngredientCategoryGrain     IngredientCategory = "grain"
	IngredientCategoryLegume    IngredientCategory = "legume"
	IngredientCategoryNut       IngredientCategory = "nut"
	IngredientCategoryHerb      IngredientCategory = "herb"
	IngredientCategorySpice     IngredientCategory = "spice"
	IngredientCategoryOil       IngredientCategory = "oil"
	IngredientCategoryCondiment IngredientCategory = "condiment"
	IngredientCategorySweetener IngredientCategory = "sweetener"
	IngredientCategoryBaking    IngredientCategory = "baking"
	IngredientCategoryBeverage  IngredientCategory = "beverage"
	IngredientCategoryOther     IngredientCategory = "other"
)

var validIngredientCategories = []IngredientCategory{
	IngredientCategoryFruit,
	IngredientCategoryVegetable,
	IngredientCategoryMeat,
	IngredientCategoryFish,
	IngredientCategoryDairy,
	IngredientCategoryGrain,
	IngredientCategoryLegume,
	IngredientCategoryNut,
	IngredientCategoryHerb,
	IngredientCategorySpice,
	IngredientCategoryOil,
	IngredientCategoryCondiment,
	IngredientCategorySweetener,
	IngredientCategoryBaking,
	IngredientCategoryBeverage,
	IngredientCategoryOther,
}

// String implements fmt.Stringer.
func (c IngredientCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known IngredientCategory.
func (c IngredientCategory) IsValid() bool {
	for _, candidate := range validIngredientCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseIngredientCategory converts raw input into an IngredientCategory.
func ParseIngredientCategory(value string) (IngredientCategory, error) {
	for _, candidate := range validIngredientCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ingredient category %q", value)
}

// CoerceIngredientCategory maps unknown values to the OTHER bucket.
// Persisted records written before a category existed still load this way.
func CoerceIngredientCategory(value string) IngredientCategory {
	if parsed, err := ParseIngredientCategory(value); err == nil {
		return parsed
	}
	return IngredientCategoryOther
}

// IngredientCategories returns every valid category in declaration order.
func IngredientCategories() []IngredientCategory {
	out := make([]IngredientCategory, len(validIngredientCategories))
	copy(out, validIngredientCategories)
	return out
}
