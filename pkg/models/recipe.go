package models

import (
	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
)

// RecipeIngredient links a recipe line to a catalog ingredient by plain ID.
// No referential integrity is enforced; dangling IDs resolve to nothing.
type RecipeIngredient struct {
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Optional     bool    `json:"optional,omitempty"`
}

// InstructionStep is one ordered step of a recipe.
type InstructionStep struct {
	Order           int    `json:"order"`
	Text            string `json:"text"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// Recipe describes a dish. Nutrition is defined per serving and is not
// recomputed when ingredient quantities are scaled.
type Recipe struct {
	Base
	Name                string             `json:"name"`
	PrepTimeMinutes     int                `json:"prep_time_minutes"`
	CookTimeMinutes     int                `json:"cook_time_minutes"`
	Servings            int                `json:"servings"`
	Difficulty          enums.Difficulty   `json:"difficulty"`
	Ingredients         []RecipeIngredient `json:"ingredients"`
	Instructions        []InstructionStep  `json:"instructions"`
	NutritionPerServing Nutrition          `json:"nutrition_per_serving"`
	DietaryTags         []string           `json:"dietary_tags,omitempty"`
	ImageRef            string             `json:"image_ref,omitempty"`
}

// Normalize coerces enum fields after deserialization.
func (r *Recipe) Normalize() {
	r.Difficulty = enums.CoerceDifficulty(string(r.Difficulty))
}

// IngredientIDs returns the referenced catalog IDs in recipe order.
func (r Recipe) IngredientIDs() []string {
	ids := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ids = append(ids, ing.IngredientID)
	}
	return ids
}

// MatchRatio is the fraction of this recipe's ingredients present in the
// candidate set. Binary ID membership only; quantity and optionality are
// ignored. Recipes without ingredients never match.
func (r Recipe) MatchRatio(candidateIDs map[string]struct{}) float64 {
	if len(r.Ingredients) == 0 {
		return 0
	}
	matched := 0
	for _, ing := range r.Ingredients {
		if _, ok := candidateIDs[ing.IngredientID]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(r.Ingredients))
}
