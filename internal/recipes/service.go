package recipes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
)

// suggestionThreshold is the stricter overlap required for Suggestions,
// compared to the repository's plain ByIngredients match.
const suggestionThreshold = 0.7

// Service exposes the recipe book operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Recipe, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.Recipe, error)
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*models.Recipe, error)
	List(ctx context.Context, filter ListFilter) ([]models.Recipe, error)

	Favorite(ctx context.Context, id string) error
	Unfavorite(ctx context.Context, id string) (bool, error)
	Favorites(ctx context.Context) ([]models.Recipe, error)

	Suggestions(ctx context.Context, opts SuggestionOptions) ([]models.Recipe, error)
	ScaleRecipe(ctx context.Context, id string, servings int) (*models.Recipe, error)
	MissingIngredients(ctx context.Context, id string, servings int) ([]MissingIngredient, error)
}

// CreateInput holds the validated payload to create a recipe.
type CreateInput struct {
	Name                string
	PrepTimeMinutes     int
	CookTimeMinutes     int
	Servings            int
	Difficulty          enums.Difficulty
	Ingredients         []models.RecipeIngredient
	Instructions        []models.InstructionStep
	NutritionPerServing models.Nutrition
	DietaryTags         []string
	ImageRef            string
}

// UpdateInput holds optional mutation values for a recipe.
type UpdateInput struct {
	Name                *string
	PrepTimeMinutes     *int
	CookTimeMinutes     *int
	Servings            *int
	Difficulty          *enums.Difficulty
	Ingredients         []models.RecipeIngredient
	Instructions        []models.InstructionStep
	NutritionPerServing *models.Nutrition
	DietaryTags         []string
	ImageRef            *string
}

// ListFilter narrows List results.
type ListFilter struct {
	Difficulty  *enums.Difficulty
	MaxPrepTime *int
	Query       string
}

// SuggestionOptions tune the suggestion post-filters. AvailableIngredientIDs
// overrides the catalog lookup when set.
type SuggestionOptions struct {
	AvailableIngredientIDs []string
	DietaryTags            []string
	MaxPrepTime            *int
	Difficulty             *enums.Difficulty
}

// MissingIngredient reports a shortfall for one non-optional recipe line.
type MissingIngredient struct {
	IngredientID string  `json:"ingredient_id,omitempty"`
	Name         string  `json:"name"`
	Required     float64 `json:"required"`
	Available    float64 `json:"available"`
	Missing      float64 `json:"missing"`
	Unit         string  `json:"unit"`
}

type ingredientSource interface {
	GetAll(ctx context.Context) ([]models.Ingredient, error)
}

type service struct {
	repo        *Repository
	ingredients ingredientSource
	nowFn       func() time.Time
}

// NewService constructs the recipe service.
func NewService(repo *Repository, ingredients ingredientSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("recipe repository required")
	}
	if ingredients == nil {
		return nil, fmt.Errorf("ingredient source required")
	}
	return &service{repo: repo, ingredients: ingredients, nowFn: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Recipe, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe name is required")
	}
	if input.Servings <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "servings must be positive")
	}
	difficulty := input.Difficulty
	if !difficulty.IsValid() {
		difficulty = enums.DifficultyMedium
	}

	recipe := models.Recipe{
		Base:                models.NewBase(s.nowFn()),
		Name:                input.Name,
		PrepTimeMinutes:     input.PrepTimeMinutes,
		CookTimeMinutes:     input.CookTimeMinutes,
		Servings:            input.Servings,
		Difficulty:          difficulty,
		Ingredients:         input.Ingredients,
		Instructions:        input.Instructions,
		NutritionPerServing: input.NutritionPerServing,
		DietaryTags:         input.DietaryTags,
		ImageRef:            input.ImageRef,
	}
	if err := s.repo.Add(ctx, recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.Recipe, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		recipe.Name = *input.Name
	}
	if input.PrepTimeMinutes != nil {
		recipe.PrepTimeMinutes = *input.PrepTimeMinutes
	}
	if input.CookTimeMinutes != nil {
		recipe.CookTimeMinutes = *input.CookTimeMinutes
	}
	if input.Servings != nil {
		if *input.Servings <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "servings must be positive")
		}
		recipe.Servings = *input.Servings
	}
	if input.Difficulty != nil {
		if !input.Difficulty.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown difficulty "+input.Difficulty.String())
		}
		recipe.Difficulty = *input.Difficulty
	}
	if input.Ingredients != nil {
		recipe.Ingredients = input.Ingredients
	}
	if input.Instructions != nil {
		recipe.Instructions = input.Instructions
	}
	if input.NutritionPerServing != nil {
		recipe.NutritionPerServing = *input.NutritionPerServing
	}
	if input.DietaryTags != nil {
		recipe.DietaryTags = input.DietaryTags
	}
	if input.ImageRef != nil {
		recipe.ImageRef = *input.ImageRef
	}

	recipe.Touch(s.nowFn())
	if err := s.repo.Update(ctx, *recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id string) (*models.Recipe, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Recipe, error) {
	switch {
	case filter.Difficulty != nil:
		return s.repo.ByDifficulty(ctx, *filter.Difficulty)
	case filter.MaxPrepTime != nil:
		return s.repo.MaxPrepTime(ctx, *filter.MaxPrepTime)
	case filter.Query != "":
		return s.repo.Search(ctx, filter.Query)
	default:
		return s.repo.GetAll(ctx)
	}
}

func (s *service) Favorite(ctx context.Context, id string) error {
	return s.repo.AddFavorite(ctx, id)
}

func (s *service) Unfavorite(ctx context.Context, id string) (bool, error) {
	return s.repo.RemoveFavorite(ctx, id)
}

func (s *service) Favorites(ctx context.Context) ([]models.Recipe, error) {
	return s.repo.GetFavorites(ctx)
}

// Suggestions proposes recipes where at least 70% of the ingredient IDs are
// covered by what is on hand, then applies the optional post-filters.
func (s *service) Suggestions(ctx context.Context, opts SuggestionOptions) ([]models.Recipe, error) {
	candidates, err := s.candidateIDs(ctx, opts)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	suggested := make([]models.Recipe, 0)
	for _, recipe := range all {
		if recipe.MatchRatio(candidates) < suggestionThreshold {
			continue
		}
		if opts.MaxPrepTime != nil && recipe.PrepTimeMinutes > *opts.MaxPrepTime {
			continue
		}
		if opts.Difficulty != nil && recipe.Difficulty != *opts.Difficulty {
			continue
		}
		if len(opts.DietaryTags) > 0 && !tagsIntersect(recipe.DietaryTags, opts.DietaryTags) {
			continue
		}
		suggested = append(suggested, recipe)
	}
	return suggested, nil
}

// ScaleRecipe returns a scaled copy without persisting it. Ingredient
// quantities scale linearly; per-serving nutrition stays as is since it is
// already normalized to one serving.
func (s *service) ScaleRecipe(ctx context.Context, id string, servings int) (*models.Recipe, error) {
	if servings <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "servings must be positive")
	}
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.Servings <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "recipe has no serving count")
	}

	factor := float64(servings) / float64(recipe.Servings)
	scaled := *recipe
	scaled.Servings = servings
	scaled.Ingredients = make([]models.RecipeIngredient, len(recipe.Ingredients))
	for i, ingredient := range recipe.Ingredients {
		ingredient.Quantity *= factor
		scaled.Ingredients[i] = ingredient
	}
	return &scaled, nil
}

// MissingIngredients lists the non-optional shortfalls at the requested
// serving count. An ingredient absent from the catalog is missing in full; a
// short one is missing the deficit. servings <= 0 means the recipe's own
// count.
func (s *service) MissingIngredients(ctx context.Context, id string, servings int) ([]MissingIngredient, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.Servings <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "recipe has no serving count")
	}
	if servings <= 0 {
		servings = recipe.Servings
	}
	factor := float64(servings) / float64(recipe.Servings)

	available, err := s.ingredients.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]float64, len(available))
	byName := make(map[string]float64, len(available))
	for _, ingredient := range available {
		quantity := 0.0
		if ingredient.Quantity != nil {
			quantity = *ingredient.Quantity
		}
		byID[ingredient.ID] = quantity
		byName[strings.ToLower(ingredient.Name)] = quantity
	}

	missing := make([]MissingIngredient, 0)
	for _, line := range recipe.Ingredients {
		if line.Optional {
			continue
		}
		required := line.Quantity * factor
		onHand, found := byID[line.IngredientID]
		if !found {
			onHand, found = byName[strings.ToLower(line.Name)]
		}
		if !found {
			onHand = 0
		}
		if onHand >= required {
			continue
		}
		missing = append(missing, MissingIngredient{
			IngredientID: line.IngredientID,
			Name:         line.Name,
			Required:     required,
			Available:    onHand,
			Missing:      required - onHand,
			Unit:         line.Unit,
		})
	}
	return missing, nil
}

func (s *service) candidateIDs(ctx context.Context, opts SuggestionOptions) (map[string]struct{}, error) {
	candidates := make(map[string]struct{})
	if len(opts.AvailableIngredientIDs) > 0 {
		for _, id := range opts.AvailableIngredientIDs {
			candidates[id] = struct{}{}
		}
		return candidates, nil
	}
	available, err := s.ingredients.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, ingredient := range available {
		if ingredient.Quantity != nil && *ingredient.Quantity <= 0 {
			continue
		}
		candidates[ingredient.ID] = struct{}{}
	}
	return candidates, nil
}

func tagsIntersect(recipeTags, wanted []string) bool {
	for _, tag := range recipeTags {
		for _, want := range wanted {
			if strings.EqualFold(tag, want) {
				return true
			}
		}
	}
	return false
}
