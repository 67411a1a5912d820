package recipes

import (
	"context"
	"strings"

	"github.com/angelmondragon/nutritrack-backend/internal/repo"
	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
	"github.com/angelmondragon/nutritrack-backend/pkg/storage"
)

const (
	recipesKey   = "recipes"
	favoritesKey = "favorite_recipes"
)

// matchThreshold is the minimum ingredient overlap for ByIngredients.
const matchThreshold = 0.5

// favoriteRecord marks one recipe as a favorite. Favorites live in their own
// collection so toggling one never rewrites the recipe documents.
type favoriteRecord struct {
	RecipeID string `json:"recipe_id"`
}

func (f favoriteRecord) GetID() string {
	return f.RecipeID
}

// Repository stores the recipe book plus the favorites side-table.
type Repository struct {
	recipes   *repo.Collection[models.Recipe]
	favorites *repo.Collection[favoriteRecord]
}

// NewRepository binds the recipe collections to the storage service.
func NewRepository(store *storage.Service, logg *logger.Logger) *Repository {
	return &Repository{
		recipes: repo.NewCollection(store, recipesKey, logg, func(r *models.Recipe) {
			r.Normalize()
		}),
		favorites: repo.NewCollection[favoriteRecord](store, favoritesKey, logg, nil),
	}
}

func (r *Repository) GetAll(ctx context.Context) ([]models.Recipe, error) {
	return r.recipes.GetAll(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	return r.recipes.GetByID(ctx, id)
}

func (r *Repository) Add(ctx context.Context, recipe models.Recipe) error {
	return r.recipes.Add(ctx, recipe)
}

func (r *Repository) Update(ctx context.Context, recipe models.Recipe) error {
	return r.recipes.Update(ctx, recipe)
}

// Delete removes a recipe and, when present, its favorite mark.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	found, err := r.recipes.Delete(ctx, id)
	if err != nil || !found {
		return found, err
	}
	if _, err := r.favorites.Delete(ctx, id); err != nil {
		return true, err
	}
	return true, nil
}

// ByDifficulty filters the book by exact difficulty.
func (r *Repository) ByDifficulty(ctx context.Context, difficulty enums.Difficulty) ([]models.Recipe, error) {
	return r.filter(ctx, func(recipe models.Recipe) bool {
		return recipe.Difficulty == difficulty
	})
}

// MaxPrepTime keeps recipes whose prep time does not exceed minutes.
func (r *Repository) MaxPrepTime(ctx context.Context, minutes int) ([]models.Recipe, error) {
	return r.filter(ctx, func(recipe models.Recipe) bool {
		return recipe.PrepTimeMinutes <= minutes
	})
}

// Search matches recipe names and dietary tags case-insensitively by
// substring.
func (r *Repository) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return r.recipes.GetAll(ctx)
	}
	return r.filter(ctx, func(recipe models.Recipe) bool {
		if strings.Contains(strings.ToLower(recipe.Name), needle) {
			return true
		}
		for _, tag := range recipe.DietaryTags {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
		return false
	})
}

// ByIngredients returns recipes where at least half the recipe's ingredient
// IDs appear among the candidates. Membership is binary; quantities are not
// compared here.
func (r *Repository) ByIngredients(ctx context.Context, candidateIDs []string) ([]models.Recipe, error) {
	candidates := make(map[string]struct{}, len(candidateIDs))
	for _, id := range candidateIDs {
		candidates[id] = struct{}{}
	}
	return r.filter(ctx, func(recipe models.Recipe) bool {
		return recipe.MatchRatio(candidates) >= matchThreshold
	})
}

// AddFavorite marks an existing recipe as favorite. Marking twice is a no-op.
func (r *Repository) AddFavorite(ctx context.Context, recipeID string) error {
	if _, err := r.recipes.GetByID(ctx, recipeID); err != nil {
		return err
	}
	err := r.favorites.Add(ctx, favoriteRecord{RecipeID: recipeID})
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
		return nil
	}
	return err
}

// RemoveFavorite clears the favorite mark, reporting whether it was set.
func (r *Repository) RemoveFavorite(ctx context.Context, recipeID string) (bool, error) {
	return r.favorites.Delete(ctx, recipeID)
}

// IsFavorite reports whether the recipe is marked.
func (r *Repository) IsFavorite(ctx context.Context, recipeID string) (bool, error) {
	records, err := r.favorites.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, record := range records {
		if record.RecipeID == recipeID {
			return true, nil
		}
	}
	return false, nil
}

// GetFavorites joins the favorites side-table against the recipe book.
// Dangling marks left by out-of-band deletions are skipped.
func (r *Repository) GetFavorites(ctx context.Context) ([]models.Recipe, error) {
	records, err := r.favorites.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	favorites := make([]models.Recipe, 0, len(records))
	for _, record := range records {
		recipe, err := r.recipes.GetByID(ctx, record.RecipeID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				continue
			}
			return nil, err
		}
		favorites = append(favorites, *recipe)
	}
	return favorites, nil
}

func (r *Repository) filter(ctx context.Context, keep func(models.Recipe) bool) ([]models.Recipe, error) {
	all, err := r.recipes.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Recipe, 0)
	for _, recipe := range all {
		if keep(recipe) {
			matched = append(matched, recipe)
		}
	}
	return matched, nil
}
