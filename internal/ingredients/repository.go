package ingredients

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/nutritrack-backend/internal/repo"
	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
	"github.com/angelmondragon/nutritrack-backend/pkg/storage"
)

const collectionKey = "ingredients"

// Repository stores the ingredient catalog as one JSON collection.
type Repository struct {
	coll *repo.Collection[models.Ingredient]
}

// NewRepository binds the ingredient collection to the storage service.
func NewRepository(store *storage.Service, logg *logger.Logger) *Repository {
	coll := repo.NewCollection(store, collectionKey, logg, func(i *models.Ingredient) {
		i.Normalize()
	})
	return &Repository{coll: coll}
}

func (r *Repository) GetAll(ctx context.Context) ([]models.Ingredient, error) {
	return r.coll.GetAll(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Ingredient, error) {
	return r.coll.GetByID(ctx, id)
}

func (r *Repository) Add(ctx context.Context, ingredient models.Ingredient) error {
	return r.coll.Add(ctx, ingredient)
}

func (r *Repository) Update(ctx context.Context, ingredient models.Ingredient) error {
	return r.coll.Update(ctx, ingredient)
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

// ByCategory filters the catalog by exact category.
func (r *Repository) ByCategory(ctx context.Context, category enums.IngredientCategory) ([]models.Ingredient, error) {
	items, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Ingredient, 0)
	for _, item := range items {
		if item.Category == category {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// ExpiringWithin returns ingredients whose expiry date lies in [today,
// today+days], boundaries included. Ingredients without an expiry are skipped.
func (r *Repository) ExpiringWithin(ctx context.Context, now time.Time, days int) ([]models.Ingredient, error) {
	items, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Ingredient, 0)
	for _, item := range items {
		if item.ExpiresWithin(now, days) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Categories lists the distinct categories present, in first-seen order.
func (r *Repository) Categories(ctx context.Context) ([]enums.IngredientCategory, error) {
	items, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[enums.IngredientCategory]struct{})
	categories := make([]enums.IngredientCategory, 0)
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories, nil
}

// Search matches ingredient names case-insensitively by substring.
func (r *Repository) Search(ctx context.Context, query string) ([]models.Ingredient, error) {
	items, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return items, nil
	}
	matched := make([]models.Ingredient, 0)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// UpdateQuantity overwrites an ingredient's quantity. Unlike the inventory
// path there is deliberately no negative-quantity guard here; catalog entries
// carry quantity only informally.
func (r *Repository) UpdateQuantity(ctx context.Context, id string, quantity float64, now time.Time) (*models.Ingredient, error) {
	item, err := r.coll.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Quantity = &quantity
	item.Touch(now)
	if err := r.coll.Update(ctx, *item); err != nil {
		return nil, err
	}
	return item, nil
}
