package ingredients

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
)

// Service exposes ingredient catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Ingredient, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.Ingredient, error)
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*models.Ingredient, error)
	List(ctx context.Context, filter ListFilter) ([]models.Ingredient, error)
	Expiring(ctx context.Context, days int) ([]models.Ingredient, error)
	Categories(ctx context.Context) ([]enums.IngredientCategory, error)
	UpdateQuantity(ctx context.Context, id string, quantity float64) (*models.Ingredient, error)
}

// CreateInput holds the validated payload to create an ingredient.
type CreateInput struct {
	Name             string
	Category         enums.IngredientCategory
	NutritionPer100g models.Nutrition
	Quantity         *float64
	Unit             string
	ExpiryDate       *time.Time
	ImageRef         string
}

// UpdateInput holds optional mutation values for an ingredient.
type UpdateInput struct {
	Name             *string
	Category         *enums.IngredientCategory
	NutritionPer100g *models.Nutrition
	Quantity         *float64
	Unit             *string
	ExpiryDate       *time.Time
	ClearExpiry      bool
	ImageRef         *string
}

// ListFilter narrows List results.
type ListFilter struct {
	Category *enums.IngredientCategory
	Query    string
}

type service struct {
	repo  *Repository
	nowFn func() time.Time
}

// NewService constructs the ingredient service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingredient repository required")
	}
	return &service{repo: repo, nowFn: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Ingredient, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient name is required")
	}
	category := input.Category
	if !category.IsValid() {
		category = enums.IngredientCategoryOther
	}

	ingredient := models.Ingredient{
		Base:             models.NewBase(s.nowFn()),
		Name:             input.Name,
		Category:         category,
		NutritionPer100g: input.NutritionPer100g,
		Quantity:         input.Quantity,
		Unit:             input.Unit,
		ExpiryDate:       input.ExpiryDate,
		ImageRef:         input.ImageRef,
	}
	if err := s.repo.Add(ctx, ingredient); err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.Ingredient, error) {
	ingredient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		ingredient.Name = *input.Name
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown ingredient category "+input.Category.String())
		}
		ingredient.Category = *input.Category
	}
	if input.NutritionPer100g != nil {
		ingredient.NutritionPer100g = *input.NutritionPer100g
	}
	if input.Quantity != nil {
		ingredient.Quantity = input.Quantity
	}
	if input.Unit != nil {
		ingredient.Unit = *input.Unit
	}
	if input.ClearExpiry {
		ingredient.ExpiryDate = nil
	} else if input.ExpiryDate != nil {
		ingredient.ExpiryDate = input.ExpiryDate
	}
	if input.ImageRef != nil {
		ingredient.ImageRef = *input.ImageRef
	}

	ingredient.Touch(s.nowFn())
	if err := s.repo.Update(ctx, *ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id string) (*models.Ingredient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Ingredient, error) {
	if filter.Category != nil {
		return s.repo.ByCategory(ctx, *filter.Category)
	}
	if filter.Query != "" {
		return s.repo.Search(ctx, filter.Query)
	}
	return s.repo.GetAll(ctx)
}

func (s *service) Expiring(ctx context.Context, days int) ([]models.Ingredient, error) {
	if days < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry window must not be negative")
	}
	return s.repo.ExpiringWithin(ctx, s.nowFn(), days)
}

func (s *service) Categories(ctx context.Context) ([]enums.IngredientCategory, error) {
	return s.repo.Categories(ctx)
}

func (s *service) UpdateQuantity(ctx context.Context, id string, quantity float64) (*models.Ingredient, error) {
	return s.repo.UpdateQuantity(ctx, id, quantity, s.nowFn())
}
