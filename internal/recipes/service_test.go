package recipes

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
	"github.com/angelmondragon/nutritrack-backend/pkg/storage"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

type stubIngredientSource struct {
	ingredients []models.Ingredient
}

func (s *stubIngredientSource) GetAll(_ context.Context) ([]models.Ingredient, error) {
	return s.ingredients, nil
}

func newTestService(t *testing.T, now time.Time) (*service, *Repository, *stubIngredientSource) {
	t.Helper()
	store, err := storage.NewService(storage.NewMemoryAdapter(), "nutrition_app", nil)
	if err != nil {
		t.Fatalf("storage service: %v", err)
	}
	repo := NewRepository(store, nil)
	source := &stubIngredientSource{}
	svc, err := NewService(repo, source)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	impl := svc.(*service)
	impl.nowFn = func() time.Time { return now }
	return impl, repo, source
}

func mustCreate(t *testing.T, svc *service, input CreateInput) *models.Recipe {
	t.Helper()
	recipe, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create %s: %v", input.Name, err)
	}
	return recipe
}

func ingredientLine(id, name string, quantity float64) models.RecipeIngredient {
	return models.RecipeIngredient{IngredientID: id, Name: name, Quantity: quantity, Unit: "g"}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Servings: 2})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("missing name: err = %v, want validation", err)
	}
	_, err = svc.Create(ctx, CreateInput{Name: "Soup", Servings: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("zero servings: err = %v, want validation", err)
	}

	created := mustCreate(t, svc, CreateInput{Name: "Soup", Servings: 2, Difficulty: "bogus"})
	if created.Difficulty != enums.DifficultyMedium {
		t.Fatalf("difficulty = %s, want coerced medium", created.Difficulty)
	}
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	mustCreate(t, svc, CreateInput{Name: "Omelette", Servings: 1, Difficulty: enums.DifficultyEasy, PrepTimeMinutes: 5})
	mustCreate(t, svc, CreateInput{Name: "Beef Wellington", Servings: 4, Difficulty: enums.DifficultyHard, PrepTimeMinutes: 90, DietaryTags: []string{"gluten"}})

	easy, err := svc.List(ctx, ListFilter{Difficulty: difficultyPtr(enums.DifficultyEasy)})
	if err != nil {
		t.Fatalf("List by difficulty: %v", err)
	}
	if len(easy) != 1 || easy[0].Name != "Omelette" {
		t.Fatalf("easy = %+v, want only Omelette", easy)
	}

	quick, err := svc.List(ctx, ListFilter{MaxPrepTime: intPtr(30)})
	if err != nil {
		t.Fatalf("List by prep time: %v", err)
	}
	if len(quick) != 1 || quick[0].Name != "Omelette" {
		t.Fatalf("quick = %+v, want only Omelette", quick)
	}

	searched, err := svc.List(ctx, ListFilter{Query: "wellington"})
	if err != nil {
		t.Fatalf("List by query: %v", err)
	}
	if len(searched) != 1 || searched[0].Name != "Beef Wellington" {
		t.Fatalf("searched = %+v, want only Beef Wellington", searched)
	}
}

func difficultyPtr(d enums.Difficulty) *enums.Difficulty { return &d }

func TestFavoritesLifecycle(t *testing.T) {
	svc, repo, _ := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	recipe := mustCreate(t, svc, CreateInput{Name: "Pancakes", Servings: 2})

	if err := svc.Favorite(ctx, recipe.ID); err != nil {
		t.Fatalf("Favorite: %v", err)
	}
	// Marking twice is a no-op, not a conflict.
	if err := svc.Favorite(ctx, recipe.ID); err != nil {
		t.Fatalf("second Favorite: %v", err)
	}

	err := svc.Favorite(ctx, "missing")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("favorite unknown: err = %v, want not found", err)
	}

	favorites, err := svc.Favorites(ctx)
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	if len(favorites) != 1 || favorites[0].ID != recipe.ID {
		t.Fatalf("favorites = %+v, want the pancakes", favorites)
	}

	marked, err := repo.IsFavorite(ctx, recipe.ID)
	if err != nil || !marked {
		t.Fatalf("IsFavorite = %v, %v, want true", marked, err)
	}

	// Deleting the recipe clears the mark too.
	if _, err := svc.Delete(ctx, recipe.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	favorites, err = svc.Favorites(ctx)
	if err != nil {
		t.Fatalf("Favorites after delete: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("favorites after delete = %+v, want empty", favorites)
	}
}

func TestByIngredientsHalfOverlap(t *testing.T) {
	svc, repo, _ := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// Two of four ingredients on hand: exactly at the 0.5 floor.
	mustCreate(t, svc, CreateInput{Name: "Stir Fry", Servings: 2, Ingredients: []models.RecipeIngredient{
		ingredientLine("i1", "Rice", 200),
		ingredientLine("i2", "Chicken", 300),
		ingredientLine("i3", "Soy Sauce", 30),
		ingredientLine("i4", "Ginger", 10),
	}})
	// One of three: below the floor.
	mustCreate(t, svc, CreateInput{Name: "Curry", Servings: 2, Ingredients: []models.RecipeIngredient{
		ingredientLine("i1", "Rice", 200),
		ingredientLine("i5", "Coconut Milk", 400),
		ingredientLine("i6", "Curry Paste", 50),
	}})

	matched, err := repo.ByIngredients(ctx, []string{"i1", "i2"})
	if err != nil {
		t.Fatalf("ByIngredients: %v", err)
	}
	if len(matched) != 1 || matched[0].Name != "Stir Fry" {
		t.Fatalf("matched = %+v, want only Stir Fry", matched)
	}
}

func TestSuggestionsThresholdAndPostFilters(t *testing.T) {
	svc, _, source := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// Three of four covered: 0.75, above the 0.7 suggestion floor.
	mustCreate(t, svc, CreateInput{
		Name: "Stir Fry", Servings: 2, Difficulty: enums.DifficultyEasy,
		PrepTimeMinutes: 20, DietaryTags: []string{"gluten-free"},
		Ingredients: []models.RecipeIngredient{
			ingredientLine("i1", "Rice", 200),
			ingredientLine("i2", "Chicken", 300),
			ingredientLine("i3", "Soy Sauce", 30),
			ingredientLine("i4", "Ginger", 10),
		},
	})
	// One of two covered: 0.5, below the floor even though ByIngredients
	// would accept it.
	mustCreate(t, svc, CreateInput{
		Name: "Fried Rice", Servings: 2,
		Ingredients: []models.RecipeIngredient{
			ingredientLine("i1", "Rice", 200),
			ingredientLine("i7", "Egg", 2),
		},
	})

	source.ingredients = []models.Ingredient{
		{Base: models.Base{ID: "i1"}, Name: "Rice", Quantity: floatPtr(500)},
		{Base: models.Base{ID: "i2"}, Name: "Chicken", Quantity: floatPtr(400)},
		{Base: models.Base{ID: "i3"}, Name: "Soy Sauce", Quantity: floatPtr(100)},
		{Base: models.Base{ID: "i8"}, Name: "Depleted", Quantity: floatPtr(0)},
	}

	suggested, err := svc.Suggestions(ctx, SuggestionOptions{})
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(suggested) != 1 || suggested[0].Name != "Stir Fry" {
		t.Fatalf("suggested = %+v, want only Stir Fry", suggested)
	}

	none, err := svc.Suggestions(ctx, SuggestionOptions{MaxPrepTime: intPtr(10)})
	if err != nil {
		t.Fatalf("Suggestions with prep cap: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("capped = %+v, want empty", none)
	}

	none, err = svc.Suggestions(ctx, SuggestionOptions{DietaryTags: []string{"vegan"}})
	if err != nil {
		t.Fatalf("Suggestions with tags: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("tagged = %+v, want empty", none)
	}

	tagged, err := svc.Suggestions(ctx, SuggestionOptions{DietaryTags: []string{"Gluten-Free"}})
	if err != nil {
		t.Fatalf("Suggestions with matching tag: %v", err)
	}
	if len(tagged) != 1 {
		t.Fatalf("tag match = %+v, want one", tagged)
	}
}

func TestScaleRecipeLeavesNutritionAlone(t *testing.T) {
	svc, repo, _ := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	recipe := mustCreate(t, svc, CreateInput{
		Name: "Pasta", Servings: 2,
		NutritionPerServing: models.Nutrition{Calories: 450, Protein: 15},
		Ingredients: []models.RecipeIngredient{
			ingredientLine("i1", "Spaghetti", 200),
			ingredientLine("i2", "Tomato Sauce", 150),
		},
	})

	scaled, err := svc.ScaleRecipe(ctx, recipe.ID, 6)
	if err != nil {
		t.Fatalf("ScaleRecipe: %v", err)
	}
	if scaled.Servings != 6 {
		t.Fatalf("servings = %d, want 6", scaled.Servings)
	}
	if scaled.Ingredients[0].Quantity != 600 || scaled.Ingredients[1].Quantity != 450 {
		t.Fatalf("ingredients = %+v, want tripled quantities", scaled.Ingredients)
	}
	if scaled.NutritionPerServing.Calories != 450 {
		t.Fatalf("per-serving calories = %v, want unchanged 450", scaled.NutritionPerServing.Calories)
	}

	// Scaling is a read; the stored recipe keeps its quantities.
	stored, err := repo.GetByID(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Ingredients[0].Quantity != 200 {
		t.Fatalf("stored quantity = %v, want untouched 200", stored.Ingredients[0].Quantity)
	}
}

func TestMissingIngredients(t *testing.T) {
	svc, _, source := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	recipe := mustCreate(t, svc, CreateInput{
		Name: "Salad", Servings: 2,
		Ingredients: []models.RecipeIngredient{
			ingredientLine("i1", "Lettuce", 100),
			ingredientLine("i2", "Feta", 50),
			{IngredientID: "i3", Name: "Olives", Quantity: 20, Unit: "g", Optional: true},
		},
	})

	source.ingredients = []models.Ingredient{
		{Base: models.Base{ID: "i1"}, Name: "Lettuce", Quantity: floatPtr(60)},
	}

	missing, err := svc.MissingIngredients(ctx, recipe.ID, 0)
	if err != nil {
		t.Fatalf("MissingIngredients: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("missing = %+v, want lettuce deficit and feta in full", missing)
	}

	byName := make(map[string]MissingIngredient)
	for _, m := range missing {
		byName[m.Name] = m
	}
	lettuce := byName["Lettuce"]
	if lettuce.Missing != 40 || lettuce.Available != 60 {
		t.Fatalf("lettuce = %+v, want deficit 40 of 100", lettuce)
	}
	feta := byName["Feta"]
	if feta.Missing != 50 || feta.Available != 0 {
		t.Fatalf("feta = %+v, want full 50 missing", feta)
	}
	if _, ok := byName["Olives"]; ok {
		t.Fatal("optional olives must not be reported")
	}

	// Doubling the servings doubles the requirements.
	missing, err = svc.MissingIngredients(ctx, recipe.ID, 4)
	if err != nil {
		t.Fatalf("MissingIngredients scaled: %v", err)
	}
	byName = make(map[string]MissingIngredient)
	for _, m := range missing {
		byName[m.Name] = m
	}
	if byName["Lettuce"].Required != 200 || byName["Lettuce"].Missing != 140 {
		t.Fatalf("scaled lettuce = %+v, want required 200 missing 140", byName["Lettuce"])
	}
}
