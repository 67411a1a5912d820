package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
	"github.com/angelmondragon/nutritrack-backend/pkg/storage"
)

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

type stubRecipeLoader struct {
	recipes map[string]models.Recipe
}

func (s *stubRecipeLoader) GetByID(_ context.Context, id string) (*models.Recipe, error) {
	recipe, ok := s.recipes[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipe "+id+" not found")
	}
	return &recipe, nil
}

func newTestService(t *testing.T, now time.Time) (*service, *Repository, *stubRecipeLoader) {
	t.Helper()
	store, err := storage.NewService(storage.NewMemoryAdapter(), "nutrition_app", nil)
	if err != nil {
		t.Fatalf("storage service: %v", err)
	}
	repo := NewRepository(store, nil)
	recipes := &stubRecipeLoader{recipes: map[string]models.Recipe{}}
	cfg := config.InventoryConfig{
		ExpiringSoonDays:  3,
		ExpiringWeekDays:  7,
		DefaultLogLimit:   50,
		ChangeLogMaxItems: 1000,
	}
	svc, err := NewService(repo, recipes, cfg, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	impl := svc.(*service)
	impl.nowFn = func() time.Time { return now }
	return impl, repo, recipes
}

func TestCreateDerivesStatusAndLogs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(t, now)

	created, err := svc.Create(ctx, CreateInput{
		Name:              "Milk",
		Quantity:          1,
		Unit:              "l",
		Category:          "Dairy",
		Location:          enums.StorageLocationRefrigerator,
		LowStockThreshold: floatPtr(2),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Status != enums.ItemStatusLow {
		t.Fatalf("status = %s, want %s", created.Status, enums.ItemStatusLow)
	}

	logs, err := svc.ChangeLog(ctx, 0)
	if err != nil {
		t.Fatalf("ChangeLog: %v", err)
	}
	if len(logs) != 1 || logs[0].Type != enums.ChangeTypeAdded {
		t.Fatalf("logs = %+v, want single added entry", logs)
	}
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.Create(ctx, CreateInput{Name: "Milk", Quantity: -1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestUpdateQuantityRejectsNegative(t *testing.T) {
	// The ingredient catalog accepts negative quantities; inventory does not.
	ctx := context.Background()
	svc, _, _ := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	created, err := svc.Create(ctx, CreateInput{Name: "Milk", Quantity: 2})
	if err != nil {
		t.Fatalf("create milk: %v", err)
	}

	_, err = svc.UpdateQuantity(ctx, created.ID, -1, "spill")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}

	after, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.Quantity != 2 {
		t.Fatalf("quantity = %v, want unchanged 2", after.Quantity)
	}
}

func TestRefreshItemStatusesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(t, createdAt)

	item, err := svc.Create(ctx, CreateInput{
		Name:           "Yogurt",
		Quantity:       3,
		Unit:           "cups",
		Location:       enums.StorageLocationRefrigerator,
		ExpirationDate: timePtr(createdAt.AddDate(0, 0, 2)),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Status != enums.ItemStatusAvailable {
		t.Fatalf("initial status = %s, want available", item.Status)
	}

	// Three days later the expiry has passed.
	svc.nowFn = func() time.Time { return createdAt.AddDate(0, 0, 3) }

	changed, err := svc.RefreshItemStatuses(ctx)
	if err != nil {
		t.Fatalf("RefreshItemStatuses: %v", err)
	}
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}
	stored, err := repo.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != enums.ItemStatusExpired {
		t.Fatalf("status = %s, want expired", stored.Status)
	}

	changed, err = svc.RefreshItemStatuses(ctx)
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if changed != 0 {
		t.Fatalf("second refresh changed = %d, want 0", changed)
	}
}

func TestGenerateShoppingListPriorities(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(t, now)

	if _, err := svc.Create(ctx, CreateInput{Name: "Eggs", Quantity: 0, Unit: "pieces"}); err != nil {
		t.Fatalf("create eggs: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{
		Name:              "Flour",
		Quantity:          1,
		Unit:              "kg",
		LowStockThreshold: floatPtr(2),
	}); err != nil {
		t.Fatalf("create flour: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Rice", Quantity: 10, Unit: "kg"}); err != nil {
		t.Fatalf("create rice: %v", err)
	}

	generated, err := svc.GenerateShoppingList(ctx, true, true)
	if err != nil {
		t.Fatalf("GenerateShoppingList: %v", err)
	}
	if len(generated) != 2 {
		t.Fatalf("generated %d lines, want 2", len(generated))
	}

	byName := make(map[string]models.ShoppingListItem)
	for _, line := range generated {
		byName[line.Name] = line
	}
	eggs, ok := byName["Eggs"]
	if !ok || eggs.Priority != models.ShoppingPriorityUrgent || eggs.Quantity != 1 {
		t.Fatalf("eggs line = %+v, want priority 1 quantity 1", eggs)
	}
	flour, ok := byName["Flour"]
	if !ok || flour.Priority != models.ShoppingPriorityNormal || flour.Quantity != 2 {
		t.Fatalf("flour line = %+v, want priority 2 quantity 2", flour)
	}

	listed, err := svc.ShoppingList(ctx)
	if err != nil {
		t.Fatalf("ShoppingList: %v", err)
	}
	if len(listed) != 2 || listed[0].Priority > listed[1].Priority {
		t.Fatalf("list = %+v, want priority-sorted pair", listed)
	}
}

func TestGenerateShoppingListFilters(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(t, now)

	if _, err := svc.Create(ctx, CreateInput{Name: "Eggs", Quantity: 0}); err != nil {
		t.Fatalf("create eggs: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Flour", Quantity: 1, LowStockThreshold: floatPtr(2)}); err != nil {
		t.Fatalf("create flour: %v", err)
	}

	onlyLow, err := svc.GenerateShoppingList(ctx, false, true)
	if err != nil {
		t.Fatalf("GenerateShoppingList: %v", err)
	}
	if len(onlyLow) != 1 || onlyLow[0].Name != "Flour" {
		t.Fatalf("lines = %+v, want only Flour", onlyLow)
	}
}

func TestUseItemsForRecipeScalesAndSkips(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo, recipes := newTestService(t, now)

	pasta, err := svc.Create(ctx, CreateInput{Name: "Pasta", Quantity: 500, Unit: "g"})
	if err != nil {
		t.Fatalf("create pasta: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Parmesan", Quantity: 10, Unit: "g"}); err != nil {
		t.Fatalf("create parmesan: %v", err)
	}

	recipes.recipes["r1"] = models.Recipe{
		Base:     models.Base{ID: "r1"},
		Name:     "Cacio e Pepe",
		Servings: 2,
		Ingredients: []models.RecipeIngredient{
			{Name: "Pasta", Quantity: 200, Unit: "g"},
			{Name: "Parmesan", Quantity: 50, Unit: "g"},
		},
	}

	// Four servings doubles the per-recipe quantities.
	svc.nowFn = func() time.Time { return now.Add(time.Minute) }
	result, err := svc.UseItemsForRecipe(ctx, "r1", 4)
	if err != nil {
		t.Fatalf("UseItemsForRecipe: %v", err)
	}
	if len(result.UsedItems) != 1 || result.UsedItems[0] != "Pasta" {
		t.Fatalf("used = %v, want [Pasta]", result.UsedItems)
	}
	if len(result.SkippedItems) != 1 || result.SkippedItems[0] != "Parmesan" {
		t.Fatalf("skipped = %v, want [Parmesan]", result.SkippedItems)
	}

	stored, err := repo.GetByID(ctx, pasta.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Quantity != 100 {
		t.Fatalf("pasta quantity = %v, want 100", stored.Quantity)
	}

	logs, err := svc.ChangeLog(ctx, 0)
	if err != nil {
		t.Fatalf("ChangeLog: %v", err)
	}
	if logs[0].Type != enums.ChangeTypeConsumed {
		t.Fatalf("newest log = %+v, want consumed entry", logs[0])
	}
}

func TestUseItemsForRecipeUnknownRecipe(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.UseItemsForRecipe(ctx, "missing", 2)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGenerateAlertsOnePerCondition(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(t, now)

	// Expired and out of stock at once: two alerts for the same item.
	if _, err := svc.Create(ctx, CreateInput{
		Name:           "Cream",
		Quantity:       0,
		ExpirationDate: timePtr(now.AddDate(0, 0, -1)),
	}); err != nil {
		t.Fatalf("create cream: %v", err)
	}
	// Expires in two days: inside both the soon and the week window.
	if _, err := svc.Create(ctx, CreateInput{
		Name:           "Spinach",
		Quantity:       1,
		ExpirationDate: timePtr(now.AddDate(0, 0, 2)),
	}); err != nil {
		t.Fatalf("create spinach: %v", err)
	}

	batch, err := svc.GenerateAlerts(ctx)
	if err != nil {
		t.Fatalf("GenerateAlerts: %v", err)
	}

	types := make(map[enums.AlertType]int)
	for _, alert := range batch {
		types[alert.Type]++
	}
	want := map[enums.AlertType]int{
		enums.AlertTypeExpired:          1,
		enums.AlertTypeOutOfStock:       1,
		enums.AlertTypeExpiringSoon:     1,
		enums.AlertTypeExpiringThisWeek: 1,
	}
	for alertType, count := range want {
		if types[alertType] != count {
			t.Fatalf("alert counts = %v, want %v", types, want)
		}
	}

	unread, err := svc.Alerts(ctx, true)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(unread) != len(batch) {
		t.Fatalf("unread = %d, want %d", len(unread), len(batch))
	}
	if err := svc.MarkAlertRead(ctx, batch[0].ID); err != nil {
		t.Fatalf("MarkAlertRead: %v", err)
	}
	unread, err = svc.Alerts(ctx, true)
	if err != nil {
		t.Fatalf("Alerts after read: %v", err)
	}
	if len(unread) != len(batch)-1 {
		t.Fatalf("unread after read = %d, want %d", len(unread), len(batch)-1)
	}
}

func TestStatsTalliesInventory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(t, now)

	price := decimal.NewFromFloat(2.50)
	if _, err := svc.Create(ctx, CreateInput{
		Name:          "Butter",
		Quantity:      2,
		Category:      "Dairy",
		PurchasePrice: &price,
	}); err != nil {
		t.Fatalf("create butter: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Cheese", Quantity: 1, Category: "Dairy"}); err != nil {
		t.Fatalf("create cheese: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Bread", Quantity: 0, Category: "Bakery"}); err != nil {
		t.Fatalf("create bread: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{
		Name:           "Ham",
		Quantity:       1,
		Category:       "Bakery",
		ExpirationDate: timePtr(now.AddDate(0, 0, -1)),
	}); err != nil {
		t.Fatalf("create ham: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalItems != 4 {
		t.Fatalf("total = %d, want 4", stats.TotalItems)
	}
	if stats.Expired != 1 || stats.OutOfStock != 1 {
		t.Fatalf("expired = %d out = %d, want 1 and 1", stats.Expired, stats.OutOfStock)
	}
	// Price 2.50 times quantity 2.
	if !stats.TotalValue.Equal(decimal.NewFromFloat(5.0)) {
		t.Fatalf("total value = %s, want 5", stats.TotalValue)
	}
	// Dairy and Bakery tie at two items each; Dairy was seen first.
	if stats.TopCategory != "Dairy" {
		t.Fatalf("top category = %s, want Dairy", stats.TopCategory)
	}
}

func TestShoppingItemLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(t, now)

	added, err := svc.AddShoppingItem(ctx, ShoppingItemInput{Name: "Olive oil"})
	if err != nil {
		t.Fatalf("AddShoppingItem: %v", err)
	}
	if added.Quantity != 1 || added.Priority != models.ShoppingPriorityNormal {
		t.Fatalf("defaults = %+v, want quantity 1 priority 2", added)
	}

	toggled, err := svc.TogglePurchased(ctx, added.ID)
	if err != nil {
		t.Fatalf("TogglePurchased: %v", err)
	}
	if !toggled.IsPurchased {
		t.Fatal("expected purchased after toggle")
	}

	removed, err := svc.RemovePurchased(ctx)
	if err != nil {
		t.Fatalf("RemovePurchased: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	remaining, err := svc.ShoppingList(ctx)
	if err != nil {
		t.Fatalf("ShoppingList: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("remaining = %+v, want empty", remaining)
	}
}

func TestTrimChangeLogKeepsNewest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(t, now)
	svc.cfg.ChangeLogMaxItems = 3

	item, err := svc.Create(ctx, CreateInput{Name: "Salt", Quantity: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 5; i++ {
		tick := now.Add(time.Duration(i+1) * time.Minute)
		svc.nowFn = func() time.Time { return tick }
		if _, err := svc.UpdateQuantity(ctx, item.ID, float64(i+2), "restock"); err != nil {
			t.Fatalf("UpdateQuantity: %v", err)
		}
	}

	trimmed, err := svc.TrimChangeLog(ctx)
	if err != nil {
		t.Fatalf("TrimChangeLog: %v", err)
	}
	// Six entries total (one added, five updates) trimmed down to three.
	if trimmed != 3 {
		t.Fatalf("trimmed = %d, want 3", trimmed)
	}
	logs, err := svc.ChangeLog(ctx, 0)
	if err != nil {
		t.Fatalf("ChangeLog: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("remaining logs = %d, want 3", len(logs))
	}
	if logs[0].QuantityAfter != 6 {
		t.Fatalf("newest log after = %v, want 6", logs[0].QuantityAfter)
	}
}
