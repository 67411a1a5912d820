package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
)

// Service exposes the inventory business rules.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.InventoryItem, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.InventoryItem, error)
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*models.InventoryItem, error)
	List(ctx context.Context, filter ListFilter) ([]models.InventoryItem, error)
	Expiring(ctx context.Context, days int) ([]models.InventoryItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity float64, reason string) (*models.InventoryItem, error)

	Stats(ctx context.Context) (*Stats, error)
	RefreshItemStatuses(ctx context.Context) (int, error)
	GenerateShoppingList(ctx context.Context, includeOutOfStock, includeLowStock bool) ([]models.ShoppingListItem, error)
	UseItemsForRecipe(ctx context.Context, recipeID string, servings int) (*UseRecipeResult, error)
	GenerateAlerts(ctx context.Context) ([]models.Alert, error)
	Alerts(ctx context.Context, unreadOnly bool) ([]models.Alert, error)
	MarkAlertRead(ctx context.Context, id string) error
	ChangeLog(ctx context.Context, limit int) ([]models.ChangeLogEntry, error)
	TrimChangeLog(ctx context.Context) (int, error)

	ShoppingList(ctx context.Context) ([]models.ShoppingListItem, error)
	AddShoppingItem(ctx context.Context, input ShoppingItemInput) (*models.ShoppingListItem, error)
	TogglePurchased(ctx context.Context, id string) (*models.ShoppingListItem, error)
	DeleteShoppingItem(ctx context.Context, id string) (bool, error)
	RemovePurchased(ctx context.Context) (int, error)
}

// CreateInput holds the validated payload to create an inventory item.
type CreateInput struct {
	Name              string
	Quantity          float64
	Unit              string
	Category          string
	Location          enums.StorageLocation
	ExpirationDate    *time.Time
	LowStockThreshold *float64
	PurchasePrice     *decimal.Decimal
	PurchaseDate      *time.Time
	IsStaple          bool
}

// UpdateInput holds optional mutation values for an inventory item.
type UpdateInput struct {
	Name              *string
	Unit              *string
	Category          *string
	Location          *enums.StorageLocation
	ExpirationDate    *time.Time
	ClearExpiration   bool
	LowStockThreshold *float64
	PurchasePrice     *decimal.Decimal
	PurchaseDate      *time.Time
	IsStaple          *bool
}

// ListFilter narrows List results.
type ListFilter struct {
	Location *enums.StorageLocation
	Status   *enums.ItemStatus
	Category string
}

// ShoppingItemInput holds a hand-added shopping list line.
type ShoppingItemInput struct {
	Name            string
	Quantity        float64
	Unit            string
	Category        string
	Priority        int
	InventoryItemID string
}

// Stats is the single-pass inventory summary.
type Stats struct {
	TotalItems   int             `json:"total_items"`
	ExpiringSoon int             `json:"expiring_soon"`
	Expired      int             `json:"expired"`
	LowStock     int             `json:"low_stock"`
	OutOfStock   int             `json:"out_of_stock"`
	TotalValue   decimal.Decimal `json:"total_value"`
	TopCategory  string          `json:"top_category,omitempty"`
}

// UseRecipeResult summarizes a recipe consumption pass.
type UseRecipeResult struct {
	RecipeID        string   `json:"recipe_id"`
	Servings        int      `json:"servings"`
	UsedItems       []string `json:"used_items"`
	SkippedItems    []string `json:"skipped_items"`
	StatusesChanged int      `json:"statuses_changed"`
}

type recipeLoader interface {
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
}

type service struct {
	repo    *Repository
	recipes recipeLoader
	cfg     config.InventoryConfig
	logg    *logger.Logger
	nowFn   func() time.Time
}

// NewService constructs the inventory service.
func NewService(repo *Repository, recipes recipeLoader, cfg config.InventoryConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if recipes == nil {
		return nil, fmt.Errorf("recipe loader required")
	}
	return &service{repo: repo, recipes: recipes, cfg: cfg, logg: logg, nowFn: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.InventoryItem, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	location := input.Location
	if !location.IsValid() {
		location = enums.StorageLocationOther
	}

	now := s.nowFn()
	item := models.InventoryItem{
		Base:              models.NewBase(now),
		Name:              input.Name,
		Quantity:          input.Quantity,
		Unit:              input.Unit,
		Category:          input.Category,
		Location:          location,
		ExpirationDate:    input.ExpirationDate,
		LowStockThreshold: input.LowStockThreshold,
		PurchasePrice:     input.PurchasePrice,
		PurchaseDate:      input.PurchaseDate,
		IsStaple:          input.IsStaple,
	}
	item.Status = item.DeriveStatus(now)

	if err := s.repo.Add(ctx, item); err != nil {
		return nil, err
	}
	s.appendLog(ctx, item, enums.ChangeTypeAdded, 0, item.Quantity, "item added")
	return &item, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.InventoryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Location != nil {
		if !input.Location.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown storage location "+input.Location.String())
		}
		item.Location = *input.Location
	}
	if input.ClearExpiration {
		item.ExpirationDate = nil
	} else if input.ExpirationDate != nil {
		item.ExpirationDate = input.ExpirationDate
	}
	if input.LowStockThreshold != nil {
		item.LowStockThreshold = input.LowStockThreshold
	}
	if input.PurchasePrice != nil {
		item.PurchasePrice = input.PurchasePrice
	}
	if input.PurchaseDate != nil {
		item.PurchaseDate = input.PurchaseDate
	}
	if input.IsStaple != nil {
		item.IsStaple = *input.IsStaple
	}

	now := s.nowFn()
	item.Status = item.DeriveStatus(now)
	item.Touch(now)
	if err := s.repo.Update(ctx, *item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil || !found {
		return found, err
	}
	s.appendLog(ctx, *item, enums.ChangeTypeRemoved, item.Quantity, 0, "item removed")
	return true, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.InventoryItem, error) {
	switch {
	case filter.Location != nil:
		return s.repo.ByLocation(ctx, *filter.Location)
	case filter.Status != nil:
		return s.repo.ByStatus(ctx, *filter.Status)
	case filter.Category != "":
		return s.repo.ByCategory(ctx, filter.Category)
	default:
		return s.repo.GetAll(ctx)
	}
}

func (s *service) Expiring(ctx context.Context, days int) ([]models.InventoryItem, error) {
	if days < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry window must not be negative")
	}
	return s.repo.ExpiringWithin(ctx, s.nowFn(), days)
}

func (s *service) UpdateQuantity(ctx context.Context, id string, quantity float64, reason string) (*models.InventoryItem, error) {
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.UpdateQuantity(ctx, id, quantity, s.nowFn())
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "quantity updated"
	}
	s.appendLog(ctx, *item, enums.ChangeTypeQuantityUpdated, before.Quantity, item.Quantity, reason)
	return item, nil
}

// Stats tallies the whole inventory in a single pass. Category ties break by
// first-seen order.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	stats := &Stats{TotalItems: len(items), TotalValue: decimal.Zero}

	counts := make(map[string]int)
	var topCategory string
	var topCount int

	for _, item := range items {
		switch item.DeriveStatus(now) {
		case enums.ItemStatusExpired:
			stats.Expired++
		case enums.ItemStatusOutOfStock:
			stats.OutOfStock++
		case enums.ItemStatusLow:
			stats.LowStock++
		}
		if !item.IsExpired(now) && item.ExpiresWithin(now, s.cfg.ExpiringWeekDays) {
			stats.ExpiringSoon++
		}
		stats.TotalValue = stats.TotalValue.Add(item.PurchaseValue())

		if item.Category != "" {
			counts[item.Category]++
			if counts[item.Category] > topCount {
				topCount = counts[item.Category]
				topCategory = item.Category
			}
		}
	}
	stats.TopCategory = topCategory
	return stats, nil
}

// RefreshItemStatuses recomputes every item's status and persists only the
// ones that changed. Calling it twice without intervening mutations updates
// zero items on the second pass.
func (s *service) RefreshItemStatuses(ctx context.Context) (int, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	now := s.nowFn()
	changed := 0
	var errs error
	for _, item := range items {
		next := item.DeriveStatus(now)
		if next == item.Status {
			continue
		}
		if next == enums.ItemStatusExpired {
			s.appendLog(ctx, item, enums.ChangeTypeExpired, item.Quantity, item.Quantity, "item expired")
		}
		item.Status = next
		item.Touch(now)
		if err := s.repo.Update(ctx, item); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		changed++
	}
	return changed, errs
}

// GenerateShoppingList derives shopping lines 1:1 from items that are out of
// stock (priority 1, quantity 1) or low (priority 2, quantity threshold-or-1).
func (s *service) GenerateShoppingList(ctx context.Context, includeOutOfStock, includeLowStock bool) ([]models.ShoppingListItem, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	generated := make([]models.ShoppingListItem, 0)
	for _, item := range items {
		var line *models.ShoppingListItem
		switch item.DeriveStatus(now) {
		case enums.ItemStatusOutOfStock:
			if !includeOutOfStock {
				continue
			}
			line = &models.ShoppingListItem{
				Base:            models.NewBase(now),
				Name:            item.Name,
				Quantity:        1,
				Unit:            item.Unit,
				Category:        item.Category,
				Priority:        models.ShoppingPriorityUrgent,
				InventoryItemID: item.ID,
			}
		case enums.ItemStatusLow:
			if !includeLowStock {
				continue
			}
			quantity := 1.0
			if threshold, ok := item.EffectiveThreshold(); ok && threshold > 0 {
				quantity = threshold
			}
			line = &models.ShoppingListItem{
				Base:            models.NewBase(now),
				Name:            item.Name,
				Quantity:        quantity,
				Unit:            item.Unit,
				Category:        item.Category,
				Priority:        models.ShoppingPriorityNormal,
				InventoryItemID: item.ID,
			}
		default:
			continue
		}
		if err := s.repo.AddShoppingItem(ctx, *line); err != nil {
			return nil, err
		}
		generated = append(generated, *line)
	}
	return generated, nil
}

// UseItemsForRecipe scales the recipe's ingredient quantities to the
// requested servings and decrements matching inventory items. Items with
// insufficient stock are skipped whole; there is no partial consumption.
func (s *service) UseItemsForRecipe(ctx context.Context, recipeID string, servings int) (*UseRecipeResult, error) {
	if servings <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "servings must be positive")
	}
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.Servings <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "recipe has no serving count")
	}

	factor := float64(servings) / float64(recipe.Servings)
	now := s.nowFn()
	result := &UseRecipeResult{
		RecipeID:     recipe.ID,
		Servings:     servings,
		UsedItems:    []string{},
		SkippedItems: []string{},
	}

	for _, ingredient := range recipe.Ingredients {
		required := ingredient.Quantity * factor
		item, err := s.repo.FindByName(ctx, ingredient.Name)
		if err != nil {
			return nil, err
		}
		if item == nil || item.Quantity < required {
			result.SkippedItems = append(result.SkippedItems, ingredient.Name)
			continue
		}
		before := item.Quantity
		item.Quantity -= required
		item.Touch(now)
		if err := s.repo.Update(ctx, *item); err != nil {
			return nil, err
		}
		s.appendLog(ctx, *item, enums.ChangeTypeConsumed, before, item.Quantity, "used for recipe "+recipe.Name)
		result.UsedItems = append(result.UsedItems, item.Name)
	}

	changed, err := s.RefreshItemStatuses(ctx)
	if err != nil {
		return nil, err
	}
	result.StatusesChanged = changed
	return result, nil
}

// GenerateAlerts recomputes the alert set from scratch: one alert per item
// per matching condition, so a single item can raise several at once. The
// fresh batch is appended; prior alerts are never deduplicated against.
func (s *service) GenerateAlerts(ctx context.Context) ([]models.Alert, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	batch := make([]models.Alert, 0)
	for _, item := range items {
		if item.IsExpired(now) {
			batch = append(batch, s.newAlert(item, enums.AlertTypeExpired, enums.AlertSeverityCritical,
				fmt.Sprintf("%s has expired", item.Name), now))
		} else {
			if item.ExpiresWithin(now, s.cfg.ExpiringSoonDays) {
				batch = append(batch, s.newAlert(item, enums.AlertTypeExpiringSoon, enums.AlertSeverityWarning,
					fmt.Sprintf("%s expires within %d days", item.Name, s.cfg.ExpiringSoonDays), now))
			}
			if item.ExpiresWithin(now, s.cfg.ExpiringWeekDays) {
				batch = append(batch, s.newAlert(item, enums.AlertTypeExpiringThisWeek, enums.AlertSeverityInfo,
					fmt.Sprintf("%s expires within %d days", item.Name, s.cfg.ExpiringWeekDays), now))
			}
		}
		// Stock conditions are checked on the raw quantity, not the derived
		// status, so an expired item still raises its stock alert.
		if item.Quantity <= 0 {
			batch = append(batch, s.newAlert(item, enums.AlertTypeOutOfStock, enums.AlertSeverityCritical,
				fmt.Sprintf("%s is out of stock", item.Name), now))
		} else if threshold, ok := item.EffectiveThreshold(); ok && item.Quantity <= threshold {
			batch = append(batch, s.newAlert(item, enums.AlertTypeLowStock, enums.AlertSeverityWarning,
				fmt.Sprintf("%s is running low", item.Name), now))
		}
	}

	if len(batch) > 0 {
		if err := s.repo.AppendAlerts(ctx, batch); err != nil {
			return nil, err
		}
	}
	return batch, nil
}

func (s *service) newAlert(item models.InventoryItem, alertType enums.AlertType, severity enums.AlertSeverity, message string, now time.Time) models.Alert {
	return models.Alert{
		ID:        uuid.NewString(),
		ItemID:    item.ID,
		ItemName:  item.Name,
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		CreatedAt: now.UTC(),
	}
}

func (s *service) Alerts(ctx context.Context, unreadOnly bool) ([]models.Alert, error) {
	return s.repo.Alerts(ctx, unreadOnly)
}

func (s *service) MarkAlertRead(ctx context.Context, id string) error {
	return s.repo.MarkAlertRead(ctx, id)
}

func (s *service) ChangeLog(ctx context.Context, limit int) ([]models.ChangeLogEntry, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLogLimit
	}
	return s.repo.Logs(ctx, limit)
}

func (s *service) TrimChangeLog(ctx context.Context) (int, error) {
	return s.repo.TrimLogs(ctx, s.cfg.ChangeLogMaxItems)
}

func (s *service) ShoppingList(ctx context.Context) ([]models.ShoppingListItem, error) {
	return s.repo.ShoppingList(ctx)
}

func (s *service) AddShoppingItem(ctx context.Context, input ShoppingItemInput) (*models.ShoppingListItem, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopping item name is required")
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	if input.Priority <= 0 {
		input.Priority = models.ShoppingPriorityNormal
	}
	item := models.ShoppingListItem{
		Base:            models.NewBase(s.nowFn()),
		Name:            input.Name,
		Quantity:        input.Quantity,
		Unit:            input.Unit,
		Category:        input.Category,
		Priority:        input.Priority,
		InventoryItemID: input.InventoryItemID,
	}
	if err := s.repo.AddShoppingItem(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *service) TogglePurchased(ctx context.Context, id string) (*models.ShoppingListItem, error) {
	item, err := s.repo.GetShoppingItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.IsPurchased = !item.IsPurchased
	item.Touch(s.nowFn())
	if err := s.repo.UpdateShoppingItem(ctx, *item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) DeleteShoppingItem(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteShoppingItem(ctx, id)
}

func (s *service) RemovePurchased(ctx context.Context) (int, error) {
	return s.repo.RemovePurchased(ctx)
}

// appendLog writes a change-log entry; log failures are reported, not fatal.
// The log is an audit trail, not part of the mutation's contract.
func (s *service) appendLog(ctx context.Context, item models.InventoryItem, changeType enums.ChangeType, before, after float64, reason string) {
	entry := models.ChangeLogEntry{
		ID:             uuid.NewString(),
		ItemID:         item.ID,
		ItemName:       item.Name,
		Type:           changeType,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         reason,
		CreatedAt:      s.nowFn().UTC(),
	}
	if err := s.repo.AppendLog(ctx, entry); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to append inventory change log", err)
	}
}
