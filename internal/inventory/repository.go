package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/nutritrack-backend/internal/repo"
	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
	"github.com/angelmondragon/nutritrack-backend/pkg/storage"
)

// Storage keys for the inventory collections. Items, change log, shopping
// list and alerts live under separate keys and are synchronized by the
// service layer, not transactionally.
const (
	itemsKey    = "inventory"
	logsKey     = "inventory_logs"
	shoppingKey = "shopping_list"
	alertsKey   = "inventory_alerts"
)

// Repository stores inventory items plus their auxiliary collections.
type Repository struct {
	items    *repo.Collection[models.InventoryItem]
	logs     *repo.Collection[models.ChangeLogEntry]
	shopping *repo.Collection[models.ShoppingListItem]
	alerts   *repo.Collection[models.Alert]
}

// NewRepository binds the four inventory collections to the storage service.
func NewRepository(store *storage.Service, logg *logger.Logger) *Repository {
	return &Repository{
		items: repo.NewCollection(store, itemsKey, logg, func(i *models.InventoryItem) {
			i.Normalize()
		}),
		logs:     repo.NewCollection[models.ChangeLogEntry](store, logsKey, logg, nil),
		shopping: repo.NewCollection[models.ShoppingListItem](store, shoppingKey, logg, nil),
		alerts:   repo.NewCollection[models.Alert](store, alertsKey, logg, nil),
	}
}

func (r *Repository) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	return r.items.GetAll(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	return r.items.GetByID(ctx, id)
}

func (r *Repository) Add(ctx context.Context, item models.InventoryItem) error {
	return r.items.Add(ctx, item)
}

func (r *Repository) Update(ctx context.Context, item models.InventoryItem) error {
	return r.items.Update(ctx, item)
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.items.Delete(ctx, id)
}

func (r *Repository) SaveAll(ctx context.Context, items []models.InventoryItem) error {
	return r.items.SaveAll(ctx, items)
}

// ByLocation filters items by storage location.
func (r *Repository) ByLocation(ctx context.Context, location enums.StorageLocation) ([]models.InventoryItem, error) {
	return r.filter(ctx, func(item models.InventoryItem) bool {
		return item.Location == location
	})
}

// ByStatus filters items by their persisted status. Callers that need live
// values run a status refresh first.
func (r *Repository) ByStatus(ctx context.Context, status enums.ItemStatus) ([]models.InventoryItem, error) {
	return r.filter(ctx, func(item models.InventoryItem) bool {
		return item.Status == status
	})
}

// ByCategory filters items by their free-text category, case-insensitively.
func (r *Repository) ByCategory(ctx context.Context, category string) ([]models.InventoryItem, error) {
	return r.filter(ctx, func(item models.InventoryItem) bool {
		return strings.EqualFold(item.Category, category)
	})
}

// ExpiringWithin returns items whose expiration date lies in [today,
// today+days], boundaries included.
func (r *Repository) ExpiringWithin(ctx context.Context, now time.Time, days int) ([]models.InventoryItem, error) {
	return r.filter(ctx, func(item models.InventoryItem) bool {
		return item.ExpiresWithin(now, days)
	})
}

// FindByName resolves an item by exact name, case-insensitively. Returns nil
// without error when nothing matches.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.InventoryItem, error) {
	items, err := r.items.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if strings.EqualFold(items[i].Name, name) {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *Repository) filter(ctx context.Context, keep func(models.InventoryItem) bool) ([]models.InventoryItem, error) {
	items, err := r.items.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.InventoryItem, 0)
	for _, item := range items {
		if keep(item) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// UpdateQuantity overwrites an item's quantity. Negative quantities are
// rejected; the catalog-side ingredient path has no such guard.
func (r *Repository) UpdateQuantity(ctx context.Context, id string, quantity float64, now time.Time) (*models.InventoryItem, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory quantity must not be negative")
	}
	item, err := r.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	item.Touch(now)
	if err := r.items.Update(ctx, *item); err != nil {
		return nil, err
	}
	return item, nil
}

// AppendLog writes one change-log entry. Entries are append-only.
func (r *Repository) AppendLog(ctx context.Context, entry models.ChangeLogEntry) error {
	return r.logs.Add(ctx, entry)
}

// Logs returns change-log entries, newest first, capped at limit when
// limit > 0.
func (r *Repository) Logs(ctx context.Context, limit int) ([]models.ChangeLogEntry, error) {
	entries, err := r.logs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// TrimLogs drops the oldest entries beyond max, returning how many were cut.
func (r *Repository) TrimLogs(ctx context.Context, max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}
	entries, err := r.logs.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(entries) <= max {
		return 0, nil
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	trimmed := len(entries) - max
	if err := r.logs.SaveAll(ctx, entries[:max]); err != nil {
		return 0, err
	}
	return trimmed, nil
}

// ShoppingList returns the shopping list, urgent items first.
func (r *Repository) ShoppingList(ctx context.Context) ([]models.ShoppingListItem, error) {
	items, err := r.shopping.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})
	return items, nil
}

func (r *Repository) AddShoppingItem(ctx context.Context, item models.ShoppingListItem) error {
	return r.shopping.Add(ctx, item)
}

func (r *Repository) UpdateShoppingItem(ctx context.Context, item models.ShoppingListItem) error {
	return r.shopping.Update(ctx, item)
}

func (r *Repository) DeleteShoppingItem(ctx context.Context, id string) (bool, error) {
	return r.shopping.Delete(ctx, id)
}

func (r *Repository) GetShoppingItem(ctx context.Context, id string) (*models.ShoppingListItem, error) {
	return r.shopping.GetByID(ctx, id)
}

// RemovePurchased deletes every purchased line, returning how many went.
func (r *Repository) RemovePurchased(ctx context.Context) (int, error) {
	items, err := r.shopping.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	kept := make([]models.ShoppingListItem, 0, len(items))
	removed := 0
	for _, item := range items {
		if item.IsPurchased {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := r.shopping.SaveAll(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// AppendAlerts stores a freshly generated alert batch. Existing alerts are
// never deduplicated against.
func (r *Repository) AppendAlerts(ctx context.Context, batch []models.Alert) error {
	existing, err := r.alerts.GetAll(ctx)
	if err != nil {
		return err
	}
	return r.alerts.SaveAll(ctx, append(existing, batch...))
}

// Alerts returns stored alerts, newest first, optionally unread only.
func (r *Repository) Alerts(ctx context.Context, unreadOnly bool) ([]models.Alert, error) {
	alerts, err := r.alerts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if unreadOnly && alert.IsRead {
			continue
		}
		filtered = append(filtered, alert)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// MarkAlertRead flags one alert as read.
func (r *Repository) MarkAlertRead(ctx context.Context, id string) error {
	alert, err := r.alerts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	alert.IsRead = true
	return r.alerts.Update(ctx, *alert)
}
