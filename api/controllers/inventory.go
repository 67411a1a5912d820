package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/nutritrack-backend/api/responses"
	"github.com/angelmondragon/nutritrack-backend/api/validators"
	"github.com/angelmondragon/nutritrack-backend/internal/inventory"
	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
)

type createInventoryItemRequest struct {
	Name              string           `json:"name" validate:"required"`
	Quantity          float64          `json:"quantity" validate:"gte=0"`
	Unit              string           `json:"unit"`
	Category          string           `json:"category"`
	Location          string           `json:"location"`
	ExpirationDate    *time.Time       `json:"expiration_date"`
	LowStockThreshold *float64         `json:"low_stock_threshold"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price"`
	PurchaseDate      *time.Time       `json:"purchase_date"`
	IsStaple          bool             `json:"is_staple"`
}

type updateInventoryItemRequest struct {
	Name              *string          `json:"name"`
	Unit              *string          `json:"unit"`
	Category          *string          `json:"category"`
	Location          *string          `json:"location"`
	ExpirationDate    *time.Time       `json:"expiration_date"`
	ClearExpiration   bool             `json:"clear_expiration"`
	LowStockThreshold *float64         `json:"low_stock_threshold"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price"`
	PurchaseDate      *time.Time       `json:"purchase_date"`
	IsStaple          *bool            `json:"is_staple"`
}

type useRecipeRequest struct {
	RecipeID string `json:"recipe_id" validate:"required"`
	Servings int    `json:"servings" validate:"required,gt=0"`
}

// ListInventory returns inventory items, optionally filtered by location,
// status or category. Filters are mutually exclusive; the first present wins.
func ListInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := inventory.ListFilter{Category: strings.TrimSpace(r.URL.Query().Get("category"))}
		if raw := strings.TrimSpace(r.URL.Query().Get("location")); raw != "" {
			location, err := enums.ParseStorageLocation(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown location"))
				return
			}
			filter.Location = &location
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseItemStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown status"))
				return
			}
			filter.Status = &status
		}
		items, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func CreateInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createInventoryItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), inventory.CreateInput{
			Name:              req.Name,
			Quantity:          req.Quantity,
			Unit:              req.Unit,
			Category:          req.Category,
			Location:          enums.CoerceStorageLocation(req.Location),
			ExpirationDate:    req.ExpirationDate,
			LowStockThreshold: req.LowStockThreshold,
			PurchasePrice:     req.PurchasePrice,
			PurchaseDate:      req.PurchaseDate,
			IsStaple:          req.IsStaple,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func GetInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func UpdateInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateInventoryItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := inventory.UpdateInput{
			Name:              req.Name,
			Unit:              req.Unit,
			Category:          req.Category,
			ExpirationDate:    req.ExpirationDate,
			ClearExpiration:   req.ClearExpiration,
			LowStockThreshold: req.LowStockThreshold,
			PurchasePrice:     req.PurchasePrice,
			PurchaseDate:      req.PurchaseDate,
			IsStaple:          req.IsStaple,
		}
		if req.Location != nil {
			location, err := enums.ParseStorageLocation(*req.Location)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown location"))
				return
			}
			input.Location = &location
		}
		updated, err := svc.Update(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func DeleteInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := svc.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": found})
	}
}

func ExpiringInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 7, 0, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.Expiring(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func InventoryStats(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func RefreshInventoryStatuses(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changed, err := svc.RefreshItemStatuses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"items_changed": changed})
	}
}

func InventoryChangeLog(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.ChangeLog(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func UpdateInventoryQuantity(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), *req.Quantity, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func UseItemsForRecipe(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req useRecipeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.UseItemsForRecipe(r.Context(), req.RecipeID, req.Servings)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ListAlerts(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unreadOnly, err := validators.ParseQueryBool(r, "unreadOnly", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		alerts, err := svc.Alerts(r.Context(), unreadOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts)
	}
}

func GenerateAlerts(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batch, err := svc.GenerateAlerts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, batch)
	}
}

func MarkAlertRead(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.MarkAlertRead(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"read": true})
	}
}
