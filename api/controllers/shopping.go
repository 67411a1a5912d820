package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/nutritrack-backend/api/responses"
	"github.com/angelmondragon/nutritrack-backend/api/validators"
	"github.com/angelmondragon/nutritrack-backend/internal/inventory"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
)

type addShoppingItemRequest struct {
	Name            string  `json:"name" validate:"required"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	Unit            string  `json:"unit"`
	Category        string  `json:"category"`
	Priority        int     `json:"priority" validate:"omitempty,min=1,max=3"`
	InventoryItemID string  `json:"inventory_item_id"`
}

type generateShoppingListRequest struct {
	IncludeOutOfStock *bool `json:"include_out_of_stock"`
	IncludeLowStock   *bool `json:"include_low_stock"`
}

func GetShoppingList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ShoppingList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AddShoppingItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addShoppingItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.AddShoppingItem(r.Context(), inventory.ShoppingItemInput{
			Name:            req.Name,
			Quantity:        req.Quantity,
			Unit:            req.Unit,
			Category:        req.Category,
			Priority:        req.Priority,
			InventoryItemID: req.InventoryItemID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// GenerateShoppingList rebuilds suggested lines from the current inventory.
// Both include flags default to true when the body omits them.
func GenerateShoppingList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := generateShoppingListRequest{}
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		includeOutOfStock := req.IncludeOutOfStock == nil || *req.IncludeOutOfStock
		includeLowStock := req.IncludeLowStock == nil || *req.IncludeLowStock
		items, err := svc.GenerateShoppingList(r.Context(), includeOutOfStock, includeLowStock)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func ToggleShoppingItemPurchased(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.TogglePurchased(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func DeleteShoppingItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := svc.DeleteShoppingItem(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": found})
	}
}

func RemovePurchasedShoppingItems(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := svc.RemovePurchased(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"removed": removed})
	}
}
