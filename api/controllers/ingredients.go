package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/nutritrack-backend/api/responses"
	"github.com/angelmondragon/nutritrack-backend/api/validators"
	"github.com/angelmondragon/nutritrack-backend/internal/ingredients"
	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
)

type createIngredientRequest struct {
	Name             string           `json:"name" validate:"required"`
	Category         string           `json:"category"`
	NutritionPer100g models.Nutrition `json:"nutrition_per_100g"`
	Quantity         *float64         `json:"quantity"`
	Unit             string           `json:"unit"`
	ExpiryDate       *time.Time       `json:"expiry_date"`
	ImageRef         string           `json:"image_ref"`
}

type updateIngredientRequest struct {
	Name             *string           `json:"name"`
	Category         *string           `json:"category"`
	NutritionPer100g *models.Nutrition `json:"nutrition_per_100g"`
	Quantity         *float64          `json:"quantity"`
	Unit             *string           `json:"unit"`
	ExpiryDate       *time.Time        `json:"expiry_date"`
	ClearExpiry      bool              `json:"clear_expiry"`
	ImageRef         *string           `json:"image_ref"`
}

type quantityRequest struct {
	Quantity *float64 `json:"quantity" validate:"required"`
	Reason   string   `json:"reason"`
}

// ListIngredients returns the catalog, optionally filtered by category or a
// name search.
func ListIngredients(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ingredients.ListFilter{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseIngredientCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category"))
				return
			}
			filter.Category = &category
		}
		items, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func CreateIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createIngredientRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), ingredients.CreateInput{
			Name:             req.Name,
			Category:         enums.IngredientCategory(req.Category),
			NutritionPer100g: req.NutritionPer100g,
			Quantity:         req.Quantity,
			Unit:             req.Unit,
			ExpiryDate:       req.ExpiryDate,
			ImageRef:         req.ImageRef,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func GetIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredient, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredient)
	}
}

func UpdateIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateIngredientRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := ingredients.UpdateInput{
			Name:             req.Name,
			NutritionPer100g: req.NutritionPer100g,
			Quantity:         req.Quantity,
			Unit:             req.Unit,
			ExpiryDate:       req.ExpiryDate,
			ClearExpiry:      req.ClearExpiry,
			ImageRef:         req.ImageRef,
		}
		if req.Category != nil {
			category, err := enums.ParseIngredientCategory(*req.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category"))
				return
			}
			input.Category = &category
		}
		updated, err := svc.Update(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func DeleteIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := svc.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": found})
	}
}

// ExpiringIngredients lists catalog entries expiring within ?days= (default 7).
func ExpiringIngredients(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
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

func IngredientCategories(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

func UpdateIngredientQuantity(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), *req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
