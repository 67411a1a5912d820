package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/nutritrack-backend/api/responses"
	"github.com/angelmondragon/nutritrack-backend/api/validators"
	"github.com/angelmondragon/nutritrack-backend/internal/recipes"
	"github.com/angelmondragon/nutritrack-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
)

type createRecipeRequest struct {
	Name                string                    `json:"name" validate:"required"`
	PrepTimeMinutes     int                       `json:"prep_time_minutes" validate:"gte=0"`
	CookTimeMinutes     int                       `json:"cook_time_minutes" validate:"gte=0"`
	Servings            int                       `json:"servings" validate:"required,gt=0"`
	Difficulty          string                    `json:"difficulty"`
	Ingredients         []models.RecipeIngredient `json:"ingredients"`
	Instructions        []models.InstructionStep  `json:"instructions"`
	NutritionPerServing models.Nutrition          `json:"nutrition_per_serving"`
	DietaryTags         []string                  `json:"dietary_tags"`
	ImageRef            string                    `json:"image_ref"`
}

type updateRecipeRequest struct {
	Name                *string                   `json:"name"`
	PrepTimeMinutes     *int                      `json:"prep_time_minutes"`
	CookTimeMinutes     *int                      `json:"cook_time_minutes"`
	Servings            *int                      `json:"servings"`
	Difficulty          *string                   `json:"difficulty"`
	Ingredients         []models.RecipeIngredient `json:"ingredients"`
	Instructions        []models.InstructionStep  `json:"instructions"`
	NutritionPerServing *models.Nutrition         `json:"nutrition_per_serving"`
	DietaryTags         []string                  `json:"dietary_tags"`
	ImageRef            *string                   `json:"image_ref"`
}

type suggestionsRequest struct {
	AvailableIngredientIDs []string `json:"available_ingredient_ids"`
	DietaryTags            []string `json:"dietary_tags"`
	MaxPrepTime            *int     `json:"max_prep_time" validate:"omitempty,gte=0"`
	Difficulty             *string  `json:"difficulty"`
}

func ListRecipes(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := recipes.ListFilter{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
		if raw := strings.TrimSpace(r.URL.Query().Get("difficulty")); raw != "" {
			difficulty, err := enums.ParseDifficulty(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown difficulty"))
				return
			}
			filter.Difficulty = &difficulty
		}
		if r.URL.Query().Has("maxPrepTime") {
			max, err := validators.ParseQueryInt(r, "maxPrepTime", 0, 0, 100000)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.MaxPrepTime = &max
		}
		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CreateRecipe(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRecipeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), recipes.CreateInput{
			Name:                req.Name,
			PrepTimeMinutes:     req.PrepTimeMinutes,
			CookTimeMinutes:     req.CookTimeMinutes,
			Servings:            req.Servings,
			Difficulty:          enums.CoerceDifficulty(req.Difficulty),
			Ingredients:         req.Ingredients,
			Instructions:        req.Instructions,
			NutritionPerServing: req.NutritionPerServing,
			DietaryTags:         req.DietaryTags,
			ImageRef:            req.ImageRef,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func GetRecipe(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipe, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, recipe)
	}
}

func UpdateRecipe(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRecipeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := recipes.UpdateInput{
			Name:                req.Name,
			PrepTimeMinutes:     req.PrepTimeMinutes,
			CookTimeMinutes:     req.CookTimeMinutes,
			Servings:            req.Servings,
			Ingredients:         req.Ingredients,
			Instructions:        req.Instructions,
			NutritionPerServing: req.NutritionPerServing,
			DietaryTags:         req.DietaryTags,
			ImageRef:            req.ImageRef,
		}
		if req.Difficulty != nil {
			difficulty, err := enums.ParseDifficulty(*req.Difficulty)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown difficulty"))
				return
			}
			input.Difficulty = &difficulty
		}
		updated, err := svc.Update(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func DeleteRecipe(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := svc.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": found})
	}
}

func FavoriteRecipe(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Favorite(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"favorite": true})
	}
}

func UnfavoriteRecipe(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := svc.Unfavorite(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": found})
	}
}

func ListFavoriteRecipes(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		favorites, err := svc.Favorites(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, favorites)
	}
}

// SuggestRecipes ranks recipes against the available inventory. The body is
// optional; an empty body suggests from the full ingredient catalog.
func SuggestRecipes(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := suggestionsRequest{}
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		opts := recipes.SuggestionOptions{
			AvailableIngredientIDs: req.AvailableIngredientIDs,
			DietaryTags:            req.DietaryTags,
			MaxPrepTime:            req.MaxPrepTime,
		}
		if req.Difficulty != nil {
			difficulty, err := enums.ParseDifficulty(*req.Difficulty)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown difficulty"))
				return
			}
			opts.Difficulty = &difficulty
		}
		suggestions, err := svc.Suggestions(r.Context(), opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestions)
	}
}

func ScaleRecipe(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		servings, err := validators.ParseQueryInt(r, "servings", 0, 1, 1000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scaled, err := svc.ScaleRecipe(r.Context(), chi.URLParam(r, "id"), servings)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, scaled)
	}
}

func MissingRecipeIngredients(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		servings, err := validators.ParseQueryInt(r, "servings", 0, 0, 1000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		missing, err := svc.MissingIngredients(r.Context(), chi.URLParam(r, "id"), servings)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, missing)
	}
}
