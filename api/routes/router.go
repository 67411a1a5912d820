package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/nutritrack-backend/api/controllers"
	"github.com/angelmondragon/nutritrack-backend/api/middleware"
	"github.com/angelmondragon/nutritrack-backend/internal/detection"
	"github.com/angelmondragon/nutritrack-backend/internal/ingredients"
	"github.com/angelmondragon/nutritrack-backend/internal/inventory"
	"github.com/angelmondragon/nutritrack-backend/internal/recipes"
	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/metrics"
)

// RouterParams carries everything the HTTP surface needs. Storage may be nil
// for backends without a health probe; HTTPMetrics and Registry may be nil to
// disable the metrics endpoint.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Storage     controllers.Pinger
	Ingredients ingredients.Service
	Inventory   inventory.Service
	Recipes     recipes.Service
	Detection   detection.Service
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if p.HTTPMetrics != nil {
		r.Use(middleware.Metrics(p.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Storage))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/ingredients", func(r chi.Router) {
		r.Get("/", controllers.ListIngredients(p.Ingredients, logg))
		r.Post("/", controllers.CreateIngredient(p.Ingredients, logg))
		r.Get("/expiring", controllers.ExpiringIngredients(p.Ingredients, logg))
		r.Get("/categories", controllers.IngredientCategories(p.Ingredients, logg))
		r.Get("/{id}", controllers.GetIngredient(p.Ingredients, logg))
		r.Put("/{id}", controllers.UpdateIngredient(p.Ingredients, logg))
		r.Delete("/{id}", controllers.DeleteIngredient(p.Ingredients, logg))
		r.Patch("/{id}/quantity", controllers.UpdateIngredientQuantity(p.Ingredients, logg))
	})

	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Get("/", controllers.ListInventory(p.Inventory, logg))
		r.Post("/", controllers.CreateInventoryItem(p.Inventory, logg))
		r.Get("/expiring", controllers.ExpiringInventory(p.Inventory, logg))
		r.Get("/stats", controllers.InventoryStats(p.Inventory, logg))
		r.Post("/refresh-statuses", controllers.RefreshInventoryStatuses(p.Inventory, logg))
		r.Get("/logs", controllers.InventoryChangeLog(p.Inventory, logg))
		r.Post("/use-recipe", controllers.UseItemsForRecipe(p.Inventory, logg))
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.ListAlerts(p.Inventory, logg))
			r.Post("/generate", controllers.GenerateAlerts(p.Inventory, logg))
			r.Patch("/{id}/read", controllers.MarkAlertRead(p.Inventory, logg))
		})
		r.Get("/{id}", controllers.GetInventoryItem(p.Inventory, logg))
		r.Put("/{id}", controllers.UpdateInventoryItem(p.Inventory, logg))
		r.Delete("/{id}", controllers.DeleteInventoryItem(p.Inventory, logg))
		r.Patch("/{id}/quantity", controllers.UpdateInventoryQuantity(p.Inventory, logg))
	})

	r.Route("/api/v1/shopping-list", func(r chi.Router) {
		r.Get("/", controllers.GetShoppingList(p.Inventory, logg))
		r.Post("/", controllers.AddShoppingItem(p.Inventory, logg))
		r.Post("/generate", controllers.GenerateShoppingList(p.Inventory, logg))
		r.Delete("/purchased", controllers.RemovePurchasedShoppingItems(p.Inventory, logg))
		r.Patch("/{id}/toggle", controllers.ToggleShoppingItemPurchased(p.Inventory, logg))
		r.Delete("/{id}", controllers.DeleteShoppingItem(p.Inventory, logg))
	})

	r.Route("/api/v1/recipes", func(r chi.Router) {
		r.Get("/", controllers.ListRecipes(p.Recipes, logg))
		r.Post("/", controllers.CreateRecipe(p.Recipes, logg))
		r.Get("/favorites", controllers.ListFavoriteRecipes(p.Recipes, logg))
		r.Post("/suggestions", controllers.SuggestRecipes(p.Recipes, logg))
		r.Get("/{id}", controllers.GetRecipe(p.Recipes, logg))
		r.Put("/{id}", controllers.UpdateRecipe(p.Recipes, logg))
		r.Delete("/{id}", controllers.DeleteRecipe(p.Recipes, logg))
		r.Post("/{id}/favorite", controllers.FavoriteRecipe(p.Recipes, logg))
		r.Delete("/{id}/favorite", controllers.UnfavoriteRecipe(p.Recipes, logg))
		r.Get("/{id}/scale", controllers.ScaleRecipe(p.Recipes, logg))
		r.Get("/{id}/missing-ingredients", controllers.MissingRecipeIngredients(p.Recipes, logg))
	})

	r.Route("/api/v1/detection", func(r chi.Router) {
		r.Post("/analyze", controllers.AnalyzeImage(p.Detection, logg))
	})

	return r
}
