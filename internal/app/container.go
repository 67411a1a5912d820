// Package app wires the service graph. Both binaries build the same
// container and resolve only the tokens they need.
package app

import (
	"context"
	"fmt"

	"github.com/angelmondragon/nutritrack-backend/internal/detection"
	"github.com/angelmondragon/nutritrack-backend/internal/ingredients"
	"github.com/angelmondragon/nutritrack-backend/internal/inventory"
	"github.com/angelmondragon/nutritrack-backend/internal/recipes"
	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	"github.com/angelmondragon/nutritrack-backend/pkg/container"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/storage"
)

// Container tokens. Everything is a singleton; the adapter owns the only
// stateful connection.
const (
	TokenStorageAdapter    = "storage.adapter"
	TokenStorageService    = "storage.service"
	TokenIngredientRepo    = "ingredients.repository"
	TokenIngredientService = "ingredients.service"
	TokenRecipeRepo        = "recipes.repository"
	TokenRecipeService     = "recipes.service"
	TokenInventoryRepo     = "inventory.repository"
	TokenInventoryService  = "inventory.service"
	TokenDetectionHandler  = "detection.handler"
	TokenDetectionService  = "detection.service"
)

// NewStorageAdapter selects the configured storage backend.
func NewStorageAdapter(ctx context.Context, cfg *config.Config) (storage.Adapter, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		return storage.NewMemoryAdapter(), nil
	case config.StorageBackendBadger:
		return storage.NewBadgerAdapter(cfg.Storage)
	case config.StorageBackendRedis:
		return storage.NewRedisAdapter(ctx, cfg.Redis)
	case config.StorageBackendGorm:
		return storage.NewGormAdapter(ctx, cfg.Storage)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

// BuildContainer registers the full dependency graph on top of an already
// constructed adapter. The adapter is passed in, not built here, so the
// binary keeps ownership of its lifecycle.
func BuildContainer(cfg *config.Config, logg *logger.Logger, adapter storage.Adapter) *container.Container {
	c := container.New()

	c.Register(TokenStorageAdapter, func(container.Resolver) (any, error) {
		return adapter, nil
	}, true)

	c.Register(TokenStorageService, func(r container.Resolver) (any, error) {
		a, err := container.ResolveAs[storage.Adapter](r, TokenStorageAdapter)
		if err != nil {
			return nil, err
		}
		return storage.NewService(a, cfg.Storage.KeyPrefix, logg)
	}, true)

	c.Register(TokenIngredientRepo, func(r container.Resolver) (any, error) {
		store, err := container.ResolveAs[*storage.Service](r, TokenStorageService)
		if err != nil {
			return nil, err
		}
		return ingredients.NewRepository(store, logg), nil
	}, true)

	c.Register(TokenIngredientService, func(r container.Resolver) (any, error) {
		repo, err := container.ResolveAs[*ingredients.Repository](r, TokenIngredientRepo)
		if err != nil {
			return nil, err
		}
		return ingredients.NewService(repo)
	}, true)

	c.Register(TokenRecipeRepo, func(r container.Resolver) (any, error) {
		store, err := container.ResolveAs[*storage.Service](r, TokenStorageService)
		if err != nil {
			return nil, err
		}
		return recipes.NewRepository(store, logg), nil
	}, true)

	c.Register(TokenRecipeService, func(r container.Resolver) (any, error) {
		repo, err := container.ResolveAs[*recipes.Repository](r, TokenRecipeRepo)
		if err != nil {
			return nil, err
		}
		ingredientRepo, err := container.ResolveAs[*ingredients.Repository](r, TokenIngredientRepo)
		if err != nil {
			return nil, err
		}
		return recipes.NewService(repo, ingredientRepo)
	}, true)

	c.Register(TokenInventoryRepo, func(r container.Resolver) (any, error) {
		store, err := container.ResolveAs[*storage.Service](r, TokenStorageService)
		if err != nil {
			return nil, err
		}
		return inventory.NewRepository(store, logg), nil
	}, true)

	c.Register(TokenInventoryService, func(r container.Resolver) (any, error) {
		repo, err := container.ResolveAs[*inventory.Repository](r, TokenInventoryRepo)
		if err != nil {
			return nil, err
		}
		recipeRepo, err := container.ResolveAs[*recipes.Repository](r, TokenRecipeRepo)
		if err != nil {
			return nil, err
		}
		return inventory.NewService(repo, recipeRepo, cfg.Inventory, logg)
	}, true)

	c.Register(TokenDetectionHandler, func(container.Resolver) (any, error) {
		switch cfg.Detection.Backend {
		case config.DetectionBackendOpenAI:
			handler, err := detection.NewOpenAIHandler(cfg.Detection)
			if err != nil {
				return nil, err
			}
			return detection.ModelHandler(handler), nil
		default:
			return detection.ModelHandler(detection.NewStubHandler()), nil
		}
	}, true)

	c.Register(TokenDetectionService, func(r container.Resolver) (any, error) {
		handler, err := container.ResolveAs[detection.ModelHandler](r, TokenDetectionHandler)
		if err != nil {
			return nil, err
		}
		ingredientRepo, err := container.ResolveAs[*ingredients.Repository](r, TokenIngredientRepo)
		if err != nil {
			return nil, err
		}
		return detection.NewService(handler, ingredientRepo, cfg.Detection, logg)
	}, true)

	return c
}
