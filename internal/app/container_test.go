package app

import (
	"context"
	"testing"

	"github.com/angelmondragon/nutritrack-backend/internal/detection"
	"github.com/angelmondragon/nutritrack-backend/internal/ingredients"
	"github.com/angelmondragon/nutritrack-backend/internal/inventory"
	"github.com/angelmondragon/nutritrack-backend/internal/recipes"
	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	"github.com/angelmondragon/nutritrack-backend/pkg/container"
	"github.com/angelmondragon/nutritrack-backend/pkg/storage"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Backend = config.StorageBackendMemory
	cfg.Storage.KeyPrefix = "nutrition_app"
	cfg.Detection.Backend = config.DetectionBackendStub
	cfg.Detection.MinConfidence = 0.5
	cfg.Inventory = config.InventoryConfig{
		ExpiringSoonDays:  3,
		ExpiringWeekDays:  7,
		DefaultLogLimit:   50,
		ChangeLogMaxItems: 1000,
	}
	return cfg
}

func TestNewStorageAdapterSelectsBackend(t *testing.T) {
	cfg := testConfig()
	adapter, err := NewStorageAdapter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewStorageAdapter: %v", err)
	}
	if _, ok := adapter.(*storage.MemoryAdapter); !ok {
		t.Fatalf("expected memory adapter, got %T", adapter)
	}

	cfg.Storage.Backend = "tape"
	if _, err := NewStorageAdapter(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestBuildContainerResolvesFullGraph(t *testing.T) {
	cfg := testConfig()
	c := BuildContainer(cfg, nil, storage.NewMemoryAdapter())

	if _, err := container.ResolveAs[ingredients.Service](c, TokenIngredientService); err != nil {
		t.Fatalf("resolve ingredient service: %v", err)
	}
	if _, err := container.ResolveAs[recipes.Service](c, TokenRecipeService); err != nil {
		t.Fatalf("resolve recipe service: %v", err)
	}
	if _, err := container.ResolveAs[inventory.Service](c, TokenInventoryService); err != nil {
		t.Fatalf("resolve inventory service: %v", err)
	}
	if _, err := container.ResolveAs[detection.Service](c, TokenDetectionService); err != nil {
		t.Fatalf("resolve detection service: %v", err)
	}

	first, err := c.Resolve(TokenStorageService)
	if err != nil {
		t.Fatalf("resolve storage service: %v", err)
	}
	second, err := c.Resolve(TokenStorageService)
	if err != nil {
		t.Fatalf("resolve storage service again: %v", err)
	}
	if first != second {
		t.Fatalf("expected singleton storage service")
	}
}
