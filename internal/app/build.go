package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"recipe-finder/internal/config"
	"recipe-finder/internal/database"
	"recipe-finder/internal/docstore"
	"recipe-finder/internal/favorites"
	"recipe-finder/internal/metrics"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/shopping"
	"recipe-finder/internal/storage"
)

// Build wires an App from cfg: catalog, persistence providers, one writer
// per store, and the initial load of the shopping list and favorites.
// A favorites load failure is logged and leaves the set empty.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	catalog, err := recipe.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	a := &App{catalog: catalog, logger: logger}

	var db *database.DB
	if cfg.ShoppingStore == config.StoreSQLite || cfg.FavoritesURL == "" {
		db, err = database.NewDB(cfg.DatabasePath, logger.Named("database"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.onClose(db.Close)
	}

	kv, err := newKeyValueStore(cfg, db)
	if err != nil {
		a.Close()
		return nil, err
	}

	var docs storage.DocumentStore
	if cfg.FavoritesURL != "" {
		docs = docstore.NewClient(cfg)
	} else {
		docs = storage.NewSQLDocumentStore(db.SQL)
	}

	shoppingWriter := storage.NewWriter(logger.Named("shopping-writer"), cfg.WriteTimeout)
	a.onClose(shoppingWriter.Close)
	favoritesWriter := storage.NewWriter(logger.Named("favorites-writer"), cfg.WriteTimeout)
	a.onClose(favoritesWriter.Close)

	a.shopping = shopping.NewStore(ctx, kv, shoppingWriter, logger.Named("shopping"))
	a.favorites = favorites.NewService(docs, favoritesWriter, logger.Named("favorites"))
	// Load logs its own failure; the app starts with no favorites.
	_ = a.favorites.Load(ctx)

	dataDir := ""
	if db != nil {
		dataDir = filepath.Dir(cfg.DatabasePath)
	} else if cfg.ShoppingStore == config.StoreFile {
		dataDir = cfg.ShoppingFileDir
	}
	a.health = metrics.NewCollector(dataDir)

	total, _ := a.shopping.Counts()
	logger.Info("app ready",
		zap.Int("ingredients", len(catalog.Ingredients)),
		zap.Int("recipes", len(catalog.Recipes)),
		zap.Int("shopping_items", total),
		zap.Int("favorites", len(a.favorites.IDs())),
		zap.String("shopping_store", cfg.ShoppingStore),
		zap.Bool("remote_favorites", cfg.FavoritesURL != ""),
	)
	return a, nil
}

func newKeyValueStore(cfg *config.Config, db *database.DB) (storage.KeyValueStore, error) {
	switch cfg.ShoppingStore {
	case config.StoreSQLite:
		return storage.NewSQLStore(db.SQL), nil
	case config.StoreFile:
		store, err := storage.NewFileStore(cfg.ShoppingFileDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return store, nil
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown shopping store %q", cfg.ShoppingStore)
	}
}
