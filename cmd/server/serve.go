package main

import (
	"fmt"
	"log/slog"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/auth"
	"kitchen-allocation-api/internal/config"
	"kitchen-allocation-api/internal/database"
	"kitchen-allocation-api/internal/handlers"
	"kitchen-allocation-api/internal/realtime"
	"kitchen-allocation-api/internal/registry"
	"kitchen-allocation-api/internal/routes"
	"kitchen-allocation-api/internal/store"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API.",
	Long:  `Opens and migrates the database, loads every shift and task into the allocation engine, relinks tasks to the catalog and serves the JSON API.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	slog.Info("database connected and migrated", "path", cfg.Database.Path)

	catalog := registry.NewCatalog(db)
	engine, err := allocation.New(ctx, store.NewGormStore(db), allocation.Options{
		SaturationThreshold: cfg.Allocation.SaturationThreshold,
		Cooks:               registry.NewCachedCooks(catalog, cfg.Registry.CookCacheTTL),
		Logger:              slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("failed to start allocation engine: %w", err)
	}

	report := engine.ResolveReferences(ctx, catalog, catalog, catalog)
	if report.AmbiguousShiftKeys > 0 || report.UnresolvedShifts > 0 {
		slog.Warn("some tasks could not be linked to a shift",
			"unresolved", report.UnresolvedShifts,
			"ambiguous", report.AmbiguousShiftKeys,
		)
	}

	h := handlers.New(engine, catalog, auth.NewIssuer(cfg.Auth), realtime.NewHub(), slog.Default())
	ginRoutes := routes.SetupRoutes(h)

	addr := ":" + cfg.Server.Port
	slog.Info("server starting", "addr", addr)
	if err := ginRoutes.Run(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
