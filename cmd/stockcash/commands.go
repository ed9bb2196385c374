package main

import (
	"fmt"

	"github.com/andresuchdata/stockcash/internal/app"
	"github.com/andresuchdata/stockcash/internal/config"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/migrations"
	"github.com/andresuchdata/stockcash/internal/report"
	"github.com/andresuchdata/stockcash/internal/seed"
	"github.com/andresuchdata/stockcash/internal/storage"
	"github.com/andresuchdata/stockcash/pkg/logger"
	"github.com/urfave/cli/v2"
)

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	applied, err := migrations.Apply(c.Context, db)
	if err != nil {
		return err
	}
	logger.Log.Info().Strs("applied", applied).Msg("migrations complete")
	return nil
}

func runSeed(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	ds, err := seed.ReadDataset(c.String("data-dir"))
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := seed.LoadSQL(c.Context, tx, ds); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.Info().Msg("Database seeding completed successfully")
	return nil
}

func runRefreshThreshold(c *cli.Context) error {
	application, err := app.New(config.Load(), app.Options{})
	if err != nil {
		return err
	}
	defer application.Close()

	snap, err := application.Policy.Refresh(c.Context)
	if err != nil {
		return err
	}

	logger.Log.Info().
		Float64("threshold", snap.Value).
		Int("pairs", snap.PairCount).
		Bool("shared", application.Redis != nil).
		Msg("high-velocity threshold refreshed")
	return nil
}

func runReport(c *cli.Context) error {
	cfg := config.Load()

	application, err := app.New(cfg, app.Options{})
	if err != nil {
		return err
	}
	defer application.Close()

	var objects storage.ObjectStorage
	if c.Bool("upload") {
		if !cfg.Storage.Enabled {
			return fmt.Errorf("upload requested but STORAGE_ENABLED is false")
		}
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return err
		}
		objects = client
	}

	dir := c.String("out-dir")
	if dir == "" {
		dir = cfg.App.ReportDir
	}

	var query domain.InventoryQuery
	if c.IsSet("location-id") {
		id := c.Int64("location-id")
		query.LocationID = &id
	}

	exporter := report.NewExporter(application.Services.Inventory, application.Services.Forecasts, objects, dir, nil)
	result, err := exporter.Export(c.Context, query, config.ParseIntList(c.String("periods")))
	if err != nil {
		return err
	}

	logger.Log.Info().Str("path", result.Path).Str("object_key", result.ObjectKey).Msg("report written")
	return nil
}
