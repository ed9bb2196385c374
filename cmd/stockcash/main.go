package main

import (
	"os"

	"github.com/andresuchdata/stockcash/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "stockcash",
		Usage: "Inventory analytics and cash forecast maintenance tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply the embedded schema migrations",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:  "seed",
				Usage: "Load reference and sales data from CSV files",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing the seed CSV files",
						Value:   "./data/seeds",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runSeed,
			},
			{
				Name:   "refresh-threshold",
				Usage:  "Recompute the high-velocity threshold and publish it to the shared cache",
				Action: runRefreshThreshold,
			},
			{
				Name:  "report",
				Usage: "Export inventory analytics and the cash forecast to an XLSX workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out-dir",
						Usage:   "Directory the workbook is written to",
						EnvVars: []string{"APP_REPORT_DIR"},
					},
					&cli.Int64Flag{
						Name:  "location-id",
						Usage: "Only include one location",
					},
					&cli.StringFlag{
						Name:  "periods",
						Usage: "Forecast horizons in days, e.g. 30,60,90",
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Upload the workbook to the configured object storage",
					},
				},
				Action: runReport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
