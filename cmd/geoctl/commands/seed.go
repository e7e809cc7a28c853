package commands

import (
	"fmt"

	"github.com/alexivanou/geocommunity/cmd/geoctl/output"
	"github.com/alexivanou/geocommunity/internal/database"
	"github.com/alexivanou/geocommunity/internal/repository"
	"github.com/alexivanou/geocommunity/internal/seeder"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir   string
	batchSize int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import countries and places into the geo hierarchy",
	Long: `Import reference geo data from the data directory:

  countryInfo.txt        - GeoNames country list (ISO code, name)
  places.tsv|places.zip  - country_code, city, district, neighborhood per line

Rows that already exist are left alone, so the import can be re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		// The schema is per process for the in-memory database.
		if cfg.DB.IsMemory() {
			if err := database.Migrate(db, cfg.DB, migrationsDir); err != nil {
				return err
			}
		}

		seederCfg := cfg.Seeder
		if dataDir != "" {
			seederCfg.DataDir = dataDir
		}
		if batchSize > 0 {
			seederCfg.BatchSize = batchSize
		}

		repos := repository.NewRepositories(db, cfg.DB.Type)
		parser := seeder.NewParser(seederCfg.DataDir, seederCfg)
		res, err := seeder.New(repos.Geo, parser, logger).Run(ctx)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}

		logger.Info("Data import completed",
			zap.Int("countries", res.Countries),
			zap.Int("cities", res.Cities),
			zap.Int("districts", res.Districts),
			zap.Int("neighborhoods", res.Neighborhoods),
			zap.Int("skipped", res.Skipped))
		output.Success(cmd.OutOrStdout(), "Imported %d countries, %d cities, %d districts, %d neighborhoods",
			res.Countries, res.Cities, res.Districts, res.Neighborhoods)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&dataDir, "data-dir", "", "Override SEEDER_DATA_DIR")
	seedCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Override SEEDER_BATCH_SIZE")
}
