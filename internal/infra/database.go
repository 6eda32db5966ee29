package infra

import (
	"fmt"

	"github.com/Gopal274/Ssdn/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the product table, then applies idempotent SQL patches for the things
// AutoMigrate cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// gen_random_uuid() needs pgcrypto on Postgres < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(&model.Product{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate does not fully
// cover. The unique index on product_name is declared on the model too;
// re-asserting it here keeps the storage-level uniqueness guarantee intact
// even if the model tag is ever reorganized. Safe to re-run on a patched DB.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'products')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_products_product_name') THEN
		    CREATE UNIQUE INDEX idx_products_product_name ON products (product_name);
		  END IF;
		END $$`,
		// party filter on the embedded current quotation
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'products')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_products_current_party') THEN
		    CREATE INDEX idx_products_current_party ON products ((current_rate->>'party_name'));
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies the schema for integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Product{}); err != nil {
		return err
	}
	return applySchemaPatches(db)
}
