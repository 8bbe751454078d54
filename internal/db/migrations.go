package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('PENDING', 'ACCEPTED', 'COMPLETED', 'EXPIRED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS contract_archive (
		id VARCHAR(16) PRIMARY KEY,
		owner_id VARCHAR(64) NOT NULL DEFAULT '',
		commodity VARCHAR(128) NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		origin VARCHAR(128) NOT NULL,
		destination VARCHAR(128) NOT NULL,
		distance_ly DOUBLE PRECISION NOT NULL,
		base_price_per_unit NUMERIC(20,4) NOT NULL,
		base_cost NUMERIC(24,4) NOT NULL,
		risk_premium NUMERIC(24,4) NOT NULL,
		fuel_cost NUMERIC(24,4) NOT NULL,
		time_surcharge NUMERIC(24,4) NOT NULL,
		total NUMERIC(24,0) NOT NULL,
		status contract_status NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		accepted_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		expired_at TIMESTAMPTZ,
		archived_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_archive_owner_id ON contract_archive (owner_id) WHERE owner_id <> '';`,
	`CREATE INDEX IF NOT EXISTS idx_contract_archive_status ON contract_archive (status);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
