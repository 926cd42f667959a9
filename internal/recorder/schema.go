package recorder

import (
	"context"
	"fmt"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS health_samples (
	sampled_at    TIMESTAMPTZ      NOT NULL,
	instance      TEXT             NOT NULL,
	ram_used      BIGINT           NOT NULL,
	ram_total     BIGINT           NOT NULL,
	load_average  DOUBLE PRECISION NOT NULL,
	load_per_core DOUBLE PRECISION NOT NULL,
	uptime        BIGINT           NOT NULL,
	low_disk      INTEGER,
	unhealthy     BOOLEAN          NOT NULL,
	disks         JSONB            NOT NULL,
	PRIMARY KEY (instance, sampled_at)
)`

const insertSQL = `
INSERT INTO health_samples (sampled_at, instance, ram_used, ram_total, load_average, load_per_core, uptime, low_disk, unhealthy, disks)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (instance, sampled_at) DO NOTHING`

// EnsureSchema creates the health_samples table if it does not exist.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create health_samples: %w", err)
	}
	return nil
}
