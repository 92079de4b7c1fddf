package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is checked before running; migrations are skipped when it exists.
const sentinelTable = "public.file_list_loads"

var steps = []migrationStep{
	{
		Name: "create_table_file_list_loads",
		SQL: `CREATE TABLE IF NOT EXISTS file_list_loads (
  id            UUID        PRIMARY KEY,
  query         TEXT        NOT NULL DEFAULT '',
  status        TEXT        NOT NULL CHECK (status IN ('published', 'failed')),
  file_count    INTEGER     NOT NULL DEFAULT 0 CHECK (file_count >= 0),
  enriched      INTEGER     NOT NULL DEFAULT 0 CHECK (enriched >= 0),
  enrich_failed INTEGER     NOT NULL DEFAULT 0 CHECK (enrich_failed >= 0),
  error         TEXT        NOT NULL DEFAULT '',
  started_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  completed_at  TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_file_list_loads_started_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_file_list_loads_started_at ON file_list_loads (started_at);`,
	},
	{
		Name: "create_index_file_list_loads_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_file_list_loads_status ON file_list_loads (status);`,
	},
}

// EnsureMigrated creates the load history schema unless it already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
