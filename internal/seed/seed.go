package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/tourpricing/internal/pricing"
	"github.com/Simplici0/tourpricing/internal/report"
	"github.com/Simplici0/tourpricing/internal/snapshot"
)

const referenceScenarioTitle = "Reference trip"

// Config contains the values required by startup seed.
type Config struct {
	StorageKey string
	Defaults   snapshot.Snapshot
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureSnapshot(ctx, tx, cfg, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureReferenceScenario(ctx, tx, cfg, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSnapshot(ctx context.Context, tx *sql.Tx, cfg Config, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM snapshots WHERE storage_key = ?)`, cfg.StorageKey).Scan(&exists); err != nil {
		return fmt.Errorf("check snapshot existence: %w", err)
	}
	if exists {
		return nil
	}

	data, err := json.Marshal(cfg.Defaults)
	if err != nil {
		return fmt.Errorf("encode default snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (storage_key, data_json)
		VALUES (?, ?)
	`, cfg.StorageKey, string(data)); err != nil {
		return fmt.Errorf("insert default snapshot: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureReferenceScenario(ctx context.Context, tx *sql.Tx, cfg Config, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM scenarios WHERE title = ? LIMIT 1)`, referenceScenarioTitle).Scan(&exists); err != nil {
		return fmt.Errorf("check reference scenario existence: %w", err)
	}
	if exists {
		return nil
	}

	inputsJSON, err := json.Marshal(cfg.Defaults)
	if err != nil {
		return fmt.Errorf("encode reference inputs: %w", err)
	}
	resultJSON, err := json.Marshal(report.Summarize(pricing.Calculate(cfg.Defaults.Inputs())))
	if err != nil {
		return fmt.Errorf("encode reference result: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO scenarios (id, title, notes, inputs_json, result_json)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), referenceScenarioTitle, "default inputs", string(inputsJSON), string(resultJSON)); err != nil {
		return fmt.Errorf("insert reference scenario: %w", err)
	}
	stats.Inserts++
	return nil
}
