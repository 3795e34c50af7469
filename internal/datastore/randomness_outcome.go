package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"pointsdraw/internal/models"
)

func CreateTableRandomnessOutcome(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.RandomnessOutcome)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	// Outcomes are picked in byte order of job id, independent of the
	// database locale.
	if db.Dialect().Name() == dialect.PG {
		_, err = db.NewRaw(`ALTER TABLE randomness_outcome ALTER COLUMN job_id TYPE varchar COLLATE "C"`).Exec(ctx)
		if err != nil {
			return err
		}
	}

	_, err = db.NewCreateIndex().Model((*models.RandomnessOutcome)(nil)).Index("index_randomness_outcome_consumed_job_id").IfNotExists().Column("consumed", "job_id").Exec(ctx)
	return err
}

func GetRandomnessOutcome(ctx context.Context, db bun.IDB, jobID string) (*models.RandomnessOutcome, error) {
	var outcome models.RandomnessOutcome
	err := db.NewSelect().Model(&outcome).Where("job_id = ?", jobID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &outcome, nil
}

// InsertRandomnessOutcome stores a new outcome and reports false when the
// job id is already present. Existing rows are never overwritten.
func InsertRandomnessOutcome(ctx context.Context, db bun.IDB, outcome *models.RandomnessOutcome) (bool, error) {
	if outcome.ReceivedAt.IsZero() {
		outcome.ReceivedAt = time.Now().UTC()
	}
	res, err := db.NewInsert().Model(outcome).On("CONFLICT (job_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetFirstAvailableOutcome returns the unconsumed outcome with the smallest
// job id.
func GetFirstAvailableOutcome(ctx context.Context, db bun.IDB) (*models.RandomnessOutcome, error) {
	var outcome models.RandomnessOutcome
	err := db.NewSelect().Model(&outcome).
		Where("consumed = ?", false).
		Order("job_id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &outcome, nil
}

// ConsumeOutcome flips the consumed flag and reports whether this call did it.
func ConsumeOutcome(ctx context.Context, db bun.IDB, jobID string, consumedBy string, at time.Time) (bool, error) {
	res, err := db.NewUpdate().Model((*models.RandomnessOutcome)(nil)).
		Set("consumed = ?", true).
		Set("consumed_by = ?", consumedBy).
		Set("consumed_at = ?", at).
		Where("job_id = ?", jobID).
		Where("consumed = ?", false).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func CountOutcomes(ctx context.Context, db bun.IDB, consumed bool) (int, error) {
	return db.NewSelect().Model((*models.RandomnessOutcome)(nil)).Where("consumed = ?", consumed).Count(ctx)
}
