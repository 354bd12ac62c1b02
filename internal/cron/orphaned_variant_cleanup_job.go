package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/DoonX23/ciseco-backend/pkg/db/models"
	"github.com/DoonX23/ciseco-backend/pkg/enums"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
)

const (
	defaultOrphanRetention = 24 * time.Hour
	defaultCleanupBatch    = 100
)

// variantCleanupRepo is the audit-row slice the job needs.
type variantCleanupRepo interface {
	ListUnattachedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ProvisionedVariant, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.VariantStatus) error
}

// variantDeleter deletes variants on the platform.
type variantDeleter interface {
	DeleteProductVariant(ctx context.Context, productID, variantID string) error
}

// OrphanedVariantCleanupJobParams configure the cleanup job.
type OrphanedVariantCleanupJobParams struct {
	Logger    *logger.Logger
	Repo      variantCleanupRepo
	Deleter   variantDeleter
	Retention time.Duration
	BatchSize int
}

// NewOrphanedVariantCleanupJob sweeps audit rows that never reached the
// attached state and deletes their remote variants. This is the retry path
// for compensations that failed at submission time, and the safety net for
// submissions that died between the variant create and the cart call.
func NewOrphanedVariantCleanupJob(params OrphanedVariantCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("variant repository required")
	}
	if params.Deleter == nil {
		return nil, fmt.Errorf("variant deleter required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultOrphanRetention
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultCleanupBatch
	}
	return &orphanedVariantCleanupJob{
		logg:      params.Logger,
		repo:      params.Repo,
		deleter:   params.Deleter,
		retention: retention,
		batch:     batch,
		now:       time.Now,
	}, nil
}

type orphanedVariantCleanupJob struct {
	logg      *logger.Logger
	repo      variantCleanupRepo
	deleter   variantDeleter
	retention time.Duration
	batch     int
	now       func() time.Time
}

func (j *orphanedVariantCleanupJob) Name() string { return "orphaned-variant-cleanup" }

func (j *orphanedVariantCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)

	rows, err := j.repo.ListUnattachedBefore(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query unattached variants: %w", err)
	}

	var (
		removed int
		failed  int
		runErr  error
	)
	for _, row := range rows {
		if err := j.deleter.DeleteProductVariant(ctx, row.ProductID, row.VariantID); err != nil {
			failed++
			runErr = multierr.Append(runErr, fmt.Errorf("delete variant %s: %w", row.VariantID, err))
			// keep the row visible for the next sweep
			if row.Status != enums.VariantStatusOrphaned {
				if markErr := j.repo.UpdateStatus(ctx, row.ID, enums.VariantStatusOrphaned); markErr != nil {
					runErr = multierr.Append(runErr, fmt.Errorf("mark variant %s orphaned: %w", row.VariantID, markErr))
				}
			}
			continue
		}
		if err := j.repo.UpdateStatus(ctx, row.ID, enums.VariantStatusRemoved); err != nil {
			runErr = multierr.Append(runErr, fmt.Errorf("mark variant %s removed: %w", row.VariantID, err))
			continue
		}
		removed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":     cutoff,
		"candidates": len(rows),
		"removed":    removed,
		"failed":     failed,
	})
	j.logg.Info(logCtx, "orphaned variant cleanup complete")
	return runErr
}
