package provisioning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DoonX23/ciseco-backend/pkg/db/models"
	"github.com/DoonX23/ciseco-backend/pkg/enums"
)

// ErrNotFound is returned when no audit row matches the lookup.
var ErrNotFound = errors.New("provisioned variant not found")

// Repository persists the audit trail of provisioned variants.
type Repository interface {
	Create(ctx context.Context, record *models.ProvisionedVariant) error
	FindByIdempotencyKey(ctx context.Context, productID, key string) (*models.ProvisionedVariant, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.VariantStatus) error
	ListUnattachedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ProvisionedVariant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *models.ProvisionedVariant) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByIdempotencyKey looks up a prior submission for the same product.
// Keys are client-chosen, so a key is only meaningful within one product.
func (r *repository) FindByIdempotencyKey(ctx context.Context, productID, key string) (*models.ProvisionedVariant, error) {
	var record models.ProvisionedVariant
	err := r.db.WithContext(ctx).
		First(&record, "product_id = ? AND idempotency_key = ?", productID, key).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.VariantStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProvisionedVariant{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUnattachedBefore returns rows still in the created or orphaned state
// older than the cutoff. These are the variants the cleanup job deletes
// remotely.
func (r *repository) ListUnattachedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ProvisionedVariant, error) {
	var records []models.ProvisionedVariant
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enums.VariantStatus{enums.VariantStatusCreated, enums.VariantStatusOrphaned}).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).
		Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
