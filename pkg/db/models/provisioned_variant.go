package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DoonX23/ciseco-backend/pkg/enums"
)

// ProvisionedVariant is the audit row for every on-demand catalog variant the
// pipeline creates. It is what makes orphaned variants traceable: a row that
// never reaches the attached status still points at the remote variant id.
type ProvisionedVariant struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      string              `gorm:"column:product_id;not null;uniqueIndex:idx_provisioned_variants_idempotency_key,priority:2"`
	VariantID      string              `gorm:"column:variant_id;not null"`
	Discriminator  string              `gorm:"column:discriminator;not null;uniqueIndex:idx_provisioned_variants_discriminator"`
	IdempotencyKey *string             `gorm:"column:idempotency_key;uniqueIndex:idx_provisioned_variants_idempotency_key,priority:1"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	WeightKg       decimal.Decimal     `gorm:"column:weight_kg;type:numeric(12,3);not null"`
	Status         enums.VariantStatus `gorm:"column:status;not null;default:'created'"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
