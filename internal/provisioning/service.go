// Package provisioning creates dimension-specific catalog variants on demand
// and keeps an audit row for each one so failed submissions can be cleaned up.
package provisioning

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/DoonX23/ciseco-backend/pkg/config"
	"github.com/DoonX23/ciseco-backend/pkg/db"
	"github.com/DoonX23/ciseco-backend/pkg/db/models"
	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
	"github.com/DoonX23/ciseco-backend/pkg/shopify"
)

const discriminatorConstraint = "idx_provisioned_variants_discriminator"

// VariantClient is the slice of the platform client this service needs.
type VariantClient interface {
	CreateProductVariant(ctx context.Context, params shopify.VariantCreateParams) (*shopify.CreatedVariant, error)
	DeleteProductVariant(ctx context.Context, productID, variantID string) error
}

// Request describes one variant to provision. IdempotencyKey is optional;
// when set, a repeated request for the same product returns the
// already-provisioned variant instead of creating a second one. The key is
// scoped to the product, never shared across submissions for other products.
type Request struct {
	ProductID      string
	Price          decimal.Decimal
	WeightKg       decimal.Decimal
	IdempotencyKey string
}

// Variant is the provisioned result handed to the cart step.
type Variant struct {
	RecordID      uuid.UUID
	VariantID     string
	Discriminator string
	Price         decimal.Decimal
	WeightKg      decimal.Decimal
	Reused        bool
}

// Service provisions variants at most once per submission.
type Service interface {
	Provision(ctx context.Context, req Request) (*Variant, error)
	MarkAttached(ctx context.Context, recordID uuid.UUID) error
	Abandon(ctx context.Context, productID string, variant *Variant) error
}

type service struct {
	client VariantClient
	repo   Repository
	cfg    config.ProvisioningConfig
	logger *logger.Logger
}

func NewService(client VariantClient, repo Repository, cfg config.ProvisioningConfig, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, errors.New("provisioning: variant client is required")
	}
	if repo == nil {
		return nil, errors.New("provisioning: repository is required")
	}
	if strings.TrimSpace(cfg.LocationID) == "" {
		return nil, errors.New("provisioning: stock location id is required")
	}
	if logg == nil {
		return nil, errors.New("provisioning: logger is required")
	}
	return &service{client: client, repo: repo, cfg: cfg, logger: logg}, nil
}

// Provision creates the remote variant and records it. The audit row is
// written after the remote create succeeds: a missing row with an existing
// remote variant is recoverable via the discriminator, the reverse is not.
func (s *service) Provision(ctx context.Context, req Request) (*Variant, error) {
	ctx = s.logger.WithProductID(ctx, req.ProductID)

	if req.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, req.ProductID, req.IdempotencyKey)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency lookup failed")
		}
		if existing != nil && existing.Status != enums.VariantStatusRemoved {
			if !existing.Price.Equal(req.Price) || !existing.WeightKg.Equal(req.WeightKg) {
				return nil, pkgerrors.New(pkgerrors.CodeIdempotency,
					"idempotency key reused with a different submission")
			}
			s.logger.Info(s.logger.WithFields(ctx, map[string]any{
				"variant_id": existing.VariantID,
				"status":     existing.Status,
			}), "reusing provisioned variant for repeated submission")
			return variantFromRecord(existing, true), nil
		}
	}

	discriminator, err := NewDiscriminator()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "discriminator generation failed")
	}

	created, err := s.client.CreateProductVariant(ctx, shopify.VariantCreateParams{
		ProductID:     req.ProductID,
		Title:         discriminator,
		Price:         req.Price,
		WeightKg:      req.WeightKg,
		LocationID:    s.cfg.LocationID,
		StockQuantity: s.cfg.StockQuantity,
	})
	if err != nil {
		return nil, err
	}

	record := &models.ProvisionedVariant{
		ProductID:     req.ProductID,
		VariantID:     created.ID,
		Discriminator: discriminator,
		Price:         req.Price,
		WeightKg:      req.WeightKg,
		Status:        enums.VariantStatusCreated,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		record.IdempotencyKey = &key
	}

	if err := s.repo.Create(ctx, record); err != nil {
		// The remote variant exists but is untracked. Best effort delete,
		// then surface the persistence failure.
		if db.IsUniqueViolation(err, discriminatorConstraint) {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "discriminator collision")
		} else {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording provisioned variant failed")
		}
		if delErr := s.client.DeleteProductVariant(ctx, req.ProductID, created.ID); delErr != nil {
			s.logger.Error(ctx, "untracked variant could not be deleted", delErr)
			err = multierr.Append(err, delErr)
		}
		return nil, err
	}

	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"variant_id":    created.ID,
		"discriminator": discriminator,
	}), "variant provisioned")

	return variantFromRecord(record, false), nil
}

// MarkAttached finalizes the lifecycle once a cart line references the
// variant.
func (s *service) MarkAttached(ctx context.Context, recordID uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, recordID, enums.VariantStatusAttached)
}

// Abandon compensates a variant whose cart attachment failed: delete the
// remote variant and mark the row removed. If the remote delete fails the row
// goes to orphaned so the cleanup job retries later.
func (s *service) Abandon(ctx context.Context, productID string, variant *Variant) error {
	if variant == nil {
		return nil
	}
	ctx = s.logger.WithProductID(ctx, productID)

	if err := s.client.DeleteProductVariant(ctx, productID, variant.VariantID); err != nil {
		s.logger.Error(ctx, "compensating variant delete failed, marking orphaned", err)
		if markErr := s.repo.UpdateStatus(ctx, variant.RecordID, enums.VariantStatusOrphaned); markErr != nil {
			return multierr.Append(err, markErr)
		}
		return err
	}

	if err := s.repo.UpdateStatus(ctx, variant.RecordID, enums.VariantStatusRemoved); err != nil {
		return err
	}
	s.logger.Info(s.logger.WithField(ctx, "variant_id", variant.VariantID), "abandoned variant removed")
	return nil
}

func variantFromRecord(record *models.ProvisionedVariant, reused bool) *Variant {
	return &Variant{
		RecordID:      record.ID,
		VariantID:     record.VariantID,
		Discriminator: record.Discriminator,
		Price:         record.Price,
		WeightKg:      record.WeightKg,
		Reused:        reused,
	}
}
