package shopify

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
)

const variantCreateMutation = `
mutation productVariantsBulkCreate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkCreate(productId: $productId, variants: $variants) {
    productVariants {
      id
      title
      price
    }
    userErrors {
      field
      message
    }
  }
}`

const variantDeleteMutation = `
mutation productVariantsBulkDelete($productId: ID!, $variantsIds: [ID!]!) {
  productVariantsBulkDelete(productId: $productId, variantsIds: $variantsIds) {
    product {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const productMetadataQuery = `
query productCustomMetadata($id: ID!) {
  product(id: $id) {
    id
    title
    formType: metafield(namespace: "custom", key: "form_type") { value }
    machiningPrecision: metafield(namespace: "custom", key: "machining_precision") { value }
    thickness: metafield(namespace: "custom", key: "thickness") { value }
    diameter: metafield(namespace: "custom", key: "diameter") { value }
    density: metafield(namespace: "custom", key: "density") { value }
    unitPrice: metafield(namespace: "custom", key: "unit_price") { value }
  }
}`

// VariantCreateParams describes one dimension-specific variant to provision.
type VariantCreateParams struct {
	ProductID     string
	Title         string
	Price         decimal.Decimal
	WeightKg      decimal.Decimal
	LocationID    string
	StockQuantity int
}

// CreatedVariant is the provisioned variant as reported by the platform.
type CreatedVariant struct {
	ID    string
	Title string
	Price string
}

type metafieldValue struct {
	Value string `json:"value"`
}

func (m *metafieldValue) value() string {
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m.Value)
}

// ProductMetadata carries the custom-namespace metafields that drive pricing.
type ProductMetadata struct {
	ProductID          string
	Title              string
	FormType           string
	MachiningPrecision string
	Thickness          string
	Diameter           string
	Density            string
	UnitPrice          string
}

// CreateProductVariant provisions a new variant whose option value carries the
// unique title. Platform userErrors surface as a business rejection so the
// caller knows the variant was not created.
func (c *Client) CreateProductVariant(ctx context.Context, params VariantCreateParams) (*CreatedVariant, error) {
	variables := map[string]any{
		"productId": params.ProductID,
		"variants": []map[string]any{
			{
				"price": params.Price.StringFixed(2),
				"optionValues": []map[string]any{
					{"optionName": "Title", "name": params.Title},
				},
				"inventoryQuantities": []map[string]any{
					{
						"availableQuantity": params.StockQuantity,
						"locationId":        params.LocationID,
					},
				},
				"inventoryItem": map[string]any{
					"tracked": true,
					"measurement": map[string]any{
						"weight": map[string]any{
							"value": params.WeightKg.InexactFloat64(),
							"unit":  "KILOGRAMS",
						},
					},
				},
			},
		},
	}

	var out struct {
		ProductVariantsBulkCreate struct {
			ProductVariants []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
				Price string `json:"price"`
			} `json:"productVariants"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"productVariantsBulkCreate"`
	}

	if err := c.doAdmin(ctx, "variant_create", variantCreateMutation, variables, &out); err != nil {
		return nil, err
	}

	result := out.ProductVariantsBulkCreate
	if len(result.UserErrors) > 0 {
		msgs := UserErrorMessages(result.UserErrors)
		c.log(ctx, "error", "variant_create", map[string]any{"error": strings.Join(msgs, "; ")})
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRejection, "variant creation rejected").
			WithDetails(map[string]any{"user_errors": msgs})
	}
	if len(result.ProductVariants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeTransport, "variant creation returned no variant")
	}

	created := result.ProductVariants[0]
	return &CreatedVariant{ID: created.ID, Title: created.Title, Price: created.Price}, nil
}

// DeleteProductVariant removes a previously provisioned variant. Used by the
// compensation path and the orphan cleanup job.
func (c *Client) DeleteProductVariant(ctx context.Context, productID, variantID string) error {
	variables := map[string]any{
		"productId":   productID,
		"variantsIds": []string{variantID},
	}

	var out struct {
		ProductVariantsBulkDelete struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"productVariantsBulkDelete"`
	}

	if err := c.doAdmin(ctx, "variant_delete", variantDeleteMutation, variables, &out); err != nil {
		return err
	}

	if errs := out.ProductVariantsBulkDelete.UserErrors; len(errs) > 0 {
		msgs := UserErrorMessages(errs)
		return pkgerrors.New(pkgerrors.CodeBusinessRejection, "variant deletion rejected").
			WithDetails(map[string]any{"user_errors": msgs})
	}
	return nil
}

// GetProductMetadata reads the product's custom metafields so pricing inputs
// can be re-derived server side instead of trusted from the request.
func (c *Client) GetProductMetadata(ctx context.Context, productID string) (*ProductMetadata, error) {
	var out struct {
		Product *struct {
			ID                 string          `json:"id"`
			Title              string          `json:"title"`
			FormType           *metafieldValue `json:"formType"`
			MachiningPrecision *metafieldValue `json:"machiningPrecision"`
			Thickness          *metafieldValue `json:"thickness"`
			Diameter           *metafieldValue `json:"diameter"`
			Density            *metafieldValue `json:"density"`
			UnitPrice          *metafieldValue `json:"unitPrice"`
		} `json:"product"`
	}

	if err := c.doAdmin(ctx, "product_metadata", productMetadataQuery, map[string]any{"id": productID}, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", productID))
	}

	return &ProductMetadata{
		ProductID:          out.Product.ID,
		Title:              out.Product.Title,
		FormType:           out.Product.FormType.value(),
		MachiningPrecision: out.Product.MachiningPrecision.value(),
		Thickness:          out.Product.Thickness.value(),
		Diameter:           out.Product.Diameter.value(),
		Density:            out.Product.Density.value(),
		UnitPrice:          out.Product.UnitPrice.value(),
	}, nil
}
