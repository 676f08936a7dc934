package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/billing"
	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
)

func validatePurchase(in models.PurchaseInput) error {
	switch {
	case strings.TrimSpace(in.ProductName) == "":
		return validationError("Product name is required")
	case in.PurchaseQty <= 0:
		return validationError("Purchase quantity must be positive")
	case in.MRPInclGST < 0:
		return validationError("MRP must not be negative")
	case in.GSTPercentage < 0 || in.GSTPercentage > 100:
		return validationError("GST percentage must be between 0 and 100")
	case in.DiscountOnPurchasePercentage < 0 || in.DiscountOnPurchasePercentage > 100:
		return validationError("Discount percentage must be between 0 and 100")
	}
	return nil
}

// PreviewPurchase computes the GST breakdown of a purchase without storing it.
func (s *Service) PreviewPurchase(in models.PurchaseInput) (models.PurchaseRecord, error) {
	if err := validatePurchase(in); err != nil {
		return models.PurchaseRecord{}, err
	}
	return billing.PurchaseRecord(in), nil
}

// RecordPurchase stores a stock purchase and adds its quantity to the product.
func (s *Service) RecordPurchase(ctx context.Context, in models.PurchaseInput) (models.PurchaseRecord, error) {
	if err := validatePurchase(in); err != nil {
		return models.PurchaseRecord{}, err
	}

	if in.ProductID != "" {
		p, err := s.store.GetProduct(ctx, in.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return models.PurchaseRecord{}, validationError("unknown product %s", in.ProductID)
		}
		if err != nil {
			return models.PurchaseRecord{}, err
		}
		if in.HSNCode == "" {
			in.HSNCode = p.HSNCode
		}
	}

	now := s.now()
	if in.Date.IsZero() {
		in.Date = now
	}

	rec := billing.PurchaseRecord(in)
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	if err := s.store.InsertPurchase(ctx, rec); err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("insert purchase: %w", err)
	}

	if in.ProductID != "" {
		if err := s.store.AdjustStock(ctx, in.ProductID, in.PurchaseQty); err != nil {
			s.logger.Error("purchase stored but stock not updated",
				zap.String("purchase_id", rec.ID),
				zap.String("product_id", in.ProductID),
				zap.Error(err))
		}
	}

	s.logger.Info("purchase recorded",
		zap.String("purchase_id", rec.ID),
		zap.String("product", rec.ProductName),
		zap.Int("qty", rec.PurchaseQty),
		zap.Float64("invoice_value", rec.InvoiceValue))
	return rec, nil
}

// ListPurchases returns purchases dated in [from, to).
func (s *Service) ListPurchases(ctx context.Context, from, to time.Time) ([]models.PurchaseRecord, error) {
	if !to.After(from) {
		return nil, validationError("to must be after from")
	}
	return s.store.ListPurchases(ctx, from, to)
}
