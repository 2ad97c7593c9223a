// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"

	"github.com/your-org/pharmacy-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProductNotFound is returned when a product lookup fails
	ErrProductNotFound = errors.New("product not found")
	// ErrVariantNotFound is returned when a variant lookup fails
	ErrVariantNotFound = errors.New("product variant not found")
)

// Service handles catalog lookups consumed by cart and checkout
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// FindProductByID retrieves a product with its variants
func (s *Service) FindProductByID(productID uint) (*Product, error) {
	var prod Product
	err := s.db.Preload("Variants").Where("id = ?", productID).First(&prod).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &prod, nil
}

// FindVariant retrieves a product together with one of its variants
func (s *Service) FindVariant(productID, variantID uint) (*Product, *Variant, error) {
	prod, err := s.FindProductByID(productID)
	if err != nil {
		return nil, nil, err
	}

	variant := prod.FindVariant(variantID)
	if variant == nil {
		return nil, nil, ErrVariantNotFound
	}

	return prod, variant, nil
}

// NextSKU allocates the next value of the named database-backed sequence and
// formats it as a SKU. Safe across multiple server instances.
func (s *Service) NextSKU(name string) (string, error) {
	var seq SKUSequence

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(SKUSequence{Name: name}).
			FirstOrCreate(&seq).Error; err != nil {
			return err
		}

		seq.Value++
		return tx.Model(&seq).Update("value", seq.Value).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to allocate sku: %w", err)
	}

	return fmt.Sprintf("%s-%06d", name, seq.Value), nil
}
