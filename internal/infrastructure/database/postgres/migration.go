// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/pharmacy-backend/internal/domain/cart"
	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
	"github.com/your-org/pharmacy-backend/internal/domain/order"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
	"github.com/your-org/pharmacy-backend/internal/domain/upload"
	"github.com/your-org/pharmacy-backend/internal/domain/wishlist"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		// Catalog domain - base tables
		&catalog.Product{},
		&catalog.Variant{},
		&catalog.SKUSequence{},

		// Pricing reference data
		&currency.ExchangeRate{},
		&pricing.DeliveryCharge{},

		// Cart domain
		&cart.Cart{},
		&cart.CartLine{},

		// Order domain - dependent tables
		&order.Order{},
		&order.OrderItem{},

		// Supporting tables
		&upload.UploadedFile{},
		&wishlist.WishlistItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed")
	return nil
}

// additionalIndexes are indexes not covered by model tags. Table names must
// match the models' TableName methods.
var additionalIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug)",
	"CREATE INDEX IF NOT EXISTS idx_products_visible ON products(is_visible)",
	"CREATE INDEX IF NOT EXISTS idx_variants_product ON product_variants(product_id)",
	"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_delivery_charges_country ON delivery_charges(country)",
}

// CreateIndexes creates additional indexes not covered by model tags
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating database indexes...")

	for _, idx := range additionalIndexes {
		if err := m.db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created")
	return nil
}

// SeedInitialData seeds reference data needed for a working development setup
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedDeliveryCharges(); err != nil {
		return fmt.Errorf("failed to seed delivery charges: %w", err)
	}
	if err := m.seedSampleProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Println("✅ Initial data seeding completed")
	return nil
}

// seedDeliveryCharges installs the per-country delivery slabs. Countries
// without rows fall back to the baked-in defaults at pricing time.
func (m *Migration) seedDeliveryCharges() error {
	charges := []pricing.DeliveryCharge{
		{Country: "USA", MinAmount: decimal.Zero, MaxAmount: decimal.RequireFromString("4177.78"), Charge: decimal.RequireFromString("4178.62")},
		{Country: "USA", MinAmount: decimal.RequireFromString("4177.78"), MaxAmount: decimal.RequireFromString("16713.65"), Charge: decimal.RequireFromString("3342.90")},
		{Country: "USA", MinAmount: decimal.RequireFromString("16713.65"), MaxAmount: decimal.Zero, Charge: decimal.Zero},
	}

	for _, charge := range charges {
		var existing pricing.DeliveryCharge
		result := m.db.Where("country = ? AND min_amount = ?", charge.Country, charge.MinAmount).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&charge).Error; err != nil {
				return err
			}
			log.Printf("✅ Created delivery slab: %s from %s", charge.Country, charge.MinAmount)
		}
	}
	return nil
}

// seedSampleProducts creates a few products for payment integration testing
func (m *Migration) seedSampleProducts() error {
	var count int64
	m.db.Model(&catalog.Product{}).Count(&count)
	if count > 0 {
		log.Println("⏭️ Sample products already exist")
		return nil
	}

	products := []catalog.Product{
		{
			SKU:          "MED-000001",
			Name:         "Paracetamol 500mg",
			Slug:         "paracetamol-500mg",
			Description:  "Pain relief and fever reducer tablets",
			Manufacturer: "Cipla",
			Composition:  "Paracetamol 500mg",
			IsVisible:    true,
			Variants: []catalog.Variant{
				{
					SKU:              "MED-000001-V1",
					PackSize:         "15 tablets",
					Price:            decimal.RequireFromString("35.00"),
					IsStockAvailable: true,
					MinOrderQuantity: 1,
					MaxOrderQuantity: 10,
				},
			},
		},
		{
			SKU:                    "MED-000002",
			Name:                   "Amoxicillin 250mg",
			Slug:                   "amoxicillin-250mg",
			Description:            "Broad-spectrum antibiotic capsules",
			Manufacturer:           "Sun Pharma",
			Composition:            "Amoxicillin 250mg",
			IsVisible:              true,
			IsPrescriptionRequired: true,
			Variants: []catalog.Variant{
				{
					SKU:              "MED-000002-V1",
					PackSize:         "10 capsules",
					Price:            decimal.RequireFromString("120.00"),
					SalePrice:        decimal.RequireFromString("98.00"),
					IsStockAvailable: true,
					MinOrderQuantity: 1,
					MaxOrderQuantity: 5,
				},
			},
		},
		{
			SKU:          "MED-000003",
			Name:         "Cetirizine 10mg",
			Slug:         "cetirizine-10mg",
			Description:  "Antihistamine for allergy relief",
			Manufacturer: "Dr. Reddy's",
			Composition:  "Cetirizine Hydrochloride 10mg",
			IsVisible:    true,
			Variants: []catalog.Variant{
				{
					SKU:              "MED-000003-V1",
					PackSize:         "10 tablets",
					Price:            decimal.RequireFromString("1000.00"),
					IsStockAvailable: true,
					MinOrderQuantity: 1,
					MaxOrderQuantity: 20,
				},
			},
		},
	}

	for _, p := range products {
		if err := m.db.Create(&p).Error; err != nil {
			log.Printf("⚠️ Failed to create sample product %s: %v", p.SKU, err)
		} else {
			log.Printf("✅ Created sample product: %s", p.Name)
		}
	}
	return nil
}

// GetTableInfo logs row counts for every public table
func (m *Migration) GetTableInfo() error {
	var tables []string
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		log.Printf("  %-24s %d rows", table, count)
	}
	return nil
}
