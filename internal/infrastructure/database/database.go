package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/salepilot-api/internal/config"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/enum"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the configured database (postgres by default, mysql optionally)
func NewDB(cfg *config.DatabaseConfig, tracing bool, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log, cfg.LogLevel),
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if tracing {
		if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.Name))); err != nil {
			return nil, fmt.Errorf("failed to install tracing plugin: %w", err)
		}
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.WithFields(logrus.Fields{"driver": cfg.Driver, "host": cfg.Host, "db": cfg.Name}).Info("connected to database")
	return db, nil
}

// NewGormLogger routes gorm's SQL logging through logrus
func NewGormLogger(log *logrus.Logger, level string) logger.Interface {
	lvl := logger.Warn
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	return logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

// Models lists every persisted entity in migration order
func Models() []interface{} {
	return []interface{}{
		&entity.Tenant{},

		// Catalog
		&entity.Category{},
		&entity.Product{},

		// Parties
		&entity.Customer{},
		&entity.Supplier{},

		// Sales
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Payment{},
		&entity.SalesReturn{},
		&entity.ReturnItem{},

		// Accounting
		&entity.Account{},
		&entity.JournalEntry{},
		&entity.JournalEntryLine{},

		// Purchasing and inventory
		&entity.PurchaseOrder{},
		&entity.PurchaseOrderItem{},
		&entity.StockTake{},
		&entity.StockTakeItem{},

		// System
		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log logrus.FieldLogger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := createTenantUniqueIndexes(db); err != nil {
		return fmt.Errorf("failed to create unique indexes: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

type uniqueIndex struct {
	table   string
	name    string
	columns string
	where   string
}

// tenantUniqueIndexes are the natural keys that are unique within a tenant.
// TenantID is declared on the embedded TenantModel, so the composite indexes
// cannot be expressed as struct tags on the owning entity.
var tenantUniqueIndexes = []uniqueIndex{
	{table: "products", name: "idx_products_tenant_sku", columns: "tenant_id, sku", where: "deleted_at IS NULL"},
	{table: "customers", name: "idx_customers_tenant_email", columns: "tenant_id, email", where: "deleted_at IS NULL"},
	{table: "accounts", name: "idx_accounts_tenant_number", columns: "tenant_id, number"},
	{table: "purchase_orders", name: "idx_purchase_orders_tenant_number", columns: "tenant_id, po_number"},
	{
		table:   "accounts",
		name:    "idx_accounts_tenant_singleton",
		columns: "tenant_id, sub_type",
		where: fmt.Sprintf("sub_type IN ('%s', '%s', '%s')",
			enum.AccountSubTypeAccountsReceivable, enum.AccountSubTypeAccountsPayable, enum.AccountSubTypeSalesTaxPayable),
	},
}

func createTenantUniqueIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range tenantUniqueIndexes {
		// MySQL has no partial indexes; those keys fall back to the service-level checks
		if idx.where != "" && db.Dialector.Name() == "mysql" {
			continue
		}
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if idx.where != "" {
			sql += " WHERE " + idx.where
		}
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("%s: %w", idx.name, err)
		}
	}
	return nil
}

// SeedDefaultTenant creates the configured bootstrap tenant if it does not exist yet
func SeedDefaultTenant(db *gorm.DB, name, slug string, log logrus.FieldLogger) (*entity.Tenant, error) {
	if slug == "" {
		return nil, nil
	}

	var existing entity.Tenant
	err := db.Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		log.WithField("slug", slug).Info("default tenant already exists")
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	t := &entity.Tenant{Name: name, Slug: slug, Active: true}
	if err := db.Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create default tenant: %w", err)
	}
	log.WithFields(logrus.Fields{"slug": slug, "tenant_id": t.ID}).Info("default tenant created")
	return t, nil
}
