// Package sqlite keeps the catalog in a local SQLite file through gorm, for
// single-machine installs that do not run Postgres.
package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"cotizador/go_backend/internal/domain/catalog"
)

type CatalogSnapshot struct {
	Slot      string         `gorm:"primaryKey"`
	Products  datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

type Catalog struct {
	db  *gorm.DB
	key string
}

var _ catalog.Persistence = (*Catalog)(nil)

// Open opens (or creates) the database at dsn and migrates the snapshot
// table. ":memory:" style DSNs work for tests.
func Open(dsn, key string) (*Catalog, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&CatalogSnapshot{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Catalog{db: db, key: key}, nil
}

func (c *Catalog) Load(ctx context.Context) ([]catalog.Product, error) {
	var snap CatalogSnapshot
	err := c.db.WithContext(ctx).First(&snap, "slot = ?", c.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	var out []catalog.Product
	if err := json.Unmarshal(snap.Products, &out); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return out, nil
}

func (c *Catalog) Save(ctx context.Context, products []catalog.Product) error {
	if products == nil {
		products = []catalog.Product{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	snap := CatalogSnapshot{Slot: c.key, Products: datatypes.JSON(raw), UpdatedAt: time.Now()}
	err = c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"products", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
