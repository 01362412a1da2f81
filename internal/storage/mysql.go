package storage

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hrtool/internal/core"
	"hrtool/internal/dataset"
)

// meta mirrors the dataset_meta table of the SQLite schema.
type meta struct {
	ID       int `gorm:"primaryKey;autoIncrement:false"`
	RowCount int
}

func (meta) TableName() string {
	return "dataset_meta"
}

// GormRepository stores the dataset in MySQL.
type GormRepository struct {
	db *gorm.DB
}

var _ dataset.Backend = (*GormRepository)(nil)

// NewMySQLRepository connects with a DSN such as
// user:pass@tcp(127.0.0.1:3306)/hrtool?charset=utf8mb4&parseTime=True&loc=Local
func NewMySQLRepository(dsn string) (*GormRepository, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql database: %w", err)
	}
	return NewGormRepository(db)
}

// NewGormRepository migrates the schema on an existing connection.
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&Record{}, &meta{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *GormRepository) Read(ctx context.Context) (core.RawTable, error) {
	db := r.db.WithContext(ctx)

	var saved int64
	if err := db.Model(&meta{}).Count(&saved).Error; err != nil {
		return core.RawTable{}, fmt.Errorf("read dataset meta: %w", err)
	}
	if saved == 0 {
		return core.RawTable{}, dataset.ErrNotFound
	}

	var records []Record
	if err := db.Order("position").Find(&records).Error; err != nil {
		return core.RawTable{}, fmt.Errorf("query employees: %w", err)
	}
	return rawFromRecords(records), nil
}

func (r *GormRepository) Write(ctx context.Context, raw core.RawTable) error {
	records := recordsFromRaw(raw)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Record{}).Error; err != nil {
			return fmt.Errorf("clear employees: %w", err)
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, 500).Error; err != nil {
				return fmt.Errorf("insert employees: %w", err)
			}
		}
		return tx.Save(&meta{ID: 1, RowCount: len(records)}).Error
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Dataset saved to MySQL", "rows", len(records))
	return nil
}
