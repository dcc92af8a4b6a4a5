package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type kvEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// GormKV stores blobs through gorm; the service uses it with SQLite.
type GormKV struct {
	db            *gorm.DB
	maxValueBytes int
}

// OpenSQLite opens (or creates) the database file and migrates the table.
func OpenSQLite(path string, maxValueBytes int) (*GormKV, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewGormKV(db, maxValueBytes)
}

func NewGormKV(db *gorm.DB, maxValueBytes int) (*GormKV, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &GormKV{db: db, maxValueBytes: maxValueBytes}, nil
}

func (g *GormKV) Get(ctx context.Context, key string) ([]byte, error) {
	var e kvEntry
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

func (g *GormKV) Set(ctx context.Context, key string, value []byte) error {
	if g.maxValueBytes > 0 && len(value) > g.maxValueBytes {
		return fmt.Errorf("%w: %d bytes > %d", ErrQuotaExceeded, len(value), g.maxValueBytes)
	}
	e := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (g *GormKV) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("key = ?", key).Delete(&kvEntry{}).Error
}

func (g *GormKV) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
