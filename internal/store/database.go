package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Record is the row shape backing the gorm driver: one JSON document per
// (collection, key) pair.
type Record struct {
	Collection string `gorm:"primaryKey;size:32"`
	Key        string `gorm:"primaryKey;size:64"`
	Data       []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GormStore implements Store on top of a relational database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// InitDB opens a gorm connection based on the database URL scheme. The sqlite
// path auto-migrates the records table; postgres relies on RunMigrations.
func InitDB(databaseURL string) (*gorm.DB, error) {
	var dialer gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres") {
		dialer = postgres.Open(databaseURL)
	} else if strings.HasPrefix(databaseURL, "sqlite") {
		dialer = sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	} else {
		return nil, fmt.Errorf("unsupported database driver: %s", databaseURL)
	}

	db, err := gorm.Open(dialer, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if !strings.HasPrefix(databaseURL, "postgres") {
		if err := db.AutoMigrate(&Record{}); err != nil {
			return nil, fmt.Errorf("failed to migrate records table: %w", err)
		}
	}

	return db, nil
}

func RunMigrations(databaseURL string, sourcePath string) error {
	if sourcePath == "" {
		sourcePath = "file://migration"
	}
	m, err := migrate.New(
		sourcePath,
		databaseURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}

	log.Println("Database migrations ran successfully")
	return nil
}

func (s *GormStore) Create(ctx context.Context, collection, key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	var existing Record
	err = s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		First(&existing).Error
	if err == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.WithContext(ctx).Create(&Record{
		Collection: collection,
		Key:        key,
		Data:       data,
	}).Error
}

func (s *GormStore) Read(ctx context.Context, collection, key string, out any) error {
	var rec Record
	err := s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(rec.Data, out)
}

func (s *GormStore) Update(ctx context.Context, collection, key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("collection = ? AND key = ?", collection, key).
		Update("data", data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, collection, key string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		Delete(&Record{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
