package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

// TableStatus reports whether a model's table exists
type TableStatus struct {
	Table  string `json:"table"`
	Exists bool   `json:"exists"`
}

// Initialize creates a new database connection with the provided configuration
func Initialize(dbPath string, verbose bool) (*DB, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	// Ensure the database directory exists
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	logLevel := logger.Error
	if verbose {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	// sqlite serializes writers; a single in-memory database must also stay on
	// one connection or every new connection sees an empty schema.
	if dbPath == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DB{DB: db}, nil
}

// InitializeFromConfig opens the configured database and migrates every model
func InitializeFromConfig(cfg config.DatabaseConfig) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is not configured")
	}

	db, err := Initialize(cfg.Path, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is working
func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// AutoMigrate runs GORM auto migration for the provided models
func (db *DB) AutoMigrate(models ...any) error {
	if err := db.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}

// Migrate migrates every persisted model
func (db *DB) Migrate() error {
	return db.AutoMigrate(models.All()...)
}

// Status reports which model tables exist
func (db *DB) Status() []TableStatus {
	migrator := db.DB.Migrator()
	var out []TableStatus
	for _, m := range models.All() {
		stmt := &gorm.Statement{DB: db.DB}
		table := ""
		if err := stmt.Parse(m); err == nil {
			table = stmt.Schema.Table
		}
		out = append(out, TableStatus{Table: table, Exists: migrator.HasTable(m)})
	}
	return out
}
