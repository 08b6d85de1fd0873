package db

import (
	"fmt"

	"github.com/landbook/landbook/internal/models"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	switch DialectName(conn) {
	case DialectSQLite:
		return migrateSQLite(conn)
	case DialectPostgres, "":
		return migratePostgres(conn)
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}
}

// autoMigrate creates or updates all tables in dependency order.
func autoMigrate(conn *gorm.DB) error {
	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Raiyat{},
		&models.LandRecord{},
		&models.Payment{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	return nil
}

// migratePostgres applies PostgreSQL-specific schema updates and indexes.
func migratePostgres(conn *gorm.DB) error {
	if errAutoMigrate := autoMigrate(conn); errAutoMigrate != nil {
		return errAutoMigrate
	}
	if errEmailIdx := conn.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))
	`).Error; errEmailIdx != nil {
		return fmt.Errorf("db: create users email index: %w", errEmailIdx)
	}
	if errRecordIdx := conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_land_records_project_created ON land_records (project_id, created_at DESC)
	`).Error; errRecordIdx != nil {
		return fmt.Errorf("db: create land records index: %w", errRecordIdx)
	}
	if errPaymentIdx := conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payments_project_created ON payments (project_id, created_at DESC)
	`).Error; errPaymentIdx != nil {
		return fmt.Errorf("db: create payments index: %w", errPaymentIdx)
	}
	return nil
}

// migrateSQLite applies SQLite-specific schema updates and indexes.
func migrateSQLite(conn *gorm.DB) error {
	if errAutoMigrate := autoMigrate(conn); errAutoMigrate != nil {
		return errAutoMigrate
	}
	if errEmailIdx := conn.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))
	`).Error; errEmailIdx != nil {
		return fmt.Errorf("db: create users email index: %w", errEmailIdx)
	}
	if errRecordIdx := conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_land_records_project_created ON land_records (project_id, created_at)
	`).Error; errRecordIdx != nil {
		return fmt.Errorf("db: create land records index: %w", errRecordIdx)
	}
	if errPaymentIdx := conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payments_project_created ON payments (project_id, created_at)
	`).Error; errPaymentIdx != nil {
		return fmt.Errorf("db: create payments index: %w", errPaymentIdx)
	}
	return nil
}
