// Package db provides the client record store backed by GORM.
package db

import (
	"strings"

	"github.com/faz-ai-biz/secretaria/internal/db/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the database and runs migrations. PostgreSQL DSNs are
// recognized by their scheme or key=value form; everything else is opened
// as a SQLite file path.
func InitDB(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(&models.Client{}); err != nil {
		return nil, err
	}

	return database, nil
}

func dialectorFor(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}
