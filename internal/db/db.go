package db

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"plume/internal/models"
)

// Init opens the postgres connection and runs migrations. The caller owns the
// returned handle; nothing here is global.
func Init(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=plume port=5432 sslmode=disable"
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	log.Info().Msg("database connection established")

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	log.Info().Msg("database migration completed")

	return gdb, nil
}

// Migrate creates or updates the schema. Exposed separately so tests can run
// it against their own (sqlite) database.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
	)
}
