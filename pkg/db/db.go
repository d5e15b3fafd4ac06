package db

import (
	_ "github.com/jackc/pgx/v4"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/env"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var conn *gorm.DB

// Connect opens the database connection configured by the
// environment. It is called once at process start; services reach
// the pool through Connection.
func Connect() error {
	var (
		gdb *gorm.DB
		err error
	)

	switch env.Variables().DatabaseType {
	case "postgres":
		gdb, err = gorm.Open(
			postgres.Open(env.Variables().DatabaseDSN),
			&gorm.Config{},
		)
	case "sqlite":
		fallthrough
	default:
		gdb, err = gorm.Open(
			sqlite.Open(env.Variables().DatabaseDSN),
			&gorm.Config{},
		)
	}

	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}

	conn = gdb

	return nil
}

// Connection returns the shared database handle.
func Connection() *gorm.DB {
	return conn
}

// Migrate applies schema migrations for all registered models.
func Migrate() error {
	return conn.AutoMigrate(models.All...)
}

// Close releases the underlying connection pool.
func Close() error {
	if conn == nil {
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
