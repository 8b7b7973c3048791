package query

import (
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hubtav/tavlist/pkg/config"
	"github.com/hubtav/tavlist/pkg/logutils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	once     sync.Once
	instance *gorm.DB
)

// GetDB returns the singleton instance of the database connection.
func GetDB() *gorm.DB {
	once.Do(func() {
		var err error
		instance, err = Open(config.GetConfig())
		if err != nil {
			panic(err)
		}
	})
	return instance
}

// Open connects to the database selected by the configuration.
func Open(conf *config.Config) (*gorm.DB, error) {
	switch conf.Database.Driver {
	case DriverSQLite:
		return OpenSQLite(conf.Database.SQLitePath)
	case DriverPostgres, "":
		return openPostgres(conf)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Database.Driver)
	}
}

func openPostgres(conf *config.Config) (*gorm.DB, error) {
	pg := conf.Database.Postgres
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		pg.Host, pg.User, pg.Password, pg.DBName, pg.Port, pg.SSLMode, pg.TimeZone)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	maxIdleConns := 5
	maxOpenConns := 10
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logutils.Log.Info("Postgres init success!")
	return db, nil
}

// OpenSQLite opens a SQLite database. A path of the form "file:name?mode=memory&cache=shared"
// gives a private in-memory database. SQLite allows a single writer, so the pool is
// pinned to one connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	logutils.Log.Infof("SQLite init success! path=%s", path)
	return db, nil
}
