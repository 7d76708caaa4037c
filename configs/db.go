package configs

import (
	"fmt"
	"strings"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionDB opens the database selected by DB_DRIVER.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	isSQLite := false
	switch cfg.DBDriver {
	case "sqlite", "":
		isSQLite = true
		dialector = sqlite.Open(sqliteDSN(cfg.DBSource))
	case "postgres":
		dialector = postgres.Open(cfg.DBSource)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
	gcfg := &gorm.Config{TranslateError: true}
	if cfg.IsProduction() || cfg.Env == "test" {
		gcfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if isSQLite {
		// sqlite allows one writer; a single connection queues writers from
		// different devices instead of failing them with "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// sqliteDSN adds the busy timeout, immediate transactions and WAL journal
// unless the source already sets them. In-memory databases skip WAL.
func sqliteDSN(src string) string {
	params := []string{"_busy_timeout=5000", "_txlock=immediate"}
	if !strings.Contains(src, ":memory:") && !strings.Contains(src, "mode=memory") {
		params = append(params, "_journal_mode=WAL")
	}
	for _, p := range params {
		key := p[:strings.IndexByte(p, '=')+1]
		if strings.Contains(src, key) {
			continue
		}
		if strings.Contains(src, "?") {
			src += "&" + p
		} else {
			src += "?" + p
		}
	}
	return src
}

func SetupDatabase(db *gorm.DB) error {
	// Migrate the schema
	if err := db.AutoMigrate(
		&entity.User{}, &entity.Session{},
		&entity.Cart{}, &entity.CartLine{},
		&entity.Order{}, &entity.OrderLine{},
		&entity.Favorite{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
