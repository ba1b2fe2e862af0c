package database

import (
	"fmt"
	"time"

	"github.com/SeakMengs/AutoActa/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dsn(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DB_HOST, cfg.DB_USERNAME, cfg.DB_PASSWORD, cfg.DB_DATABASE, cfg.DB_PORT)
}

// ConnectReturnGormDB opens a postgres connection and applies the pool settings.
func ConnectReturnGormDB(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
	gormCfg := &gorm.Config{TranslateError: true}
	if debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(dsn(cfg)), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	idle, err := time.ParseDuration(cfg.MaxIdleTime)
	if err != nil {
		idle = 15 * time.Minute
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(idle)

	return db, nil
}
