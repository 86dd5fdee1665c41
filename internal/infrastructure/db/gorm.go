package db

import (
	"strings"
	"time"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenGorm(dsn, logLevel string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), logLevel)
}

// OpenGormWithDialector applies the pool settings and pings once.
func OpenGormWithDialector(dial gorm.Dialector, logLevel string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               logger.Default.LogMode(ParseLogLevel(logLevel)),
		DisableAutomaticPing: true,
		NowFunc:              func() time.Time { return time.Now().UTC() },
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Migrate creates or updates the customers and loans tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&customer.Customer{}, &loan.Loan{})
}
