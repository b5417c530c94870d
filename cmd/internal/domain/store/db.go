package store

import (
	"fmt"
	"gatherbeat/cmd/internal/domain/entity"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Options struct {
	Driver      string
	Path        string // sqlite only
	DSN         string // mysql only
	MaxConns    int
	AutoMigrate bool
}

// MySQLDSN builds a go-sql-driver DSN from the discrete connection parameters.
func MySQLDSN(host, user, password, database string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC", user, password, host, database)
}

func Init(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(opts.Path)
	case DriverMySQL:
		dialector = mysql.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	if opts.AutoMigrate {
		if err = db.AutoMigrate(&entity.Account{}); err != nil {
			return nil, fmt.Errorf("migrate accounts: %w", err)
		}
	}

	maxConns := opts.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
