package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/edvora/edvora-api/internal/configs"
	"github.com/edvora/edvora-api/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Database struct {
	DB     *gorm.DB
	config *configs.Config
}

func Connect(cfg *configs.Config) (*Database, error) {
	logMode := gormLogger.Info
	if cfg.Env.CurrentEnv == "production" {
		logMode = gormLogger.Silent
	}

	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN()), &gorm.Config{
		Logger: gormLogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	d := &Database{DB: db, config: cfg}

	if cfg.DB.Migrate {
		if err := d.Migrate(); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		log.Println("Database migration complete")
	}

	return d, nil
}

func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(model.Tables()...)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) HealthCheck(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}
	return sqlDB.PingContext(ctx)
}
