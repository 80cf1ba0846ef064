package database

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnold/taskboard-api/internal/config"
	"github.com/arnold/taskboard-api/internal/logging"
	"github.com/arnold/taskboard-api/internal/models"
)

// Connect opens the database named by cfg.DatabaseURL: PostgreSQL if the URL starts with
// postgres, otherwise SQLite.
func Connect(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.IsPostgres() {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	sqlLogger := logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logging.SQLLevel(cfg.Log.SQLLevel),
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(dialector, GormConfig(sqlLogger))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.IsPostgres() {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		// SQLite has no row locks; a single connection serializes writers.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func GormConfig(l logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:                                   l,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Membership{},
		&models.ProjectInvite{},
		&models.Board{},
		&models.Column{},
		&models.Task{},
		&models.Activity{},
	)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
