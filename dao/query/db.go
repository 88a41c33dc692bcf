package query

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/pkg/config"
	"github.com/loopwork/taskboard/pkg/logutils"
)

var (
	once     sync.Once
	instance *gorm.DB
)

// GetDB returns the singleton database connection, running pending
// migrations on first use.
func GetDB() *gorm.DB {
	once.Do(func() {
		dbConfig := config.GetConfig()

		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			dbConfig.Postgres.Host, dbConfig.Postgres.User, dbConfig.Postgres.Password,
			dbConfig.Postgres.DBName, dbConfig.Postgres.Port, dbConfig.Postgres.SSLMode,
			dbConfig.Postgres.TimeZone)

		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			panic(err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)

		if err := migrate(db); err != nil {
			panic(err)
		}

		instance = db
		logutils.Log.Info("Postgres init success!")
	})
	return instance
}

func migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202608_initial_schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&model.User{},
					&model.Project{},
					&model.Membership{},
					&model.Task{},
					&model.AuditLog{},
					&model.Notification{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"notifications", "audit_logs", "tasks",
					"memberships", "projects", "users",
				)
			},
		},
	})
	return m.Migrate()
}
