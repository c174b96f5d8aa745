package database

import (
	"os"
	"path/filepath"

	"marksbot/internal/config"
	"marksbot/internal/model"

	"github.com/phuslu/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func InitDB() *gorm.DB {
	var dialector gorm.Dialector
	if config.DBDriver == "postgres" {
		dsn := "host=" + config.DBHost + " user=" + config.DBUser + " password=" + config.DBPassword +
			" dbname=" + config.DBName + " port=" + config.DBPort + " sslmode=disable"
		dialector = postgres.Open(dsn)
	} else {
		if dir := filepath.Dir(config.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatal().Err(err).Str("dir", dir).Msg("failed to create database directory")
			}
		}
		dialector = sqlite.Open(config.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Str("driver", config.DBDriver).Msg("failed to connect to the database")
	}

	if err := db.AutoMigrate(&model.MarkRecord{}, &model.SubjectAlias{}); err != nil {
		log.Fatal().Err(err).Msg("failed to auto-migrate the database")
	}

	return db
}
