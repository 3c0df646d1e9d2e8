package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reddigram/config"
	"reddigram/models"
)

var DB *gorm.DB

func Start() {
	connectionString := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True",
		config.Env.DBUser, config.Env.DBPassword,
		config.Env.DBHost, config.Env.DBPort,
		config.Env.DBName,
	)
	db, err := gorm.Open(mysql.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	DB = db
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatalf("failed to get database connection: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	err = sqlDB.Ping()
	if err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	err = migrateDatabase()
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
}

func migrateDatabase() error {
	return DB.AutoMigrate(
		&models.SentPost{},
	)
}
