package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"operator/models"
)

func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Chat{},
		&models.Message{},
		&models.Bot{},
		&models.APIKey{},
		&models.CustomModel{},
		&models.Settings{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	fmt.Println("Migrations completed")
}
