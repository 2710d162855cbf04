package database

import (
	"fmt"
	"log"

	"mandi-backend/config"
	"mandi-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB is the global database instance shared by the controllers.
var DB *gorm.DB

// ConnectDatabase opens the MySQL connection and migrates all tables.
func ConnectDatabase(cfg *config.Config) {
	var err error
	DB, err = gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("✅ Database connected successfully!")

	err = DB.AutoMigrate(&models.MarketPrice{}, &models.Vendor{}, &models.Purchase{}, &models.Inventory{})
	if err != nil {
		log.Fatalf("❌ Failed to migrate the database: %v\n", err)
	}
	fmt.Println("✅ Database migrated successfully!")
}
