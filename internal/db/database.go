package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fabiofranco85/escala/internal/config"
	"github.com/fabiofranco85/escala/internal/models"
)

type Client struct {
	DB *gorm.DB
}

func New(cfg *config.Config) *Client {
	var dialector gorm.Dialector

	switch cfg.Database.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.Port,
		)
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(cfg.Database.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	// Connection Pool Settings
	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Printf("✅ Database Connected (%s)", cfg.Database.Driver)

	return &Client{DB: db}
}

// AutoMigrate creates/updates tables based on struct definitions
func (c *Client) AutoMigrate() {
	log.Println("Running Database Migrations...")
	err := c.DB.AutoMigrate(
		&models.Song{},
		&models.Setlist{},
		&models.EventType{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("✅ Migrations Complete")
}

// SeedDefaults makes sure the built-in event type exists so generation
// works on a fresh database.
func (c *Client) SeedDefaults(moments models.MomentCounts) {
	var count int64
	c.DB.Model(&models.EventType{}).Where("slug = ?", models.DefaultEventTypeSlug).Count(&count)
	if count > 0 {
		return
	}

	def := models.DefaultEventType(moments)
	if err := c.DB.Create(&def).Error; err != nil {
		log.Printf("⚠️ Could not seed default event type: %v", err)
		return
	}
	log.Printf("✅ Seeded default event type %q", def.Slug)
}
