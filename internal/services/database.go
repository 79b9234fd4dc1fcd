package services

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sekolahku_echo/internal/models"
)

// InitDB initializes the database connection with connection pooling
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db, nil
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.School{},
		&models.SchoolMembership{},
		&models.Price{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.LedgerEntry{},
		&models.Subscription{},
		&models.AppConfig{},
		&models.CheckoutSession{},
		&models.PaymentGatewayEvent{},
		&models.UserNotifPreference{},
		&models.ScheduledJob{},
		&models.ScheduledJobHistory{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migrations completed")
	return nil
}

// LoadAppConfig fetches the singleton config row, creating it with defaults
// on first access.
func LoadAppConfig(db *gorm.DB) (models.AppConfig, error) {
	var cfg models.AppConfig
	err := db.Where("id = ?", models.AppConfigID).First(&cfg).Error
	if err == nil {
		return cfg, nil
	}
	if err != gorm.ErrRecordNotFound {
		return cfg, err
	}

	cfg = models.DefaultAppConfig()
	if err := db.Create(&cfg).Error; err != nil {
		return cfg, err
	}
	return cfg, nil
}
