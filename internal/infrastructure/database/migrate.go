package database

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},

		// CRM entities
		&entity.Customer{},
		&entity.Interaction{},
		&entity.ReminderRead{},

		// Catalog and orders
		&entity.Product{},
		&entity.Order{},
		&entity.OrderItem{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the super admin user when ADMIN_EMAIL and ADMIN_PASSWORD are set
func SeedDefaultData(db *gorm.DB, log zerolog.Logger) error {
	adminEmail := strings.ToLower(viper.GetString("ADMIN_EMAIL"))
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Info().Str("email", adminEmail).Msg("Super admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if adminName == "" {
		adminName = "superadmin"
	}

	admin := entity.User{
		Username:    adminName,
		Email:       adminEmail,
		Password:    string(hashedPassword),
		Role:        enum.UserRoleSuperAdmin,
		CompanyName: "OrderDesk",
		IsActive:    true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create super admin user: %w", err)
	}

	log.Info().Str("email", adminEmail).Msg("Super admin user created")
	return nil
}
