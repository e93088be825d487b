package config

import (
	"fmt"
	"os"

	"github.com/jsjcard/eventhub/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

// CollaboratorConfig points at the external services this backend consumes:
// the SSO/identity directory and the email dispatch API.
type CollaboratorConfig struct {
	AuthServerURL string
	EmailAPIURL   string
	EmailSender   string
	SiteURL       string
}

func LoadCollaboratorConfig() (*CollaboratorConfig, error) {
	return &CollaboratorConfig{
		AuthServerURL: os.Getenv("AUTH_SERVER_URL"),
		EmailAPIURL:   os.Getenv("EMAIL_API_URL"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),
		SiteURL:       os.Getenv("SITE_URL"),
	}, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.FieldCategory{},
		&models.ProfileField{},
		&models.Event{},
		&models.Registration{},
		&models.TempUser{},
		&models.AttendanceLog{},
		&models.BoothDecision{},
	)
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}
