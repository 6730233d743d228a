package main

import (
	"log"
	"os"

	"gradus/config"
	"gradus/database"
	"gradus/models"

	"golang.org/x/crypto/bcrypt"
)

// Seeds the first SUPER_ADMIN account from environment variables.
// Run once after provisioning a fresh database:
//
//	SEED_ADMIN_EMAIL=admin@example.com SEED_ADMIN_PASSWORD=... go run scripts/seedAdmin.go
func main() {
	config.LoadConfig()
	database.ConnectDb()

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	name := os.Getenv("SEED_ADMIN_NAME")
	if name == "" {
		name = "Super Admin"
	}

	if email == "" || password == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set")
	}

	db := database.Database.Db

	var existing models.AdminUser
	if err := db.Where("email = ? AND is_deleted = ?", email, false).First(&existing).Error; err == nil {
		log.Printf("Admin %s already exists (id %d), nothing to do", email, existing.ID)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.AdminUser{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     "SUPER_ADMIN",
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Created SUPER_ADMIN %s (id %d)", admin.Email, admin.ID)
}
