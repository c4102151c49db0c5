//go:build ignore

// Seeds an admin account. Run with:
//
//	ADMIN_EMAIL=staff@edvora.in ADMIN_PASSWORD=... go run scripts/seed_admin.go
package main

import (
	"log"
	"os"

	"github.com/edvora/edvora-api/internal/configs"
	"github.com/edvora/edvora-api/internal/database"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/pkg/password"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	name := os.Getenv("ADMIN_NAME")
	email := os.Getenv("ADMIN_EMAIL")
	pw := os.Getenv("ADMIN_PASSWORD")
	if email == "" || pw == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if name == "" {
		name = "Admin"
	}

	cfg, err := configs.Load(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	hash, err := password.HashPassword(pw)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	admin := model.Admin{Name: name, Email: email, PasswordHash: hash}
	if err := db.DB.Create(&admin).Error; err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s (%s) created with id %d", admin.Name, admin.Email, admin.ID)
}
