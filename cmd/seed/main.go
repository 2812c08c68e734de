package main

import (
	"flag"
	"log"
	"time"

	"skywatch/internal/auth"
	"skywatch/internal/config"
	"skywatch/internal/database"
	"skywatch/internal/models"
	"skywatch/internal/notifications"
	"skywatch/internal/sources"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Seeds the source catalog and optionally creates a user with default
// notification preferences and a ready-to-use token.
func main() {
	handle := flag.String("user", "", "Handle of a user to create (optional)")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(database.LoadConfig())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	registry := sources.NewRegistry(nil)
	if err := registry.Ensure(db); err != nil {
		log.Fatal("Failed to seed sources:", err)
	}
	log.Printf("✅ Source catalog seeded (%d entries)", len(registry.Entries()))

	if *handle == "" {
		return
	}

	var user models.User
	err = db.Where("handle = ?", *handle).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{ID: uuid.New(), Handle: *handle}
		err = db.Create(&user).Error
	}
	if err != nil {
		log.Fatalf("Failed to create user %q: %v", *handle, err)
	}

	// First access materializes the default preference row.
	notifier := notifications.NewService(db, notifications.NewHub())
	if _, err := notifier.GetPreferences(user.ID); err != nil {
		log.Fatalf("Failed to create preferences for %q: %v", *handle, err)
	}

	token, err := auth.NewTokenService(cfg.JWTSecret).Issue(user.ID, 30*24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to issue token for %q: %v", *handle, err)
	}

	log.Printf("✅ User %s ready (id %s)", user.Handle, user.ID)
	log.Printf("Token: %s", token)
}
