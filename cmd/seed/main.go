// Command seed creates an admin account or rotates its password.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/satriastudio/studio-be/internal/auth"
	"github.com/satriastudio/studio-be/internal/config"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()
	logging.Init(config.AppName + "-seed")
	log := logging.Logger

	username := flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username (or ADMIN_USERNAME)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (or ADMIN_PASSWORD)")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	user := strings.TrimSpace(*username)
	if user == "" || *password == "" {
		log.Fatal("both username and password are required; there is no default admin")
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := postgres.NewStore(ctx, dbURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	hash, err := auth.HashPassword(*password, *cost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	admin, err := store.UpsertAdmin(ctx, models.Admin{Username: user, PasswordHash: hash})
	if err != nil {
		log.Fatalf("upsert admin: %v", err)
	}
	log.WithField("admin_id", admin.ID).Infof("admin %q is ready", admin.Username)
}
