package seeders

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams-portal/internal/entities"
	"ams-portal/pkg/config"
	"ams-portal/pkg/utils"
)

// SeedAdmin creates the bootstrap administrator account if it does not
// exist yet. Credentials come from the environment so nothing secret is
// hardcoded here.
func SeedAdmin(db *pgxpool.Pool, cfg *config.Config) {
	ctx := context.Background()

	email := cfg.Seed.AdminEmail
	if email == "" {
		log.Println("SEED_ADMIN_EMAIL not set, skipping admin seeding")
		return
	}

	var existing string
	if err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&existing); err == nil {
		log.Printf("admin user %s already exists, skipping", email)
		return
	}

	hashed, err := utils.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		log.Fatalf("hashing admin password: %v", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO users (id, name, email, password, role, is_client, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, TRUE, NOW(), NOW())`,
		uuid.NewString(), "Administrator", email, hashed, int(entities.RoleAdministrator))
	if err != nil {
		log.Fatalf("inserting admin user: %v", err)
	}
	log.Printf("admin user %s created", email)
}
