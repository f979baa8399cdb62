package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var prioritiesData = []struct {
	Name   string
	Weight int
}{
	{Name: "High", Weight: 1},
	{Name: "Medium", Weight: 2},
	{Name: "Low", Weight: 3},
}

var categoriesData = []struct {
	Name  string
	IsAMS bool
}{
	{Name: "Incident", IsAMS: true},
	{Name: "Service Request", IsAMS: true},
	{Name: "Improvement", IsAMS: true},
	{Name: "Internal Task", IsAMS: false},
}

var statusesData = []struct {
	Name          string
	StatusGroupID int
}{
	{Name: "New", StatusGroupID: 1},
	{Name: "In Progress", StatusGroupID: 2},
	{Name: "Waiting for Customer", StatusGroupID: 3},
	{Name: "Waiting for Vendor", StatusGroupID: 3},
	{Name: "Resolved", StatusGroupID: 4},
	{Name: "Closed", StatusGroupID: 4},
}

var ticketTypesData = []string{"Error", "Question", "Change"}

// SeedReferenceData fills the lookup tables the portal cannot run without.
// Every insert is idempotent on the name.
func SeedReferenceData(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding reference data...")

	if err := seedPriorities(ctx, db); err != nil {
		log.Fatalf("seeding priorities: %v", err)
	}
	if err := seedCategories(ctx, db); err != nil {
		log.Fatalf("seeding ticket categories: %v", err)
	}
	if err := seedStatuses(ctx, db); err != nil {
		log.Fatalf("seeding ticket statuses: %v", err)
	}
	if err := seedTicketTypes(ctx, db); err != nil {
		log.Fatalf("seeding ticket types: %v", err)
	}

	log.Println("reference data seeded")
}

func seedPriorities(ctx context.Context, db *pgxpool.Pool) error {
	for _, p := range prioritiesData {
		var existing string
		err := db.QueryRow(ctx, "SELECT id FROM priorities WHERE name = $1", p.Name).Scan(&existing)
		if err == nil {
			continue
		}
		if _, err := db.Exec(ctx,
			"INSERT INTO priorities (id, name, weight) VALUES ($1, $2, $3)",
			uuid.NewString(), p.Name, p.Weight); err != nil {
			return fmt.Errorf("inserting priority %q: %w", p.Name, err)
		}
	}
	return nil
}

func seedCategories(ctx context.Context, db *pgxpool.Pool) error {
	for _, c := range categoriesData {
		var existing string
		err := db.QueryRow(ctx, "SELECT id FROM ticket_categories WHERE name = $1", c.Name).Scan(&existing)
		if err == nil {
			continue
		}
		if _, err := db.Exec(ctx,
			"INSERT INTO ticket_categories (id, name, is_ams) VALUES ($1, $2, $3)",
			uuid.NewString(), c.Name, c.IsAMS); err != nil {
			return fmt.Errorf("inserting category %q: %w", c.Name, err)
		}
	}
	return nil
}

func seedStatuses(ctx context.Context, db *pgxpool.Pool) error {
	for _, s := range statusesData {
		var existing string
		err := db.QueryRow(ctx, "SELECT id FROM ticket_statuses WHERE name = $1", s.Name).Scan(&existing)
		if err == nil {
			continue
		}
		if _, err := db.Exec(ctx,
			"INSERT INTO ticket_statuses (id, name, status_group_id) VALUES ($1, $2, $3)",
			uuid.NewString(), s.Name, s.StatusGroupID); err != nil {
			return fmt.Errorf("inserting status %q: %w", s.Name, err)
		}
	}
	return nil
}

func seedTicketTypes(ctx context.Context, db *pgxpool.Pool) error {
	for _, name := range ticketTypesData {
		var existing string
		err := db.QueryRow(ctx, "SELECT id FROM ticket_types WHERE name = $1", name).Scan(&existing)
		if err == nil {
			continue
		}
		if _, err := db.Exec(ctx,
			"INSERT INTO ticket_types (id, name) VALUES ($1, $2)",
			uuid.NewString(), name); err != nil {
			return fmt.Errorf("inserting ticket type %q: %w", name, err)
		}
	}
	return nil
}
