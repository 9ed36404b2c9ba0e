package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"billing-backend/internal/config"
	"billing-backend/internal/db"
	"billing-backend/internal/logger"
)

// Wipes billing data in a development database and seeds one staff user.
// Run with: go run ./scripts/reset_db.go
func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Billing Database")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This deletes all invoices, contracts, expenses, users,")
	fmt.Println("settings and saved view preferences.")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	cfg := config.Load()
	if err := logger.Setup(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to connect to database")
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	tables := []string{"invoices", "contracts", "expenses", "user_preferences", "system_settings", "users"}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("Failed to truncate")
		}
		fmt.Printf("  cleared %s\n", table)
	}
	if _, err := tx.Exec(ctx, "ALTER SEQUENCE invoice_number_seq RESTART WITH 1"); err != nil {
		log.Warn().Err(err).Msg("Failed to reset invoice numbers")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (name, email, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, NOW(), NOW())`,
		"Administrator", "admin@example.com", "admin",
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin user")
	}
	fmt.Println("  created user 1 (admin@example.com)")

	if err := tx.Commit(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to commit reset")
	}

	fmt.Println()
	fmt.Println("Database reset successful.")
}
