package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"watermark-service/internal/config"
	"watermark-service/internal/repository/postgres"
)

const schemaPath = "database/schema.sql"

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Println("=== Setting Up Database ===")
	fmt.Println()

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database")

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("Failed to read schema file: %v", err)
	}

	fmt.Println("Executing schema...")
	if _, err := db.Pool.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("Failed to execute schema: %v", err)
	}

	fmt.Println("Schema executed successfully")
	fmt.Println()

	fmt.Println("=== Verifying Tables ===")
	for _, table := range []string{"assets", "asset_shares"} {
		var regclass *string
		err := db.Pool.QueryRow(context.Background(), "SELECT to_regclass($1)::text", table).Scan(&regclass)
		if err != nil || regclass == nil {
			log.Fatalf("Table %q missing after setup", table)
		}
		fmt.Printf("Table %q present\n", table)
	}

	fmt.Println()
	fmt.Println("Database setup complete")
}
