package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"tourbook/internal/auth"
	"tourbook/internal/config"
	"tourbook/internal/domain"
	"tourbook/internal/repository/postgres"
)

func main() {
	initSchema := flag.Bool("init", false, "create tables and indexes")
	seed := flag.Bool("seed", false, "upsert the default vehicle categories")
	tokenFor := flag.String("token-for", "", "print a bearer token for this user id")
	role := flag.String("role", string(domain.RoleTourist), "role embedded in the printed token")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	cfg := config.Load()

	if *tokenFor != "" {
		if err := printToken(cfg.Auth, *tokenFor, domain.Role(*role)); err != nil {
			log.Fatal(err)
		}
	}

	if !*initSchema && !*seed {
		if *tokenFor == "" {
			flag.Usage()
			os.Exit(2)
		}
		return
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		databaseURL = cfg.Database.DSN()
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	if *initSchema {
		log.Println("Initializing database schema...")
		if err := postgres.InitSchema(ctx, db); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		log.Println("Schema ready.")
	}

	if *seed {
		log.Println("Seeding vehicle categories...")
		if err := postgres.SeedCategories(ctx, db, domain.DefaultVehicleCategories()); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		log.Println("Seeding complete.")
	}
}

func printToken(cfg config.AuthConfig, userID string, role domain.Role) error {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	token, err := tokens.Issue(userID, role)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
