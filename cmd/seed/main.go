// seed inserts a verified test user into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/convoo/convoo-backend/internal/domain"
	"github.com/convoo/convoo-backend/internal/infrastructure/mongodb"
	"github.com/convoo/convoo-backend/internal/security"
)

const (
	seedEmail    = "seed@test.local"
	seedName     = "Seed User"
	seedPassword = "password123"
)

func main() {
	ctx := context.Background()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Fatal("MONGODB_URI is not set — run: direnv allow")
	}
	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "convoo"
	}

	db, err := mongodb.Connect(ctx, uri, dbName)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close(ctx)

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatalf("indexes: %v", err)
	}

	hash, err := security.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := &domain.User{Email: seedEmail, FullName: seedName, PasswordHash: hash}
	switch err := users.Insert(ctx, user); {
	case err == nil:
		fmt.Println("Seed complete")
	case errors.Is(err, domain.ErrEmailTaken):
		fmt.Println("Seed user already exists, nothing to do")
		existing, findErr := users.FindByEmail(ctx, seedEmail)
		if findErr != nil {
			log.Fatalf("find seed user: %v", findErr)
		}
		user = existing
	default:
		log.Fatalf("insert user: %v", err)
	}

	fmt.Println()
	fmt.Printf("  User:     %s\n", seedEmail)
	fmt.Printf("  User ID:  %s\n", user.ID)
	fmt.Printf("  Password: %s\n", seedPassword)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Sign in (the session lands in the jwt cookie):")
	fmt.Println()
	fmt.Printf("    curl -s -c cookies.txt -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  Then call a protected route:")
	fmt.Println()
	fmt.Println("    curl -s -b cookies.txt http://localhost:8080/auth/check")
}
