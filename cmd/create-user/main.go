package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/medprep/medprep-backend/internal/config"
	"github.com/medprep/medprep-backend/internal/database"
	"github.com/medprep/medprep-backend/internal/logger"
	"github.com/medprep/medprep-backend/internal/model"
	"github.com/medprep/medprep-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New User ===")

	// External ID
	fmt.Print("Enter External ID: ")
	externalID, _ := reader.ReadString('\n')
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		fmt.Println("Error: External ID is required")
		return
	}

	// Display Name
	fmt.Print("Enter Display Name: ")
	displayName, _ := reader.ReadString('\n')
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		fmt.Println("Error: Display Name is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	// Roles
	fmt.Print("Enter Roles (comma-separated, e.g. admin): ")
	rolesStr, _ := reader.ReadString('\n')
	roles := []string{}
	for _, part := range strings.Split(rolesStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}

	// ─── Logic ─────────────────────────────────────────────────────────

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	hash := string(hashedPassword)
	newUser := &model.User{
		ExternalID:   externalID,
		DisplayName:  displayName,
		Roles:        roles,
		PasswordHash: &hash,
	}

	if err := userRepo.Create(ctx, newUser); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("\nSuccess! User '%s' (%s) created with ID: %s\n", newUser.DisplayName, newUser.ExternalID, newUser.ID)
}
