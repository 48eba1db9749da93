// Command admin grants and revokes administrator rights from the shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/repository"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  admin promote <user_id>     - Promote user to admin")
	fmt.Println("  admin demote <user_id>      - Demote user from admin")
	fmt.Println("  admin list-admins           - List all admins")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	switch command := os.Args[1]; command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: admin %s <user_id>\n", command)
			os.Exit(1)
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid user id %q\n", os.Args[2])
			os.Exit(1)
		}
		if err := setAdmin(ctx, users, uint(id), command == "promote"); err != nil {
			log.Fatal(err)
		}

	case "list-admins":
		if err := listAdmins(ctx, users); err != nil {
			log.Fatal(err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

func setAdmin(ctx context.Context, users repository.UserRepository, id uint, admin bool) error {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return fmt.Errorf("user with ID %d not found", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.IsAdmin == admin {
		state := "not an admin"
		if admin {
			state = "already an admin"
		}
		fmt.Printf("User %s (ID: %d) is %s\n", user.Name, user.ID, state)
		return nil
	}

	if err := users.SetAdmin(ctx, id, admin); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	verb := "demoted"
	if admin {
		verb = "promoted"
	}
	fmt.Printf("Successfully %s %s (ID: %d)\n", verb, user.Name, user.ID)
	return nil
}

func listAdmins(ctx context.Context, users repository.UserRepository) error {
	admins, err := users.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch admins: %w", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found")
		return nil
	}

	fmt.Println("Current admins:")
	for _, a := range admins {
		fmt.Printf("ID: %d | Name: %s | Email: %s\n", a.ID, a.Name, a.Email)
	}
	return nil
}
