// Package main provides account administration utilities for Inkwell.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/security"
	"inkwell/internal/service"

	"gorm.io/gorm"
)

var errUsage = errors.New(`usage:
  go run ./cmd/admin/main.go promote <user_id>      - grant staff and superuser
  go run ./cmd/admin/main.go demote <user_id>       - revoke staff and superuser
  go run ./cmd/admin/main.go list-admins            - list all superusers
  go run ./cmd/admin/main.go activate <user_id>     - allow login
  go run ./cmd/admin/main.go deactivate <user_id>   - block login
  go run ./cmd/admin/main.go purge-tokens           - drop expired blacklist rows`)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(errUsage)
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
	defer func() { _ = database.Close(db) }()

	if err := run(context.Background(), db, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Println(err)
			os.Exit(1)
		}
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, db *gorm.DB, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	users := service.NewUserService(repository.NewUserRepository(db))

	switch args[0] {
	case "promote", "demote", "activate", "deactivate":
		if len(args) < 2 {
			return errUsage
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid user id %q", args[1])
		}
		return setFlag(ctx, users, args[0], uint(id), out)

	case "list-admins":
		return listAdmins(ctx, db, out)

	case "purge-tokens":
		n, err := security.NewGormBlacklist(db).PurgeExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d expired blacklist entries\n", n)
		return nil

	default:
		return errUsage
	}
}

func setFlag(ctx context.Context, users *service.UserService, command string, id uint, out io.Writer) error {
	var (
		user *models.User
		err  error
	)
	switch command {
	case "promote":
		user, err = users.SetAdmin(ctx, id, true)
	case "demote":
		user, err = users.SetAdmin(ctx, id, false)
	case "activate":
		user, err = users.SetActive(ctx, id, true)
	case "deactivate":
		user, err = users.SetActive(ctx, id, false)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %s (ID: %d) staff=%t superuser=%t active=%t\n",
		command, user.Username, user.ID, user.IsStaff, user.IsSuperuser, user.IsActive)
	return nil
}

func listAdmins(ctx context.Context, db *gorm.DB, out io.Writer) error {
	var admins []models.User
	if err := db.WithContext(ctx).Where("is_superuser = ?", true).Order("id ASC").Find(&admins).Error; err != nil {
		return fmt.Errorf("fetch admins: %w", err)
	}

	if len(admins) == 0 {
		fmt.Fprintln(out, "No admins found")
		return nil
	}
	for _, admin := range admins {
		fmt.Fprintf(out, "ID: %d | Username: %s | Email: %s | Active: %t\n",
			admin.ID, admin.Username, admin.Email, admin.IsActive)
	}
	return nil
}
