// Command migrate runs schema operations for the backend. Outside production the
// server migrates on connect; production deploys run "migrate up" instead.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/database"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate/main.go <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("migrations applied")
	case "status":
		for _, line := range schemaStatus(db) {
			log.Println(line)
		}
	default:
		return usage()
	}
	return nil
}

// schemaStatus reports, per persistent model, whether its table exists.
func schemaStatus(db *gorm.DB) []string {
	migrator := db.Migrator()
	var lines []string
	for _, model := range database.PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		name := fmt.Sprintf("%T", model)
		if err := stmt.Parse(model); err == nil {
			name = stmt.Schema.Table
		}
		state := "missing"
		if migrator.HasTable(model) {
			state = "present"
		}
		lines = append(lines, fmt.Sprintf("%-20s %s", name, state))
	}
	return lines
}
