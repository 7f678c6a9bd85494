package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopsight/backend/internal/infrastructure/config"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/infrastructure/persistence"
	"github.com/shopsight/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel), 0)
	db, err := persistence.NewDatabase(context.Background(), &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	switch command {
	case "up":
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Schema migration failed", zap.Error(err))
		}
		log.Info("Schema is up to date")

	case "status":
		missing := 0
		for name, present := range schemaStatus(db.DB) {
			if !present {
				missing++
			}
			log.Info("Table", zap.String("name", name), zap.Bool("present", present))
		}
		if missing > 0 {
			log.Warn("Schema incomplete, run 'migrate up'", zap.Int("missing", missing))
			os.Exit(2)
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func schemaStatus(db *gorm.DB) map[string]bool {
	out := make(map[string]bool)
	stmt := &gorm.Statement{DB: db}
	for _, model := range models.All() {
		if err := stmt.Parse(model); err != nil {
			continue
		}
		out[stmt.Schema.Table] = db.Migrator().HasTable(model)
	}
	return out
}

func printUsage() {
	fmt.Println(`ShopSight schema tool

Usage:
  migrate [flags] <command>

Commands:
  up        Create or update every table and index
  status    Report which tables exist

Flags:
  -log-level string     Log level (default: info)

Environment:
  SHOPSIGHT_DATABASE_HOST, SHOPSIGHT_DATABASE_PORT, SHOPSIGHT_DATABASE_USER,
  SHOPSIGHT_DATABASE_PASSWORD, SHOPSIGHT_DATABASE_DBNAME, SHOPSIGHT_DATABASE_SSLMODE`)
}
