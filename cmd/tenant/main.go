// Command tenant administers storefront installations: the install side of
// the tenant rows webhook resolution reads.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	identityapp "github.com/shopsight/backend/internal/application/identity"
	"github.com/shopsight/backend/internal/infrastructure/config"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

const commandTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command, args := os.Args[1], os.Args[2:]

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
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
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	db, err := persistence.NewDatabase(ctx, &cfg.Database, nil)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	svc := identityapp.NewTenantService(persistence.NewGormTenantRepository(db.DB), log)

	var result any
	switch command {
	case "install":
		fs := flag.NewFlagSet("install", flag.ExitOnError)
		domain := fs.String("domain", "", "store domain, e.g. acme.myshopify.com (required)")
		name := fs.String("name", "", "display name (default: the domain)")
		token := fs.String("token", "", "platform access token")
		_ = fs.Parse(args)
		result, err = svc.Install(ctx, identityapp.InstallTenantInput{
			Domain:      *domain,
			Name:        *name,
			AccessToken: *token,
		})

	case "deactivate":
		fs := flag.NewFlagSet("deactivate", flag.ExitOnError)
		domain := fs.String("domain", "", "store domain (required)")
		_ = fs.Parse(args)
		result, err = svc.Deactivate(ctx, *domain)

	case "list":
		result, err = svc.List(ctx)

	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Command failed", zap.String("command", command), zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal("Failed to write result", zap.Error(err))
	}
}

func printUsage() {
	fmt.Println(`ShopSight tenant administration

Usage:
  tenant install -domain <domain> [-name <name>] [-token <token>]
  tenant deactivate -domain <domain>
  tenant list`)
}
