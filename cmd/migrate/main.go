package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"ms-eventplatform/internal/config"
	"ms-eventplatform/internal/database/migrations"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"

	"github.com/shopspring/decimal"
)

const usage = `usage: migrate [-dir ./migrations] <command>

commands:
  up          apply all pending migrations (CreateSchema on non-PostgreSQL databases)
  down        roll back every migration
  to N        migrate to version N
  version     print the applied version
  seed        insert sample data`

func main() {
	dir := flag.String("dir", "", "migrations directory (defaults to MIGRATIONS_DIR or ./migrations)")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Options{Service: "migrate", Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect: %v", err))
	}

	opts := migrations.DefaultOptions()
	if cfg.Database.MigrationsDir != "" {
		opts.MigrationsDir = cfg.Database.MigrationsDir
	}
	if *dir != "" {
		opts.MigrationsDir = *dir
	}

	if err := run(ctx, db, opts, log, flag.Args()); err != nil {
		log.Fatal("MIGRATE", err.Error())
	}
}

func run(ctx context.Context, db *storage.DB, opts migrations.MigrateOptions, log *logger.Logger, args []string) error {
	if args[0] == "seed" {
		defer db.Close()
		return seed(ctx, db, log)
	}

	if db.Dialect != storage.DialectPostgres {
		defer db.Close()
		if args[0] != "up" {
			return fmt.Errorf("%q needs PostgreSQL; %s only supports up", args[0], db.Dialect)
		}
		log.Info("MIGRATE", fmt.Sprintf("%s has no migration files, creating tables from models", db.Dialect))
		return storage.CreateSchema(ctx, db)
	}

	// Closing the runner also closes db.
	runner := migrations.NewRunner(db.Bun, opts, log)
	defer runner.Close()

	switch args[0] {
	case "up":
		return runner.MigrateUp()
	case "down":
		return runner.MigrateDown()
	case "to":
		if len(args) < 2 {
			return fmt.Errorf("to needs a version")
		}
		v, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("bad version %q: %w", args[1], err)
		}
		return runner.MigrateTo(uint(v))
	case "version":
		v, dirty, err := runner.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// seed inserts one of everything so the API has something to show.
func seed(ctx context.Context, db *storage.DB, log *logger.Logger) error {
	location := &models.Location{Name: "Harbour Hall", Address: "1 Quay Street, Porto", Capacity: 800}
	if err := storage.NewTable[models.Location](db).Create(ctx, location); err != nil {
		return fmt.Errorf("seed location: %w", err)
	}

	if err := storage.NewTable[models.Category](db).Create(ctx, &models.Category{Name: "Music"}); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	organizer := &models.User{Name: "Alice Wonderland", Email: "alice@example.com", UserType: models.UserTypeOrganizer, Status: models.UserStatusActive}
	if err := storage.NewTable[models.User](db).Create(ctx, organizer); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	event := &models.Event{
		Name:                  "Summer Fest",
		Date:                  time.Now().AddDate(0, 1, 0).UTC(),
		Category:              "Music",
		Capacity:              500,
		EventStatus:           models.EventStatusDraft,
		MaxTicketsPerPurchase: 10,
		OrganizerID:           &organizer.ID,
		LocationID:            location.ID,
	}
	if err := storage.NewTable[models.Event](db).Create(ctx, event); err != nil {
		return fmt.Errorf("seed event: %w", err)
	}

	ticketType := &models.TicketType{Name: "General Admission", Price: decimal.RequireFromString("45.00"), Quantity: 400, EventID: event.ID}
	if err := storage.NewTable[models.TicketType](db).Create(ctx, ticketType); err != nil {
		return fmt.Errorf("seed ticket type: %w", err)
	}

	log.Info("MIGRATE", fmt.Sprintf("Seeded event %d with ticket type %d", event.ID, ticketType.ID))
	return nil
}
