package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"burgerexpress/internal/admin"
	"burgerexpress/internal/config"
	"burgerexpress/internal/db"
	applog "burgerexpress/internal/log"
	"burgerexpress/internal/restock"
	"burgerexpress/internal/store"
)

var (
	loadConfigFunc  = config.Load
	openBackendFunc = openBackend
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import_stock <delivery-note.{csv,txt,pdf}>")
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, notePath string, out io.Writer) error {
	if strings.TrimSpace(notePath) == "" {
		return fmt.Errorf("delivery note path must not be empty")
	}

	info, err := os.Stat(notePath)
	if err != nil {
		return fmt.Errorf("locate delivery note: %w", err)
	}
	if info.Size() > restock.MaxUploadSize {
		return fmt.Errorf("delivery note exceeds %d bytes", restock.MaxUploadSize)
	}

	data, err := os.ReadFile(notePath)
	if err != nil {
		return fmt.Errorf("read delivery note: %w", err)
	}
	lines, rejected, err := restock.Parse(data, restock.MimeTypeFromName(notePath))
	if err != nil {
		return fmt.Errorf("parse delivery note: %w", err)
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	backend, err := openBackendFunc(cfg)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}

	service := admin.NewService(store.New(backend), nil)
	result, err := service.Restock(ctx, lines)
	if err != nil {
		return err
	}
	applog.Info(ctx, "delivery note imported", "path", notePath, "applied", len(result.Applied), "unknown", len(result.Unknown), "rejected", len(rejected))

	for _, line := range result.Applied {
		fmt.Fprintf(out, "+%d %s\n", line.Quantity, line.Ingredient)
	}
	for _, name := range result.Unknown {
		fmt.Fprintf(out, "unknown ingredient: %s\n", name)
	}
	for _, line := range result.Overflow {
		fmt.Fprintf(out, "%s not restocked: +%d exceeds the stock limit\n", line.Ingredient, line.Quantity)
	}
	for _, line := range rejected {
		fmt.Fprintf(out, "line %d rejected (%s): %s\n", line.Line, line.Reason, line.Text)
	}
	fmt.Fprintf(out, "%d ingredient(s) restocked\n", len(result.Applied))
	return nil
}

func openBackend(cfg config.Config) (store.Backend, error) {
	if cfg.Storage.Driver != config.StorageDriverDatabase {
		return store.NewFileBackend(cfg.Storage.DataDir)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return store.NewGormBackend(database)
}
