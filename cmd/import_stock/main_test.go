package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"burgerexpress/internal/config"
	"burgerexpress/internal/db/mock"
	"burgerexpress/internal/store"
)

func withConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	original := loadConfigFunc
	loadConfigFunc = func() (config.Config, error) { return cfg, nil }
	t.Cleanup(func() { loadConfigFunc = original })
}

func writeNote(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	return path
}

func TestRunRestocksFileStore(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	backend, err := store.NewFileBackend(dataDir)
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	if err := store.Seed(context.Background(), backend); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	withConfig(t, config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverFile, DataDir: dataDir}})

	note := writeNote(t, "delivery.csv", "ingredient;quantity\nCheddar;50\nTruffle;2\nTomato;-1\n")
	var out bytes.Buffer
	if err := run(context.Background(), note, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, token := range []string{"+50 Cheddar", "unknown ingredient: Truffle", "line 4 rejected", "1 ingredient(s) restocked"} {
		if !strings.Contains(out.String(), token) {
			t.Fatalf("expected output to contain %q: %s", token, out.String())
		}
	}

	for _, ingredient := range store.New(backend).Ingredients(context.Background()) {
		if ingredient.Name == "Cheddar" && ingredient.Stock != 250 {
			t.Fatalf("expected Cheddar stock 250, got %d", ingredient.Stock)
		}
	}
}

func TestRunRestocksMockDatabase(t *testing.T) {
	database, err := mock.New(context.Background())
	if err != nil {
		t.Fatalf("mock.New returned error: %v", err)
	}
	backend, err := store.NewGormBackend(database)
	if err != nil {
		t.Fatalf("NewGormBackend() error = %v", err)
	}

	original := openBackendFunc
	openBackendFunc = func(config.Config) (store.Backend, error) { return backend, nil }
	t.Cleanup(func() { openBackendFunc = original })
	withConfig(t, config.Config{})

	repo := store.New(backend)
	before := map[string]int{}
	for _, ingredient := range repo.Ingredients(context.Background()) {
		before[ingredient.Name] = ingredient.Stock
	}

	note := writeNote(t, "delivery.txt", "Potato Sticks\t10\n")
	var out bytes.Buffer
	if err := run(context.Background(), note, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, ingredient := range repo.Ingredients(context.Background()) {
		if ingredient.Name == "Potato Sticks" && ingredient.Stock != before["Potato Sticks"]+10 {
			t.Fatalf("expected Potato Sticks to gain 10, got %d (was %d)", ingredient.Stock, before["Potato Sticks"])
		}
	}
}

func TestRunRejectsMissingAndUnsupportedNotes(t *testing.T) {
	withConfig(t, config.Config{})

	if err := run(context.Background(), "", &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for empty path")
	}
	if err := run(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for missing file")
	}
	note := writeNote(t, "delivery.pdf", "not a pdf")
	if err := run(context.Background(), note, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unreadable pdf")
	}
}
