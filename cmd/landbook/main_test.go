package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePort(t *testing.T) {
	for _, port := range []int{1, 8080, 65535} {
		if err := validatePort(port); err != nil {
			t.Fatalf("port %d: unexpected error %v", port, err)
		}
	}
	for _, port := range []int{0, -1, 65536} {
		if err := validatePort(port); err == nil {
			t.Fatalf("port %d: expected error", port)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"bogus"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunInitThenMigrate(t *testing.T) {
	t.Setenv("DB_CONNECTION", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("APP_URL", "")

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "land.db")

	if err := run(context.Background(), []string{"init", "-config", configPath, "-db-path", dbPath}); err != nil {
		t.Fatalf("init: %v", err)
	}
	missingEnv := filepath.Join(dir, "missing.env")
	if err := run(context.Background(), []string{"migrate", "-config", configPath, "-env", missingEnv}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}
