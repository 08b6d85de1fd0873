//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/landbook/landbook/internal/models"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresMigrateAndUniqueViolation(t *testing.T) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("landbook"),
		tcpostgres.WithUsername("landbook"),
		tcpostgres.WithPassword("landbook"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	if IsSQLiteDSN(dsn) {
		t.Fatalf("expected postgres dsn, got %q", dsn)
	}
	conn, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = Close(conn) })
	if DialectName(conn) != "postgres" {
		t.Fatalf("expected postgres dialect, got %q", DialectName(conn))
	}
	if err = Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err = Migrate(conn); err != nil {
		t.Fatalf("second migrate should be a no-op: %v", err)
	}

	user := models.User{Email: "a@example.com", Password: "hash"}
	if err = conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	dup := models.User{Email: "A@example.com", Password: "hash"}
	err = conn.Create(&dup).Error
	if !IsUniqueViolation(err) {
		t.Fatalf("expected case-insensitive email unique violation, got %v", err)
	}

	project := models.Project{Name: "Demo", MobileNumber: "9876543210", UserID: user.ID}
	if err = conn.Create(&project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	raiyat := models.Raiyat{ProjectID: project.ID, Name: "Ram"}
	if err = conn.Create(&raiyat).Error; err != nil {
		t.Fatalf("create raiyat: %v", err)
	}
	err = conn.Create(&models.Raiyat{ProjectID: project.ID, Name: " ram "}).Error
	if !IsUniqueViolation(err) {
		t.Fatalf("expected raiyat name unique violation, got %v", err)
	}

	var found []models.Project
	clause, pattern := ContainsClause(conn, "name", "dem")
	if err = conn.Where(clause, pattern).Find(&found).Error; err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected ILIKE search to match, got %d", len(found))
	}
}
