package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"invoicegen/internal/models"
	"invoicegen/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL (or connString), applies the schema and
// empties both tables. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
	}
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, connString, 4)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	truncate := func() error {
		_, err := pool.Exec(context.Background(), `TRUNCATE invoices, users`)
		return err
	}
	if err := truncate(); err != nil {
		pool.Close()
		t.Fatalf("Failed to reset test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			defer pool.Close()
			return truncate()
		},
	}
}

// SetupTestUser inserts a user with a unique email and returns it
func SetupTestUser(t *testing.T, db *TestDB, name string) *models.User {
	t.Helper()

	user := NewUser(name)
	query := `
		INSERT INTO users (id, name, email, password, business_name, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.BusinessName, user.Address, user.Phone,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// NewUser builds an unsaved user with a unique email.
func NewUser(name string) *models.User {
	id := uuid.New()
	return &models.User{
		ID:           id,
		Name:         name,
		Email:        id.String()[:8] + "@example.test",
		PasswordHash: "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z7XgsqgnNUm5uyoI6ZqVHjG2",
		BusinessName: name + " Studio",
	}
}

// NewInvoice builds an unsaved invoice for owner with two line items and computed totals.
func NewInvoice(ownerID uuid.UUID, number string) *models.Invoice {
	tax := 10.0
	now := time.Now()
	inv := &models.Invoice{
		ID:            uuid.New(),
		UserID:        ownerID,
		InvoiceNumber: number,
		InvoiceDate:   models.NewDate(now),
		DueDate:       models.NewDate(now.AddDate(0, 0, 30)),
		BillFrom:      models.Party{ClientName: "Test Studio"},
		BillTo:        models.Party{ClientName: "Acme", Email: "ap@acme.test", Address: "1 Main St"},
		Items: []models.LineItem{
			{Name: "Design", Quantity: 2, UnitPrice: 10, TaxPercent: &tax},
			{Name: "Hosting", Quantity: 1, UnitPrice: 5},
		},
		PaymentTerms: "Net 30",
		Status:       models.StatusUnpaid,
	}
	inv.ApplyTotals()
	return inv
}
