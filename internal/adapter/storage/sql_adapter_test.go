package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"tailordesk/internal/core/domain"
	"tailordesk/internal/port"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// :memory: databases are per-connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := Migrate(context.Background(), db, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testOrder(client, fabric string, qty float64, due string) domain.Order {
	return domain.Order{
		ClientName:  client,
		GarmentType: "Suit",
		FabricType:  fabric,
		Quantity:    qty,
		Unit:        domain.CanonicalUnit,
		IntakeAt:    time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DueDate:     due,
		Status:      domain.OrderStatusPending,
	}
}

func TestAddStock_CreatesAndAccumulates(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()

	first, err := adapter.AddStock(ctx, "Linen", 100, "meters")
	if err != nil {
		t.Fatalf("AddStock failed: %v", err)
	}
	if first.Quantity != 100 {
		t.Errorf("expected 100, got %v", first.Quantity)
	}

	second, err := adapter.AddStock(ctx, "linen", 20, "meters")
	if err != nil {
		t.Fatalf("second AddStock failed: %v", err)
	}
	if second.Quantity != 120 {
		t.Errorf("top-up must accumulate: expected 120, got %v", second.Quantity)
	}
	if second.Material != "Linen" {
		t.Errorf("upsert identity is case-insensitive: expected Linen, got %s", second.Material)
	}
}

func TestFind_FirstMatchAlphabetical(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()

	adapter.AddStock(ctx, "Wool Cashmere", 5, "meters")
	adapter.AddStock(ctx, "Wool Blend", 9, "meters")

	item, err := adapter.Find(ctx, "wool")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if item == nil || item.Material != "Wool Blend" {
		t.Errorf("expected alphabetical first match Wool Blend, got %+v", item)
	}

	none, err := adapter.Find(ctx, "velvet")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for no match, got %+v", none)
	}
}

func TestCreateWithAllocation_Covered(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()
	adapter.AddStock(ctx, "Wool Cashmere", 5, "meters")

	created, alloc, err := adapter.CreateWithAllocation(ctx, testOrder("John", "Wool", 3, "2025-12-15"), "Wool")
	if err != nil {
		t.Fatalf("CreateWithAllocation failed: %v", err)
	}

	if created.ID != 1 {
		t.Errorf("expected id 1, got %d", created.ID)
	}
	if !alloc.Covered() || created.MaterialsNeeded != domain.NoShortfall {
		t.Errorf("expected full coverage, got %+v", alloc)
	}

	item, _ := adapter.Find(ctx, "Wool Cashmere")
	if item.Quantity != 2 {
		t.Errorf("expected stock 2, got %v", item.Quantity)
	}
}

func TestCreateWithAllocation_ShortfallClampsToZero(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()
	adapter.AddStock(ctx, "Wool Cashmere", 4, "meters")

	created, _, err := adapter.CreateWithAllocation(ctx, testOrder("John", "Wool", 10, "2025-12-15"), "Wool")
	if err != nil {
		t.Fatalf("CreateWithAllocation failed: %v", err)
	}
	if created.MaterialsNeeded != "6.0 meters of Wool" {
		t.Errorf("expected 6.0 meter shortfall, got %q", created.MaterialsNeeded)
	}

	item, _ := adapter.Find(ctx, "Wool Cashmere")
	if item.Quantity != 0 {
		t.Errorf("stock must clamp at zero, got %v", item.Quantity)
	}
}

func TestCreateWithAllocation_NoMatchLeavesStockAlone(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()
	adapter.AddStock(ctx, "Linen", 50, "meters")

	created, alloc, err := adapter.CreateWithAllocation(ctx, testOrder("John", "Silk", 3, "2025-12-15"), "Silk")
	if err != nil {
		t.Fatalf("CreateWithAllocation failed: %v", err)
	}
	if alloc.Matched {
		t.Error("expected no match")
	}
	if created.MaterialsNeeded != "3.0 meters of Silk" {
		t.Errorf("expected full requirement as shortfall, got %q", created.MaterialsNeeded)
	}

	item, _ := adapter.Find(ctx, "Linen")
	if item.Quantity != 50 {
		t.Errorf("unrelated stock touched: %v", item.Quantity)
	}
}

func TestUpdateStatus(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()
	created, _, _ := adapter.CreateWithAllocation(ctx, testOrder("John", "Wool", 3, "2025-12-15"), "Wool")

	if err := adapter.UpdateStatus(ctx, created.ID, domain.OrderStatusInProgress); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	if err := adapter.UpdateStatus(ctx, 999, domain.OrderStatusComplete); !errors.Is(err, port.ErrNoSuchOrder) {
		t.Errorf("expected ErrNoSuchOrder, got %v", err)
	}

	adapter.UpdateStatus(ctx, created.ID, domain.OrderStatusCollected)
	if err := adapter.UpdateStatus(ctx, created.ID, domain.OrderStatusPending); !errors.Is(err, port.ErrOrderClosed) {
		t.Errorf("collected orders are terminal, got %v", err)
	}
}

func TestUpdateStatus_SameStatusIsIdempotent(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()
	created, _, _ := adapter.CreateWithAllocation(ctx, testOrder("John", "Wool", 3, "2025-12-15"), "Wool")

	if err := adapter.UpdateStatus(ctx, created.ID, domain.OrderStatusComplete); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	// A redelivered command sets the status it already has; that must not be
	// reported as a closed order.
	if err := adapter.UpdateStatus(ctx, created.ID, domain.OrderStatusComplete); err != nil {
		t.Errorf("re-applying the current status must succeed, got %v", err)
	}

	waiting, _ := adapter.ListAwaitingCollection(ctx)
	if len(waiting) != 1 || waiting[0].ID != created.ID {
		t.Errorf("order lost from collection queue: %+v", waiting)
	}
}

func TestListActive_CorruptIntakeReported(t *testing.T) {
	db := openTestDB(t)
	adapter := NewSQLAdapter(db)
	ctx := context.Background()
	created, _, _ := adapter.CreateWithAllocation(ctx, testOrder("John", "Wool", 3, "2025-12-15"), "Wool")

	if _, err := db.ExecContext(ctx,
		`UPDATE orders SET intake_at = 'garbage' WHERE id = ?`, created.ID); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	if _, err := adapter.ListActive(ctx); err == nil {
		t.Error("expected an error for an unparseable intake timestamp")
	}
}

func TestPrioritizeByClient(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()

	adapter.CreateWithAllocation(ctx, testOrder("John Doe", "Wool", 3, "2025-12-15"), "Wool")
	adapter.CreateWithAllocation(ctx, testOrder("Jane Roe", "Wool", 2, "2025-12-20"), "Wool")
	third, _, _ := adapter.CreateWithAllocation(ctx, testOrder("John Doe", "Wool", 4, "2025-12-25"), "Wool")
	adapter.UpdateStatus(ctx, third.ID, domain.OrderStatusComplete)

	ids, err := adapter.PrioritizeByClient(ctx, "john")
	if err != nil {
		t.Fatalf("PrioritizeByClient failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("expected only the active John order, got %v", ids)
	}

	active, _ := adapter.ListActive(ctx)
	for _, o := range active {
		if o.ID == 1 && (o.Status != domain.OrderStatusPrioritized || !o.Priority) {
			t.Errorf("order 1 not escalated: %+v", o)
		}
		if o.ID == 2 && o.Status != domain.OrderStatusPending {
			t.Errorf("order 2 must be untouched: %+v", o)
		}
	}

	if ids, _ := adapter.PrioritizeByClient(ctx, "nobody"); len(ids) != 0 {
		t.Errorf("expected no matches, got %v", ids)
	}
}

func TestOverdueAndAwaitingCollection(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()

	adapter.CreateWithAllocation(ctx, testOrder("Late A", "Wool", 3, "2025-01-10"), "Wool")
	adapter.CreateWithAllocation(ctx, testOrder("Late B", "Wool", 3, "2025-01-05"), "Wool")
	adapter.CreateWithAllocation(ctx, testOrder("Future", "Wool", 3, "2030-01-01"), "Wool")
	done, _, _ := adapter.CreateWithAllocation(ctx, testOrder("Done", "Wool", 3, "2025-02-01"), "Wool")
	adapter.UpdateStatus(ctx, done.ID, domain.OrderStatusComplete)

	overdue, err := adapter.ListOverdue(ctx, "2025-06-02")
	if err != nil {
		t.Fatalf("ListOverdue failed: %v", err)
	}
	if len(overdue) != 2 {
		t.Fatalf("expected 2 overdue, got %d", len(overdue))
	}
	// Most overdue first.
	if overdue[0].ClientName != "Late B" || overdue[1].ClientName != "Late A" {
		t.Errorf("expected due-date ascending, got %s then %s", overdue[0].ClientName, overdue[1].ClientName)
	}

	waiting, err := adapter.ListAwaitingCollection(ctx)
	if err != nil {
		t.Fatalf("ListAwaitingCollection failed: %v", err)
	}
	if len(waiting) != 1 || waiting[0].ClientName != "Done" {
		t.Errorf("expected only the complete order, got %+v", waiting)
	}
}

func TestQuery_LimitAndOrder(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		adapter.CreateWithAllocation(ctx, testOrder("Bulk", "Wool", 1, "2025-12-15"), "Wool")
	}

	rows, err := adapter.Query(ctx, []string{"id", "client_name"}, nil, 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 10 {
		t.Errorf("expected 10 rows, got %d", len(rows))
	}
	if rows[0][0] != "15" {
		t.Errorf("expected newest id first, got %s", rows[0][0])
	}
}

func TestQuery_FilterIsSubstring(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()

	adapter.CreateWithAllocation(ctx, testOrder("John Doe", "Wool", 1, "2025-12-15"), "Wool")
	adapter.CreateWithAllocation(ctx, testOrder("Jane Roe", "Silk", 1, "2025-12-15"), "Silk")

	rows, err := adapter.Query(ctx, []string{"client_name"},
		[]port.QueryFilter{{Column: "client_name", Value: "ohn"}}, 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "John Doe" {
		t.Errorf("expected substring match on John Doe, got %v", rows)
	}
}

func TestQuery_RejectsUnknownIdentifiers(t *testing.T) {
	adapter := NewSQLAdapter(openTestDB(t))
	ctx := context.Background()

	if _, err := adapter.Query(ctx, []string{"id; DROP TABLE orders"}, nil, 10); !errors.Is(err, ErrBadColumn) {
		t.Errorf("expected ErrBadColumn for hostile projection, got %v", err)
	}
	if _, err := adapter.Query(ctx, []string{"id"},
		[]port.QueryFilter{{Column: "priority_score", Value: "1"}}, 10); !errors.Is(err, ErrBadColumn) {
		t.Errorf("expected ErrBadColumn for non-whitelisted filter, got %v", err)
	}
	if _, err := adapter.Query(ctx, nil, nil, 10); !errors.Is(err, ErrBadColumn) {
		t.Errorf("expected ErrBadColumn for empty projection, got %v", err)
	}
}
