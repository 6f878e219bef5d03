package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tailordesk/internal/core/domain"
	"tailordesk/internal/port"
)

var (
	ErrStockConflict = errors.New("stock changed concurrently")
	ErrBadColumn     = errors.New("column not queryable")
)

const intakeLayout = "2006-01-02 15:04:05"

// queryableColumns guards identifier interpolation for the ad-hoc query
// path. Values are always parameter-bound; only names checked here ever
// reach the SQL text.
var queryableColumns = map[string]bool{
	"id": true, "client_name": true, "garment_type": true,
	"fabric_type": true, "quantity": true, "unit": true,
	"due_date": true, "status": true, "materials_needed": true,
}

// SQLAdapter implements the order and inventory repositories over a
// database/sql handle. All SQL is portable between the sqlite and mysql
// drivers: ? placeholders, no server-side time functions.
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (a *SQLAdapter) CreateWithAllocation(ctx context.Context, order domain.Order, fabricQuery string) (domain.Order, domain.Allocation, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, domain.Allocation{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// First match by alphabetical material order keeps ambiguous substring
	// lookups deterministic.
	var item domain.InventoryItem
	var matched *domain.InventoryItem
	err = tx.QueryRowContext(ctx, `
		SELECT material, quantity, unit FROM inventory
		WHERE LOWER(material) LIKE ?
		ORDER BY material LIMIT 1`,
		"%"+strings.ToLower(strings.TrimSpace(fabricQuery))+"%",
	).Scan(&item.Material, &item.Quantity, &item.Unit)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return domain.Order{}, domain.Allocation{}, fmt.Errorf("lookup stock: %w", err)
	default:
		matched = &item
	}

	alloc := domain.Allocate(matched, order.Quantity, order.Unit, order.FabricType)
	if alloc.Matched {
		// Guard on the quantity just read so two near-simultaneous
		// creations cannot both draw from the same stock.
		res, err := tx.ExecContext(ctx, `
			UPDATE inventory SET quantity = ?
			WHERE material = ? AND quantity = ?`,
			alloc.NewStock, alloc.Material, item.Quantity,
		)
		if err != nil {
			return domain.Order{}, domain.Allocation{}, fmt.Errorf("update stock: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return domain.Order{}, domain.Allocation{}, ErrStockConflict
		}
	}

	order.MaterialsNeeded = alloc.Shortfall
	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (client_name, garment_type, fabric_type, quantity, unit,
			intake_at, due_date, status, materials_needed, priority_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ClientName, order.GarmentType, order.FabricType, order.Quantity,
		order.Unit, order.IntakeAt.Format(intakeLayout), order.DueDate,
		order.Status, order.MaterialsNeeded, boolToScore(order.Priority),
	)
	if err != nil {
		return domain.Order{}, domain.Allocation{}, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Order{}, domain.Allocation{}, fmt.Errorf("order id: %w", err)
	}
	order.ID = id

	if err := tx.Commit(); err != nil {
		return domain.Order{}, domain.Allocation{}, fmt.Errorf("commit: %w", err)
	}
	return order, alloc, nil
}

func (a *SQLAdapter) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Decide from the stored status, not from affected-row counts: the mysql
	// driver reports 0 affected rows for an UPDATE that sets the current
	// value, which would misread an idempotent re-send as a closed order.
	var current domain.OrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return port.ErrNoSuchOrder
	}
	if err != nil {
		return fmt.Errorf("check order: %w", err)
	}
	if current.Terminal() {
		return port.ErrOrderClosed
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = ? WHERE id = ?`,
		status, id,
	); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return tx.Commit()
}

func (a *SQLAdapter) PrioritizeByClient(ctx context.Context, fragment string) ([]int64, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id FROM orders
		WHERE LOWER(client_name) LIKE ? AND status NOT IN (?, ?)
		ORDER BY id`,
		"%"+strings.ToLower(strings.TrimSpace(fragment))+"%",
		domain.OrderStatusComplete, domain.OrderStatusCollected,
	)
	if err != nil {
		return nil, fmt.Errorf("find client orders: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+2)
	args = append(args, domain.OrderStatusPrioritized, 1)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err = a.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, priority_score = ? WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("prioritize orders: %w", err)
	}
	return ids, nil
}

const orderColumns = `id, client_name, garment_type, fabric_type, quantity, unit,
	intake_at, due_date, status, materials_needed, priority_score`

func (a *SQLAdapter) ListActive(ctx context.Context) ([]domain.Order, error) {
	return a.listOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY priority_score DESC, intake_at ASC`,
		domain.OrderStatusComplete, domain.OrderStatusCollected,
	)
}

func (a *SQLAdapter) ListOverdue(ctx context.Context, today string) ([]domain.Order, error) {
	return a.listOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE due_date < ? AND status NOT IN (?, ?)
		ORDER BY due_date ASC`,
		today, domain.OrderStatusComplete, domain.OrderStatusCollected,
	)
}

func (a *SQLAdapter) ListAwaitingCollection(ctx context.Context) ([]domain.Order, error) {
	return a.listOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status = ?
		ORDER BY due_date ASC`,
		domain.OrderStatusComplete,
	)
}

func (a *SQLAdapter) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (a *SQLAdapter) Query(ctx context.Context, columns []string, filters []port.QueryFilter, limit int) ([][]string, error) {
	if len(columns) == 0 {
		return nil, ErrBadColumn
	}
	for _, c := range columns {
		if !queryableColumns[c] {
			return nil, fmt.Errorf("%w: %s", ErrBadColumn, c)
		}
	}

	query := `SELECT ` + strings.Join(columns, ", ") + ` FROM orders`
	var args []any
	var conds []string
	for _, f := range filters {
		if !queryableColumns[f.Column] {
			return nil, fmt.Errorf("%w: %s", ErrBadColumn, f.Column)
		}
		// LIKE follows the database collation, so ASCII matching is
		// case-insensitive on both supported drivers.
		conds = append(conds, f.Column+` LIKE ?`)
		args = append(args, "%"+f.Value+"%")
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(columns))
		for i, c := range cells {
			row[i] = c.String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func (a *SQLAdapter) List(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT material, quantity, unit FROM inventory ORDER BY material`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var it domain.InventoryItem
		if err := rows.Scan(&it.Material, &it.Quantity, &it.Unit); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (a *SQLAdapter) Find(ctx context.Context, query string) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := a.db.QueryRowContext(ctx, `
		SELECT material, quantity, unit FROM inventory
		WHERE LOWER(material) LIKE ?
		ORDER BY material LIMIT 1`,
		"%"+strings.ToLower(strings.TrimSpace(query))+"%",
	).Scan(&it.Material, &it.Quantity, &it.Unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find material: %w", err)
	}
	return &it, nil
}

func (a *SQLAdapter) AddStock(ctx context.Context, material string, quantity float64, unit string) (domain.InventoryItem, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Select-then-write instead of ON CONFLICT keeps the statement portable
	// across drivers; the transaction makes the pair atomic.
	var stored domain.InventoryItem
	err = tx.QueryRowContext(ctx, `
		SELECT material, quantity, unit FROM inventory
		WHERE LOWER(material) = ?`,
		strings.ToLower(material),
	).Scan(&stored.Material, &stored.Quantity, &stored.Unit)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		stored = domain.InventoryItem{Material: material, Quantity: quantity, Unit: unit}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO inventory (material, quantity, unit) VALUES (?, ?, ?)`,
			material, quantity, unit,
		)
		if err != nil {
			return domain.InventoryItem{}, fmt.Errorf("insert material: %w", err)
		}
	case err != nil:
		return domain.InventoryItem{}, fmt.Errorf("lookup material: %w", err)
	default:
		stored.Quantity += quantity
		_, err = tx.ExecContext(ctx, `
			UPDATE inventory SET quantity = ? WHERE material = ?`,
			stored.Quantity, stored.Material,
		)
		if err != nil {
			return domain.InventoryItem{}, fmt.Errorf("update material: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.InventoryItem{}, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

func scanOrder(rows *sql.Rows) (domain.Order, error) {
	var o domain.Order
	var intake string
	var score int
	err := rows.Scan(&o.ID, &o.ClientName, &o.GarmentType, &o.FabricType,
		&o.Quantity, &o.Unit, &intake, &o.DueDate, &o.Status,
		&o.MaterialsNeeded, &score)
	if err != nil {
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	o.IntakeAt, err = time.Parse(intakeLayout, intake)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse intake_at: %w", err)
	}
	o.Priority = score > 0
	return o, nil
}

func boolToScore(p bool) int {
	if p {
		return 1
	}
	return 0
}
