package port

import (
	"context"
	"errors"

	"tailordesk/internal/core/domain"
)

var (
	ErrNoSuchOrder = errors.New("no such order")
	ErrOrderClosed = errors.New("order already collected")
)

// QueryFilter is one whitelisted key=value clause matched as a substring.
type QueryFilter struct {
	Column string
	Value  string
}

type OrderRepository interface {
	// CreateWithAllocation atomically allocates stock for the fabric and
	// inserts the order. The returned order carries the assigned id and the
	// computed materials shortfall.
	CreateWithAllocation(ctx context.Context, order domain.Order, fabricQuery string) (domain.Order, domain.Allocation, error)

	// UpdateStatus moves an order to status. Returns ErrNoSuchOrder when the
	// id does not exist, ErrOrderClosed when the order is already COLLECTED.
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error

	// PrioritizeByClient escalates every unfinished order whose client name
	// contains the fragment and returns the affected ids.
	PrioritizeByClient(ctx context.Context, fragment string) ([]int64, error)

	// ListActive returns orders not yet COMPLETE or COLLECTED, priority
	// first, then oldest intake first.
	ListActive(ctx context.Context) ([]domain.Order, error)

	// ListOverdue returns unfinished orders due strictly before today,
	// most overdue first.
	ListOverdue(ctx context.Context, today string) ([]domain.Order, error)

	// ListAwaitingCollection returns COMPLETE orders by due date ascending.
	ListAwaitingCollection(ctx context.Context) ([]domain.Order, error)

	// Query runs a whitelisted projection with substring filters, newest id
	// first, at most limit rows.
	Query(ctx context.Context, columns []string, filters []QueryFilter, limit int) ([][]string, error)
}
