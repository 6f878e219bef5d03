package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending     OrderStatus = "PENDING"
	OrderStatusPrioritized OrderStatus = "PRIORITIZED"
	OrderStatusInProgress  OrderStatus = "IN_PROGRESS"
	OrderStatusComplete    OrderStatus = "COMPLETE"
	OrderStatusCollected   OrderStatus = "COLLECTED"
)

// Finished reports whether the order has left the active pipeline.
func (s OrderStatus) Finished() bool {
	return s == OrderStatusComplete || s == OrderStatusCollected
}

// Terminal reports whether no further transition is allowed. COLLECTED
// accepts nothing; every other status transitions freely.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCollected
}

// DueDateLayout is the only accepted due-date format. Strict ISO input keeps
// string comparison in the store equal to calendar comparison.
const DueDateLayout = "2006-01-02"

// NoShortfall marks an order whose materials were fully covered from stock.
const NoShortfall = "none"

type Order struct {
	ID              int64
	ClientName      string
	GarmentType     string
	FabricType      string
	Quantity        float64 // canonical meters
	Unit            string
	IntakeAt        time.Time
	DueDate         string // DueDateLayout
	Status          OrderStatus
	MaterialsNeeded string // NoShortfall or "Q unit of material"
	Priority        bool
}
