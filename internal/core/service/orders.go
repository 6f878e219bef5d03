package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"tailordesk/internal/core/domain"
	"tailordesk/internal/port"
)

const newOrderUsage = "new 1. John Doe|2. Suit|3. Wool|4. 3m|5. 2025-12-15"

// slowdownFactor models shop throughput degrading off-peak: normal within
// 9:00-14:00, +20% until 17:00, +30% outside working hours.
func slowdownFactor(hour int) float64 {
	switch {
	case hour >= 9 && hour < 14:
		return 1.0
	case hour >= 14 && hour < 17:
		return 1.2
	default:
		return 1.3
	}
}

// handleNew validates the five-field order form, normalizes the quantity,
// allocates stock and inserts the order as one atomic unit, then replies
// with a receipt. Validation failures each get their own message; anything
// unexpected past validation collapses into a single format-hint reply with
// the cause logged, and no partial order is left behind.
func (e *Engine) handleNew(ctx context.Context, args string) (string, error) {
	parts := splitFields(strings.TrimSpace(args))
	if len(parts) < 5 {
		return "", formatErr("Missing details or incorrect format.", newOrderUsage)
	}

	clientName := stripOrdinal(parts[0])
	garmentType := stripOrdinal(parts[1])
	fabricType := stripOrdinal(parts[2])
	quantityToken := stripOrdinal(parts[3])
	dueDate := stripOrdinal(parts[4])

	qty, err := domain.ParseQuantity(quantityToken)
	switch {
	case errors.Is(err, domain.ErrUnknownUnit):
		return "", formatErr("Unsupported unit. Use meters, centimeters or yards (m, cm, yd).", newOrderUsage)
	case err != nil:
		return "", formatErr("Quantity needed must include a number and unit (e.g., '3m', '5.5 yards').", newOrderUsage)
	}

	if _, err := time.Parse(domain.DueDateLayout, dueDate); err != nil {
		return "", formatErr("Job out date must be a valid date in YYYY-MM-DD format.", newOrderUsage)
	}

	now := e.clock.Now()
	estimate := qty.Value * domain.HoursPerMeter * slowdownFactor(now.Hour())

	order := domain.Order{
		ClientName:  clientName,
		GarmentType: garmentType,
		FabricType:  fabricType,
		Quantity:    qty.Value,
		Unit:        domain.CanonicalUnit,
		IntakeAt:    now,
		DueDate:     dueDate,
		Status:      domain.OrderStatusPending,
	}

	created, alloc, err := e.orders.CreateWithAllocation(ctx, order, fabricType)
	if err != nil {
		log.Printf("order creation failed: %v", err)
		return "", formatErr("An unexpected error occurred during order creation. Please re-read the format instructions.", newOrderUsage)
	}

	stockStatus := "✅ Materials in stock."
	if !alloc.Covered() {
		stockStatus = "⚠️ *BUY:* " + created.MaterialsNeeded
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎉 *New Order Created! (ID #%d)*\n", created.ID)
	fmt.Fprintf(&b, "👤 *Client:* %s\n", created.ClientName)
	fmt.Fprintf(&b, "👗 *Garment:* %s (%.2f %s)\n", created.GarmentType, created.Quantity, created.Unit)
	fmt.Fprintf(&b, "🗓️ *Due Date:* %s\n", created.DueDate)
	fmt.Fprintf(&b, "⏱️ *Time Estimate:* %.1f hours\n", estimate)
	fmt.Fprintf(&b, "📦 *Stock Check:* %s", stockStatus)
	if qty.Note != "" {
		fmt.Fprintf(&b, "\nℹ️ %s", qty.Note)
	}
	return b.String(), nil
}

// handleTransition applies a named lifecycle transition to one order id.
// Transitions are deliberately unguarded (a never-started order can be
// completed); only COLLECTED is terminal.
func (e *Engine) handleTransition(ctx context.Context, cmd, args string, status domain.OrderStatus) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", formatErr("Please specify the Order ID.", cmd+" 101")
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return "", formatErr("Please specify the Order ID.", cmd+" 101")
	}

	switch err := e.orders.UpdateStatus(ctx, id, status); {
	case errors.Is(err, port.ErrNoSuchOrder):
		return "", notFound("Order #%d was not found.", id)
	case errors.Is(err, port.ErrOrderClosed):
		return fmt.Sprintf("🔒 Order #%d was already collected; nothing more can change.", id), nil
	case err != nil:
		return "", storeFailure(err)
	}

	switch status {
	case domain.OrderStatusInProgress:
		return fmt.Sprintf("🧵 *Order #%d is now IN PROGRESS.*", id), nil
	case domain.OrderStatusComplete:
		return fmt.Sprintf("✂️ *Order #%d complete!* Great work.", id), nil
	case domain.OrderStatusCollected:
		return fmt.Sprintf("💵 *Order #%d marked as COLLECTED.* Transaction complete. 🎉", id), nil
	}
	return fmt.Sprintf("Order #%d is now %s.", id, status), nil
}
