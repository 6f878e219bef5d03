package service

import (
	"context"
	"fmt"
	"strings"

	"tailordesk/internal/core/domain"
)

// handlePrioritize escalates all unfinished orders for a client, or, with no
// name given, reports overdue and uncollected orders.
func (e *Engine) handlePrioritize(ctx context.Context, args string) (string, error) {
	fragment := strings.TrimSpace(args)
	if fragment != "" {
		ids, err := e.orders.PrioritizeByClient(ctx, fragment)
		if err != nil {
			return "", storeFailure(err)
		}
		if len(ids) == 0 {
			return "", notFound("No active orders found for '%s'.", fragment)
		}
		return fmt.Sprintf("🔥 *PRIORITY ALERT!* Orders %s for '%s' have been set to PRIORITIZED.",
			joinIDs(ids), fragment), nil
	}

	today := e.clock.Now().Format(domain.DueDateLayout)
	overdue, err := e.orders.ListOverdue(ctx, today)
	if err != nil {
		return "", storeFailure(err)
	}
	waiting, err := e.orders.ListAwaitingCollection(ctx)
	if err != nil {
		return "", storeFailure(err)
	}

	if len(overdue) == 0 && len(waiting) == 0 {
		return "✅ *NO URGENT OR OVERDUE ORDERS.* The pipeline is clear.", nil
	}

	var b strings.Builder
	b.WriteString("⚠️ *PRIORITY LIST*\n")
	if len(overdue) > 0 {
		fmt.Fprintf(&b, "\n🛑 *OVERDUE - MISSED DEADLINE (%d)* 🛑\n", len(overdue))
		for _, o := range overdue {
			fmt.Fprintf(&b, "  - *ID #%d* (%s) - DUE: %s\n", o.ID, o.ClientName, o.DueDate)
		}
	}
	if len(waiting) > 0 {
		fmt.Fprintf(&b, "\n📦 *READY / UNCOLLECTED (%d)* 📦\n", len(waiting))
		for _, o := range waiting {
			fmt.Fprintf(&b, "  - *ID #%d* (%s) - Garment: %s\n", o.ID, o.ClientName, o.GarmentType)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// handlePending reports every active job, priority escalations first.
func (e *Engine) handlePending(ctx context.Context) (string, error) {
	orders, err := e.orders.ListActive(ctx)
	if err != nil {
		return "", storeFailure(err)
	}
	if len(orders) == 0 {
		return "🎉 *No active orders!* Everything is complete or collected.", nil
	}

	var b strings.Builder
	b.WriteString("📋 *ACTIVE / PENDING JOBS:*\n")
	for _, o := range orders {
		icon := "⏳"
		switch o.Status {
		case domain.OrderStatusPrioritized:
			icon = "🔥"
		case domain.OrderStatusInProgress:
			icon = "🧵"
		}
		materials := "✅ Ready"
		if o.MaterialsNeeded != domain.NoShortfall {
			materials = "⚠️ BUY: " + o.MaterialsNeeded
		}
		fmt.Fprintf(&b, "\n%s *ID #%d* (%s)\n", icon, o.ID, o.ClientName)
		fmt.Fprintf(&b, "  - Status: %s | Garment: %s\n", o.Status, o.GarmentType)
		fmt.Fprintf(&b, "  - Materials: %s\n", materials)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
